package database

// The postgres store's queries live in queries/*.sql; sqlc compiles them
// against the goose migrations into the generated package.
//go:generate go run github.com/sqlc-dev/sqlc/cmd/sqlc generate -f ../../sqlc.yaml
