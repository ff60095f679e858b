package database

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/Crucible_Go/internal/database/generated"
	"github.com/osse101/Crucible_Go/internal/testing/leaktest"
)

var testDBConnString string

var errNotEnough = errors.New("not enough material")

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		testDBConnString, terminate = setupContainer(context.Background())
	}

	code := m.Run()

	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupContainer(ctx context.Context) (string, func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("crucible_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}
	terminate := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		return "", terminate
	}
	if err := Migrate(ctx, connStr, nil); err != nil {
		fmt.Printf("WARNING: Failed to apply migrations: %v\n", err)
		return "", terminate
	}
	return connStr, terminate
}

func requireDatabase(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testDBConnString == "" {
		t.Skip("Skipping integration test: database not available")
	}
}

func openPool(t *testing.T, maxConns int) *pgxpool.Pool {
	t.Helper()
	pool, err := NewPool(context.Background(), PoolConfig{
		ConnString:      testDBConnString,
		MaxConns:        maxConns,
		MaxConnIdleTime: time.Minute,
		MaxConnLifetime: 5 * time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func insertStack(t *testing.T, pool *pgxpool.Pool, id string, quantity int) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO material_stacks (stack_id, owner_id, material_type, tier, purity, quantity)
		VALUES ($1, 'owner-1', 'ferrite', 2, 0.5, $2)
		ON CONFLICT (stack_id) DO UPDATE SET quantity = EXCLUDED.quantity
	`, id, quantity)
	require.NoError(t, err)
}

func stackQuantity(t *testing.T, pool *pgxpool.Pool, id string) int {
	t.Helper()
	var qty int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT quantity FROM material_stacks WHERE stack_id = $1`, id).Scan(&qty))
	return qty
}

// consumeOnce runs the conditional deduction the store relies on
func consumeOnce(ctx context.Context, pool *pgxpool.Pool, id string, quantity int) error {
	affected, err := generated.New(pool).ConsumeStack(ctx, generated.ConsumeStackParams{
		Quantity:  int32(quantity),
		UpdatedAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
		StackID:   id,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return errNotEnough
	}
	return nil
}

func TestNewPool_RejectsBadConnString(t *testing.T) {
	_, err := NewPool(context.Background(), PoolConfig{ConnString: "postgres://%zz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedToParseConnString)
}

func TestNewPool_AppliesConfig(t *testing.T) {
	requireDatabase(t)
	pool := openPool(t, 3)

	assert.Equal(t, int32(3), pool.Config().MaxConns)
	assert.Equal(t, DefaultMinConnections, pool.Config().MinConns)
	assert.Equal(t, time.Minute, pool.Config().MaxConnIdleTime)

	var appName string
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT current_setting('application_name')`).Scan(&appName))
	assert.Equal(t, DefaultApplicationName, appName)
}

func TestNewPool_SingleConnectionCapsMinConns(t *testing.T) {
	requireDatabase(t)
	pool := openPool(t, 1)

	assert.Equal(t, int32(1), pool.Config().MinConns)
}

// Forty concurrent consumers race on one stack through a pool of five
// connections. Exactly floor(100/7) of them may win.
func TestPool_ConcurrentConsumeNeverOverdraws(t *testing.T) {
	requireDatabase(t)
	pool := openPool(t, 5)
	insertStack(t, pool, "race-1", 100)

	var won, lost int32
	leaktest.Run(t, 2, func() {
		var wg sync.WaitGroup
		for i := 0; i < 40; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := consumeOnce(context.Background(), pool, "race-1", 7)
				switch {
				case err == nil:
					atomic.AddInt32(&won, 1)
				case errors.Is(err, errNotEnough):
					atomic.AddInt32(&lost, 1)
				default:
					t.Errorf("consume failed: %v", err)
				}
			}()
		}
		wg.Wait()
	})

	assert.Equal(t, int32(14), won)
	assert.Equal(t, int32(26), lost)
	assert.Equal(t, 2, stackQuantity(t, pool, "race-1"))
	assert.Equal(t, int32(0), pool.Stat().AcquiredConns())
}

// A deduction the schema refuses must not keep its connection checked out
func TestPool_FailedDeductionReleasesConnection(t *testing.T) {
	requireDatabase(t)
	pool := openPool(t, 2)
	insertStack(t, pool, "check-1", 5)

	for i := 0; i < 5; i++ {
		_, err := pool.Exec(context.Background(),
			`UPDATE material_stacks SET quantity = quantity - 10 WHERE stack_id = $1`, "check-1")
		require.Error(t, err, "quantity >= 0 check must reject overdraw")
	}

	assert.Equal(t, 5, stackQuantity(t, pool, "check-1"))
	assert.Equal(t, int32(0), pool.Stat().AcquiredConns())
}

func TestPool_ExhaustedPoolTimesOut(t *testing.T) {
	requireDatabase(t)
	pool := openPool(t, 1)

	held, err := pool.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = consumeOnce(ctx, pool, "missing", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errNotEnough, "no connection means no deduction attempt")

	held.Release()
	assert.ErrorIs(t, consumeOnce(context.Background(), pool, "missing", 1), errNotEnough)
}

// TestMigrate_EmbeddedSchema applies the embedded migrations again; the second run is a no-op
func TestMigrate_EmbeddedSchema(t *testing.T) {
	requireDatabase(t)

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, testDBConnString, nil))

	pool := openPool(t, 2)
	for _, table := range []string{"material_stacks", "refining_jobs", "manufacturing_jobs"} {
		var exists bool
		err := pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}
}
