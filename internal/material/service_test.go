package material

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Crucible_Go/internal/catalog"
	"github.com/osse101/Crucible_Go/internal/database/memory"
	"github.com/osse101/Crucible_Go/internal/domain"
	"github.com/osse101/Crucible_Go/internal/utils"
)

func newTestCatalog() *catalog.Catalog {
	return catalog.New(&catalog.Config{
		Materials: []catalog.MaterialDef{
			{MaterialType: "ferrite", DisplayName: "Ferrite", Attributes: map[domain.AttributeName]float64{domain.AttrStrength: 40}},
		},
	}, 0, 0)
}

func setupService(t *testing.T, rolls ...float64) (*service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(store, newTestCatalog(), utils.NewFixedSource(rolls...)).(*service)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

func floatPtr(v float64) *float64 { return &v }

func TestExtract_RollsPurityWithinRange(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t, 0.6)

	view, err := svc.Extract(ctx, ExtractRequest{OwnerID: "owner-1", MaterialType: "ferrite", Tier: 2, Quantity: 250})
	require.NoError(t, err)

	assert.InDelta(t, 0.46, view.Purity.Value, 1e-9)
	assert.Equal(t, domain.GradeStandard, view.Grade)
	assert.Equal(t, "Standard", view.GradeName)
	assert.False(t, view.IsRefined)

	stored, err := store.GetStack(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 250, stored.Quantity)
	assert.Equal(t, domain.Tier(2), stored.Tier)
}

func TestExtract_ExplicitPurityNeverMerges(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	first, err := svc.Extract(ctx, ExtractRequest{OwnerID: "owner-1", MaterialType: "ferrite", Tier: 1, Quantity: 10, Purity: floatPtr(0.9)})
	require.NoError(t, err)
	second, err := svc.Extract(ctx, ExtractRequest{OwnerID: "owner-1", MaterialType: "ferrite", Tier: 1, Quantity: 10, Purity: floatPtr(0.3)})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	views, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestExtract_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     ExtractRequest
		wantErr error
	}{
		{"missing owner", ExtractRequest{MaterialType: "ferrite", Tier: 1, Quantity: 1}, domain.ErrInvalidInput},
		{"unknown material", ExtractRequest{OwnerID: "o", MaterialType: "mithril", Tier: 1, Quantity: 1}, domain.ErrUnknownMaterialType},
		{"tier too high", ExtractRequest{OwnerID: "o", MaterialType: "ferrite", Tier: 6, Quantity: 1}, domain.ErrInvalidInput},
		{"tier zero", ExtractRequest{OwnerID: "o", MaterialType: "ferrite", Tier: 0, Quantity: 1}, domain.ErrInvalidInput},
		{"zero quantity", ExtractRequest{OwnerID: "o", MaterialType: "ferrite", Tier: 1}, domain.ErrInvalidQuantity},
		{"purity above one", ExtractRequest{OwnerID: "o", MaterialType: "ferrite", Tier: 1, Quantity: 1, Purity: floatPtr(1.2)}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupService(t, 0.5)
			_, err := svc.Extract(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGet_RejectsOtherOwner(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t, 0.2)

	view, err := svc.Extract(ctx, ExtractRequest{OwnerID: "owner-1", MaterialType: "ferrite", Tier: 1, Quantity: 5})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "owner-2", view.ID)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	got, err := svc.Get(ctx, "owner-1", view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, got.ID)

	_, err = svc.Get(ctx, "owner-1", "missing")
	assert.ErrorIs(t, err, domain.ErrStackNotFound)
}

func TestNewStackView_RefinementLevel(t *testing.T) {
	view := NewStackView(domain.MaterialStack{Purity: domain.PurityFromRaw(1.25), Quantity: 1})
	assert.Equal(t, domain.GradeQuantum, view.Grade)
	assert.Equal(t, 2, view.Refinement.Level)
	assert.InDelta(t, 1.02, view.Refinement.BonusMultiplier, 1e-9)
}
