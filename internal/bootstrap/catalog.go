package bootstrap

import (
	"context"
	"fmt"

	"github.com/osse101/Crucible_Go/internal/catalog"
	"github.com/osse101/Crucible_Go/internal/config"
	"github.com/osse101/Crucible_Go/internal/manufacturing"
)

// LoadCatalog reads and validates the material and blueprint definitions
func LoadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	cat, err := catalog.Load(ctx, cfg.CatalogDir, cfg.CatalogCacheSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}
	return cat, nil
}

// CaptainBonuses turns the catalog's captain entries into the manufacturing bonus table
func CaptainBonuses(cat *catalog.Catalog) manufacturing.StaticBonuses {
	bonuses := make(manufacturing.StaticBonuses)
	for _, c := range cat.Captains() {
		bonuses[c.OwnerID] = manufacturing.Bonus{Stat: c.StatBonus, Speed: c.SpeedBonus}
	}
	return bonuses
}
