package shipping

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-pricing/internal/repo"
	"github.com/angelmondragon/storefront-pricing/pkg/config"
	"github.com/angelmondragon/storefront-pricing/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository loads shipping zones, falling back to the configured zone for
// regions without a row.
type Repository struct {
	repo.Base
	fallback models.ShippingZone
}

// NewRepository constructs a zone repository. cfg describes the fallback zone.
func NewRepository(db *gorm.DB, cfg config.ShippingConfig) (*Repository, error) {
	fallback, err := FallbackZone(cfg)
	if err != nil {
		return nil, err
	}
	return &Repository{Base: repo.NewBase(db), fallback: fallback}, nil
}

// FallbackZone builds the zone used when a region has no row.
func FallbackZone(cfg config.ShippingConfig) (models.ShippingZone, error) {
	parse := func(name, raw string) (decimal.Decimal, error) {
		v, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return decimal.Zero, fmt.Errorf("shipping %s: %w", name, err)
		}
		return v, nil
	}

	base, err := parse("base rate", cfg.BaseRate)
	if err != nil {
		return models.ShippingZone{}, err
	}
	express, err := parse("express multiplier", cfg.ExpressMultiplier)
	if err != nil {
		return models.ShippingZone{}, err
	}
	region, err := parse("region multiplier", cfg.RegionMultiplier)
	if err != nil {
		return models.ShippingZone{}, err
	}
	zone := models.ShippingZone{
		Region:            "",
		BaseRate:          base,
		ExpressMultiplier: express,
		RegionMultiplier:  region,
	}
	if strings.TrimSpace(cfg.FreeShippingThreshold) != "" {
		threshold, err := parse("free shipping threshold", cfg.FreeShippingThreshold)
		if err != nil {
			return models.ShippingZone{}, err
		}
		zone.FreeShippingThreshold = &threshold
	}
	return zone, nil
}

// FindByRegion returns the zone for region, or a copy of the fallback zone.
func (r *Repository) FindByRegion(ctx context.Context, region string) (*models.ShippingZone, error) {
	normalized := strings.ToLower(strings.TrimSpace(region))
	if normalized != "" {
		var zone models.ShippingZone
		err := r.DB(ctx).Where("region = ?", normalized).First(&zone).Error
		if err == nil {
			return &zone, nil
		}
		if !repo.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping zone")
		}
	}
	zone := r.fallback
	zone.Region = normalized
	return &zone, nil
}

// Upsert stores a zone keyed by its lower-cased region.
func (r *Repository) Upsert(ctx context.Context, zone *models.ShippingZone) error {
	if zone == nil {
		return fmt.Errorf("zone required")
	}
	zone.Region = strings.ToLower(strings.TrimSpace(zone.Region))
	if zone.Region == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "region is required")
	}
	var existing models.ShippingZone
	err := r.DB(ctx).Where("region = ?", zone.Region).First(&existing).Error
	switch {
	case err == nil:
		zone.ID = existing.ID
		zone.CreatedAt = existing.CreatedAt
		return r.DB(ctx).Save(zone).Error
	case repo.IsNotFound(err):
		if zone.ID == uuid.Nil {
			zone.ID = uuid.New()
		}
		return r.DB(ctx).Create(zone).Error
	default:
		return err
	}
}
