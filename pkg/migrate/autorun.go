package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-pricing/pkg/config"
	"github.com/angelmondragon/storefront-pricing/pkg/db"
	"github.com/angelmondragon/storefront-pricing/pkg/logger"
)

// MaybeRunDev applies pending migrations on API startup. It only acts in the
// dev environment with the auto-migrate flag set, and never against SQLite.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	switch {
	case !cfg.App.IsDev(), !cfg.FeatureFlags.AutoMigrate:
		return nil
	case cfg.DB.IsSQLite():
		logg.Warn(ctx, "migrate.autorun.skipped: migrations target postgres")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	pending, err := Pending(ctx, sqlDB, DefaultDir)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		logg.Info(ctx, "migrate.autorun.up_to_date")
		return nil
	}

	versions := make([]int64, 0, len(pending))
	for _, m := range pending {
		versions = append(versions, m.Version)
	}
	ctx = logg.WithFields(ctx, map[string]any{"dir": DefaultDir, "pending": versions})
	logg.Info(ctx, "migrate.autorun.start")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return err
	}
	logg.Info(ctx, "migrate.autorun.done")
	return nil
}
