// Package testdb opens throwaway SQLite databases carrying the pricing schema
// for repository tests.
package testdb

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Money columns are TEXT so decimals round-trip exactly.
var schema = []string{`
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category_id TEXT,
  sub_category_id TEXT,
  price TEXT NOT NULL,
  sale_price TEXT,
  discount_price TEXT,
  on_sale INTEGER NOT NULL DEFAULT 0,
  sale_start DATETIME,
  sale_end DATETIME,
  in_stock INTEGER NOT NULL DEFAULT 1,
  quantity INTEGER NOT NULL DEFAULT 0,
  main_image TEXT,
  media_original_url TEXT,
  media_thumbnail_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  sku TEXT NOT NULL DEFAULT '',
  price TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS deals (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  discount_type TEXT NOT NULL,
  discount_value TEXT NOT NULL,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  priority INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 0,
  is_global INTEGER NOT NULL DEFAULT 0,
  product_ids TEXT,
  category_ids TEXT,
  sub_category_ids TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  discount_type TEXT NOT NULL,
  discount_value TEXT NOT NULL,
  min_cart_value TEXT,
  max_discount TEXT,
  usage_limit INTEGER,
  per_user_limit INTEGER,
  used_count INTEGER NOT NULL DEFAULT 0,
  start_date DATETIME,
  expiry_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS coupon_usages (
  coupon_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  count INTEGER NOT NULL DEFAULT 0,
  updated_at DATETIME,
  PRIMARY KEY (coupon_id, user_id)
);`, `
CREATE TABLE IF NOT EXISTS shipping_zones (
  id TEXT PRIMARY KEY,
  region TEXT NOT NULL UNIQUE,
  base_rate TEXT NOT NULL,
  express_multiplier TEXT NOT NULL,
  region_multiplier TEXT NOT NULL,
  free_shipping_threshold TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  coupon_id TEXT,
  shipping_method TEXT NOT NULL DEFAULT 'standard',
  payment_method TEXT NOT NULL DEFAULT 'card',
  region TEXT NOT NULL DEFAULT '',
  subtotal TEXT NOT NULL DEFAULT '0',
  discount TEXT NOT NULL DEFAULT '0',
  shipping_fee TEXT NOT NULL DEFAULT '0',
  cod_fee TEXT NOT NULL DEFAULT '0',
  final_total TEXT NOT NULL DEFAULT '0',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  variant_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS buy_now_sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  variant_id TEXT,
  coupon_id TEXT,
  shipping_method TEXT NOT NULL DEFAULT 'standard',
  payment_method TEXT NOT NULL DEFAULT 'card',
  region TEXT NOT NULL DEFAULT '',
  subtotal TEXT NOT NULL DEFAULT '0',
  discount TEXT NOT NULL DEFAULT '0',
  shipping_fee TEXT NOT NULL DEFAULT '0',
  cod_fee TEXT NOT NULL DEFAULT '0',
  final_total TEXT NOT NULL DEFAULT '0',
  created_at DATETIME,
  updated_at DATETIME
);`}

// Open returns an isolated in-memory database with every pricing table created.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	for _, ddl := range schema {
		require.NoError(t, db.Exec(ddl).Error)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
