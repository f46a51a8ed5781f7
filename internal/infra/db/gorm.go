package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/parvejme24/bistro-boss-server/internal/domain/model"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect() (*gorm.DB, error) {
	// DATABASE_URL があれば最優先で使う
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	host := getenv("POSTGRES_HOST", "localhost")
	port := getenv("POSTGRES_PORT", "5432")
	user := getenv("POSTGRES_USER", "postgres")
	pass := getenv("POSTGRES_PASSWORD", "postgres")
	name := getenv("POSTGRES_DB", "bistro_boss")
	ssl := getenv("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, ssl,
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate はスキーマを最新化する。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Menu{},
		&model.Cart{},
		&model.CartItem{},
		&model.ShippingZone{},
		&model.ShippingMethod{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderDaySequence{},
		&model.AdminConfig{},
	); err != nil {
		return err
	}

	// 1ユーザーにつきACTIVEは1つ。同時の初回カート作成はここで弾いてリトライさせる。
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_cart_per_user
		ON carts (user_id)
		WHERE status = 'ACTIVE'`).Error
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
