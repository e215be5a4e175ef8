package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/shippingrepo"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "github.com/lib/pq"              // registers the "postgres" database/sql driver
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	DriverPgx = "pgx"
	DriverPq  = "postgres"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// Driver selects the database/sql driver: DriverPgx (default) or DriverPq.
	Driver string
}

func (c Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, sslMode)
}

// Open connects through the configured database/sql driver and hands the
// pool to GORM.
func Open(cfg Config) (*gorm.DB, error) {
	return OpenDSN(cfg.Driver, cfg.DSN())
}

// OpenDSN accepts both key=value and URL connection strings. An empty
// driverName selects DriverPgx.
func OpenDSN(driverName, dsn string) (*gorm.DB, error) {
	if driverName == "" {
		driverName = DriverPgx
	}
	if driverName != DriverPgx && driverName != DriverPq {
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", driverName, err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init gorm: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table the service touches.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&shippingrepo.RecordDTO{},
		&inventoryrepo.ProductDTO{},
	)
}
