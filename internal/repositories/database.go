package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/pos-inventory/internal/config"
	appErrors "github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type Repository struct {
	DB       *sql.DB
	Cashier  CashierRepository
	Category CategoryRepository
	Product  ProductRepository
	Order    OrderRepository
}

func New(cfg *config.Config) (*Repository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection to make sure DB is reachable
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewFromDB(db, cfg.Orders.AllowNegativeStock), nil
}

// NewFromDB wires every repository over an existing pool.
func NewFromDB(db *sql.DB, allowNegativeStock bool) *Repository {
	return &Repository{
		DB:       db,
		Cashier:  NewCashierRepo(db),
		Category: NewCategoryRepo(db),
		Product:  NewProductRepo(db),
		Order:    NewOrderRepo(db, allowNegativeStock),
	}
}

// RunMigrations applies every pending migration found under migrationsPath.
func (p *Repository) RunMigrations(migrationsPath string) error {

	driver, err := postgres.WithInstance(p.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		slog.Info("Database schema is up to date", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}

	return nil
}

func (p *Repository) Close() error {
	return p.DB.Close()
}

// mapPQError turns constraint violations into the shared sentinels. The
// violated column is appended so callers can build a precise message.
func mapPQError(err error) error {

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		return fmt.Errorf("%w: %s", appErrors.ErrDuplicateEntry, constraintField(pqErr.Constraint))
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: %s", appErrors.ErrNotFound, constraintField(pqErr.Constraint))
	}

	return err
}

func constraintField(constraint string) string {
	switch {
	case strings.Contains(constraint, "barcode"):
		return "barcode"
	case strings.Contains(constraint, "scale_plu"):
		return "scale_plu"
	case strings.Contains(constraint, "username"):
		return "username"
	case strings.Contains(constraint, "category"):
		return "category"
	case strings.Contains(constraint, "price_history"):
		return "price_history"
	}

	return constraint
}

type rowScanner interface {
	Scan(dest ...any) error
}
