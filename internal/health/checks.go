package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/pos-inventory/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewHealthHandler reports on the database, the cache and the pool the
// service is actually holding open.
func NewHealthHandler(cfg *config.Config, pool Pinger) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "database",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: postgres.New(postgres.Config{
					DSN: cfg.Database.GetDSN(),
				}),
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(
					healthRedis.Config{
						DSN: cfg.RedisConnect.GetDSN(),
					},
				),
			},
			health.Config{
				Name:      "connection-pool",
				Timeout:   2 * time.Second,
				SkipOnErr: true,
				Check: func(ctx context.Context) error {
					if pool == nil {
						return fmt.Errorf("connection pool is not initialized")
					}
					if err := pool.PingContext(ctx); err != nil {
						return fmt.Errorf("failed to ping connection pool: %w", err)
					}
					return nil
				},
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
