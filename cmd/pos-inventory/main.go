package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/pos-inventory/internal/api/handlers"
	"github.com/aaravmahajanofficial/pos-inventory/internal/api/middleware"
	"github.com/aaravmahajanofficial/pos-inventory/internal/cache"
	"github.com/aaravmahajanofficial/pos-inventory/internal/config"
	appErrors "github.com/aaravmahajanofficial/pos-inventory/internal/errors"
	"github.com/aaravmahajanofficial/pos-inventory/internal/health"
	"github.com/aaravmahajanofficial/pos-inventory/internal/metrics"
	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	repository "github.com/aaravmahajanofficial/pos-inventory/internal/repositories"
	service "github.com/aaravmahajanofficial/pos-inventory/internal/services"
	"github.com/aaravmahajanofficial/pos-inventory/internal/tracing"
	"github.com/aaravmahajanofficial/pos-inventory/pkg/sendgrid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Load config
	cfg := config.MustLoad()

	// Logger setup
	level := slog.LevelInfo
	if cfg.Env == "dev" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Tracing setup
	tp, err := tracing.Setup(context.Background(), cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error configuring tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := repos.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		slog.Error("❌ Error running migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	productCache := cache.NewRedisCache(redisClient, cfg.Cache)
	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg.RateConfig)

	jwtKey := []byte(cfg.Security.JWTKey)
	tokenTTL := time.Duration(cfg.Security.JWTExpiryHours) * time.Hour
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	barcodeService := service.NewBarcodeService()
	barcodeHandler := handlers.NewBarcodeHandler(barcodeService)
	productService := service.NewProductService(repos.Product, productCache, cfg.Barcode.StrictChecksum)
	productHandler := handlers.NewProductHandler(productService)
	categoryService := service.NewCategoryService(repos.Category, productCache)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	orderService := service.NewOrderService(repos.Order, repos.Product)
	orderHandler := handlers.NewOrderHandler(orderService)
	cashierService := service.NewCashierService(repos.Cashier, rateLimiter, jwtKey, tokenTTL)
	cashierHandler := handlers.NewCashierHandler(cashierService)
	reportService := service.NewReportService(repos.Order, emailService)
	reportHandler := handlers.NewReportHandler(reportService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	if err := seedAdmin(context.Background(), cashierService, cfg.Security); err != nil {
		slog.Error("❌ Error seeding the admin account", slog.String("error", err.Error()))
		os.Exit(1)
	}

	healthChecker, err := health.NewHealthHandler(cfg, repos.DB)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/cashiers/register", authMiddleware.Protect(cashierHandler.Register(), models.RoleAdmin))
	routerMux.HandleFunc("POST /api/v1/cashiers/login", cashierHandler.Login())
	routerMux.HandleFunc("GET /api/v1/cashiers/me", authMiddleware.Protect(cashierHandler.Profile()))

	routerMux.HandleFunc("GET /api/v1/barcodes/{code}", authMiddleware.Protect(barcodeHandler.DecodeBarcode()))
	routerMux.HandleFunc("POST /api/v1/barcodes/weighted", authMiddleware.Protect(barcodeHandler.EncodeWeighted()))

	routerMux.HandleFunc("GET /api/v1/products/scan/{code}", authMiddleware.Protect(productHandler.ScanProduct()))
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Protect(productHandler.CreateProduct(), models.RoleAdmin))
	routerMux.HandleFunc("POST /api/v1/products/batch", authMiddleware.Protect(productHandler.BatchCreateProducts(), models.RoleAdmin))
	routerMux.HandleFunc("GET /api/v1/products/{id}", authMiddleware.Protect(productHandler.GetProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Protect(productHandler.UpdateProduct(), models.RoleAdmin))
	routerMux.HandleFunc("GET /api/v1/products/{id}/price-history", authMiddleware.Protect(productHandler.ListPriceHistory()))
	routerMux.HandleFunc("GET /api/v1/products", authMiddleware.Protect(productHandler.ListProducts()))

	routerMux.HandleFunc("POST /api/v1/categories", authMiddleware.Protect(categoryHandler.CreateCategories(), models.RoleAdmin))
	routerMux.HandleFunc("GET /api/v1/categories", authMiddleware.Protect(categoryHandler.ListCategories()))
	routerMux.HandleFunc("GET /api/v1/categories/{id}", authMiddleware.Protect(categoryHandler.GetCategory()))

	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Protect(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Protect(orderHandler.GetOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Protect(orderHandler.ListOrders()))

	routerMux.HandleFunc("GET /api/v1/reports/sales", authMiddleware.Protect(reportHandler.SalesReport(), models.RoleAdmin))
	routerMux.HandleFunc("POST /api/v1/reports/sales/email", authMiddleware.Protect(reportHandler.EmailSalesReport(), models.RoleAdmin))

	routerMux.Handle("GET /health", healthChecker.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}
}

// seedAdmin registers the configured admin account once. An existing account
// with the same username is left untouched.
func seedAdmin(ctx context.Context, cashierService service.CashierService, sec config.Security) error {
	if sec.AdminUsername == "" || sec.AdminPassword == "" {
		return nil
	}

	_, err := cashierService.Register(ctx, &models.RegisterRequest{
		Name:     "Administrator",
		Username: sec.AdminUsername,
		Password: sec.AdminPassword,
		Role:     models.RoleAdmin,
	})
	if errors.Is(err, appErrors.ErrDuplicateEntry) {
		return nil
	}

	return err
}
