// main.go
package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/chibuezemicahe/wdd330-sleepoutside/cart"
	"github.com/chibuezemicahe/wdd330-sleepoutside/catalog"
	"github.com/chibuezemicahe/wdd330-sleepoutside/checkout"
	"github.com/chibuezemicahe/wdd330-sleepoutside/config"
	"github.com/chibuezemicahe/wdd330-sleepoutside/controllers"
	"github.com/chibuezemicahe/wdd330-sleepoutside/middleware"
	"github.com/chibuezemicahe/wdd330-sleepoutside/order"
	"github.com/chibuezemicahe/wdd330-sleepoutside/routes"
	"github.com/chibuezemicahe/wdd330-sleepoutside/search"
	"github.com/chibuezemicahe/wdd330-sleepoutside/storage"
	"github.com/chibuezemicahe/wdd330-sleepoutside/utils"
)

func main() {
	// Load environment variables from .env file
	cfg := config.Load()

	logger, err := utils.InitLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	slots, err := openStorage(cfg.Storage)
	if err != nil {
		zap.S().Fatalw("Error opening storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer func() {
		if err := slots.Close(); err != nil {
			zap.S().Errorw("Error closing storage", "error", err)
		}
	}()

	cartStore := cart.NewStore(slots)

	var catalogs []search.Catalog
	for _, category := range cfg.Catalog.Categories {
		catalogs = append(catalogs, catalog.New(category, cfg.Catalog.URL,
			catalog.WithEnvelopeField(cfg.Catalog.EnvelopeField),
			catalog.WithCacheTTL(cfg.Catalog.CacheTTL),
		))
	}
	engine := search.NewEngine(cartStore, catalogs...)

	// Initialize checkout
	numbers, err := order.NewSnowflakeNumbers(cfg.Checkout.NodeID)
	if err != nil {
		zap.S().Fatalw("Error creating order number source", "node", cfg.Checkout.NodeID, "error", err)
	}
	validator := checkout.New()
	history := order.NewHistory(slots)
	opts := []order.Option{
		order.WithPricing(order.Pricing{
			FreeShippingOver: decimal.NewFromFloat(cfg.Checkout.FreeShippingOver),
			FlatShipping:     decimal.NewFromFloat(cfg.Checkout.FlatShipping),
			TaxRate:          decimal.NewFromFloat(cfg.Checkout.TaxRate),
		}),
		order.WithSubmitTimeout(cfg.Checkout.SubmitTimeout),
	}
	if emailService := utils.NewEmailService(cfg.Email.PostmarkToken, cfg.Email.Sender, cfg.Email.OrderInbox); emailService != nil {
		opts = append(opts, order.WithNotifier(emailService))
	}
	processor := order.NewProcessor(cartStore, history, validator,
		order.NewSimulatedSubmitter(cfg.Checkout.SubmitDelay, cfg.Checkout.FailureRate),
		numbers, opts...)

	// Initialize controllers
	sessionController := controllers.NewSessionController()
	productController := controllers.NewProductController(engine)
	searchController := controllers.NewSearchController(engine)
	cartController := controllers.NewCartController(cartStore, engine)
	orderController := controllers.NewOrderController(processor, validator, history)

	// Set up the router
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger)
	routes.RegisterRoutes(router, sessionController, productController, searchController, cartController, orderController)
	if cfg.Catalog.Dir != "" {
		router.PathPrefix("/json/").Handler(http.StripPrefix("/json/", http.FileServer(http.Dir(cfg.Catalog.Dir))))
	}

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	// the catalog may be served by this process, so the index is built
	// once the listener is up
	scheduler := cron.New()
	go func() {
		n := engine.Load(context.Background())
		zap.S().Infow("Search index built", "products", n, "categories", engine.Categories())
		if cfg.Catalog.RefreshSpec == "" {
			return
		}
		if _, err := engine.ScheduleRefresh(scheduler, cfg.Catalog.RefreshSpec); err != nil {
			zap.S().Errorw("Invalid catalog refresh schedule", "spec", cfg.Catalog.RefreshSpec, "error", err)
			return
		}
		scheduler.Start()
	}()
	defer scheduler.Stop()

	// Start the server
	zap.S().Infow("Server is running", "port", cfg.Port, "storage", cfg.Storage.Driver)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zap.S().Errorw("Server stopped", "error", err)
	}
}

func openStorage(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "bolt":
		return storage.OpenBolt(cfg.BoltPath)
	case "mongo":
		client, err := utils.ConnectDB(cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return storage.NewMongoStore(client, cfg.MongoDatabase), nil
	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
