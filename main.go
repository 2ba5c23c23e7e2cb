package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"paper-trader/config"
	"paper-trader/database"
	"paper-trader/handlers"
	"paper-trader/middleware"
	"paper-trader/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.MustLoad()
	config.SetupLogger(cfg)

	// Initialize PostgreSQL and Redis connections.
	config.InitDB(cfg)
	config.InitRedis(cfg)

	sqlDB, err := config.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database instance: ", err)
	}
	defer sqlDB.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to migrate models:", err)
	}

	if err := database.Seed(); err != nil {
		log.Fatal("Failed to seed reference data:", err)
	}

	sched := scheduler.New()
	sched.NewIntervalJob("price snapshots", database.SnapshotPrices, cfg.Jobs.PriceSnapshotInterval, true)
	sched.Start()
	defer sched.Stop()

	router := newRouter()

	slog.Info("server starting", slog.String("port", cfg.Port))

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func newRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestID())

	// Public routes
	router.POST("/signup", handlers.Signup)
	router.POST("/login", handlers.Login)
	router.GET("/stocks", handlers.ListStocks)
	router.GET("/ws/prices", handlers.StreamPrices)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Protected routes
	auth := router.Group("/")
	auth.Use(middleware.JWTAuth())
	{
		auth.GET("/stocks/:id", handlers.GetStock)
		auth.GET("/stocks/:id/history", handlers.GetStockHistory)
		auth.GET("/account", handlers.GetAccount)
		auth.GET("/account/export", handlers.ExportAccount)

		// Trades accept POST only; everything else goes back to the
		// detail page.
		tradeRoutes := map[string]gin.HandlerFunc{
			"/stocks/:id/buy":   handlers.BuyStock,
			"/stocks/:id/sell":  handlers.SellStock,
			"/stocks/:id/trade": handlers.TradeStock,
		}
		nonPost := []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		}
		for route, handler := range tradeRoutes {
			auth.POST(route, handler)
			for _, method := range nonPost {
				auth.Handle(method, route, handlers.RedirectToDetail)
			}
		}
	}

	return router
}
