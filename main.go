package main

import (
	"log"
	"os"

	"loyalty-service/internal/database"
	"loyalty-service/internal/handlers"
	"loyalty-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	// Initialize Database
	database.Connect()
	database.Migrate()
	db := database.DB

	// Redis/Asynq Client
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	// Init Services
	helperService := services.NewHelperService(db)
	validatorService := services.NewValidatorService(db, helperService)
	transferService := services.NewTransferService(db, helperService, validatorService)
	walletService := services.NewWalletService(db, helperService)
	goalService := services.NewGoalService(db, helperService)
	kioskService := services.NewKioskService(db, helperService)
	dueService := services.NewDueService(db)
	settlementService := services.NewSettlementService(db, helperService, asynqClient)

	// Handlers
	transferHandler := handlers.NewTransferHandler(db, transferService)
	walletHandler := handlers.NewWalletHandler(walletService)
	goalHandler := handlers.NewGoalHandler(goalService, kioskService)
	dueHandler := handlers.NewDueHandler(dueService)
	settlementHandler := handlers.NewSettlementHandler(settlementService, os.Getenv("CRON_SECRET"))

	// Initialize Gin
	r := gin.Default()

	// Ping endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome To Loyalty Points service",
		})
	})

	// Transfers
	r.POST("/transfers", transferHandler.SendPoints)
	r.GET("/transactions", walletHandler.ListTransactions)

	// Wallets
	r.POST("/wallets", walletHandler.RegisterWallet)
	r.GET("/wallets/balance", walletHandler.GetBalance)

	// Kiosks & worker profiles
	r.POST("/kiosks", goalHandler.CreateKiosk)
	r.POST("/kiosks/:id/workers", goalHandler.AddWorker)
	r.POST("/workers/:id/activate", goalHandler.ActivateWorker)
	r.POST("/workers/:id/depart", goalHandler.DepartWorker)

	// Goals
	r.POST("/goals", goalHandler.SetGoal)
	r.GET("/goals", goalHandler.ListGoals)
	r.DELETE("/goals/:id", goalHandler.ArchiveGoal)

	// Dues
	r.GET("/dues", dueHandler.ListDues)
	r.POST("/dues/:id/collect", dueHandler.CollectDue)

	// Scheduler trigger (shared-secret bearer)
	r.POST("/settlement/run", settlementHandler.RunSettlement)

	// Start Cron Scheduler
	settlementService.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("HTTP Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
