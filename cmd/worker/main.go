package main

import (
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"loyalty-service/internal/consumers"
	"loyalty-service/internal/database"
	"loyalty-service/internal/services"
	"loyalty-service/internal/worker"
)

func main() {
	// Load env
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found in ../../.env, trying .env")
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found, using system env")
		}
	}

	// Connect DB
	database.Connect()
	db := database.DB

	// Init Services
	helperService := services.NewHelperService(db)
	settlementService := services.NewSettlementService(db, helperService, nil)

	// Processor
	processor := consumers.NewSettlementProcessor(settlementService)

	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	log.Println("Settlement worker starting...")
	worker.StartWorker(asynq.RedisClientOpt{Addr: redisAddr}, processor)
}
