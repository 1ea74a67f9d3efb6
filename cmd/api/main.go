package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"bimrov/adapters/api"
	"bimrov/app"
	"bimrov/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadSimConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	service, err := app.NewValuationService(cfg, config.DefaultFixedParams())
	if err != nil {
		log.Fatalf("failed to build valuation service: %v", err)
	}

	server := api.NewApp(api.Config{Port: os.Getenv("PORT")}, service)
	if err := server.Start(); err != nil {
		log.Fatal("Server failed:", err)
	}
}
