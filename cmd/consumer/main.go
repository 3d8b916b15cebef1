package main

import (
	"log"

	"go-onboard/internal/app"
	"go-onboard/internal/bootstrap"
	"go-onboard/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := bootstrap.NewLogger()
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	apperror.Init()

	if err := app.RunConsumer(); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
