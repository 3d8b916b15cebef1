package main

import (
	"log"
	"os"
	"time"

	"go-onboard/internal/app"
	"go-onboard/internal/bootstrap"
	"go-onboard/internal/shared/apperror"

	"github.com/gin-gonic/gin"
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

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	if err := app.BuildApp(router); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	bootstrap.StartHTTPServer(
		router,
		bootstrap.ServerConfig{
			Port:         port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewStdoutAuditLogger(),
	)
}
