package main

import (
	"log"

	"go.uber.org/zap"

	_ "github.com/tijani-web/flowpitch-backend/docs"
	"github.com/tijani-web/flowpitch-backend/internal/config"
	"github.com/tijani-web/flowpitch-backend/internal/server"
)

// @title           FlowPitch API
// @version         1.0
// @description     Collaborative product roadmap backend: projects, features, voting and discussion.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.GinMode == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}
	defer logger.Sync()

	s, err := server.Init(cfg, logger)
	if err != nil {
		logger.Fatal("server initialization failed", zap.Error(err))
	}

	s.Run()
}
