// Package main is the entry point for the packing-slip-service application.
//
// @title           Packing Slip Service API
// @version         1.0.0
// @description     API for packing confirmed sales invoices into lot-traceable shipping boxes.
//
//	The service reserves an invoice, packs its lot allocations into boxes of a fixed
//	capacity and records the packing slip atomically with the invoice status change.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/packing-slip-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token. Used instead of API keys when JWT_SECRET_KEY is set.
//
// @tag.name        Packing
// @tag.description Packing slip generation and box calculation
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"time"

	_ "github.com/guttosm/packing-slip-service/docs" // swagger docs

	"github.com/guttosm/packing-slip-service/config"
	"github.com/guttosm/packing-slip-service/internal/app"
	"github.com/rs/zerolog/log"
)

const closeTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	application := app.InitializeApp(cfg)
	server := app.NewServer(application.Router, cfg.Server.Port, app.WithRequestTimeout(cfg.Server.RequestTimeout))

	runErr := server.Run()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := application.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to release resources")
	}

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
