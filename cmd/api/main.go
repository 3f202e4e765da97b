package main

import (
	"context"
	"os"

	"github.com/yigit/coursescope/internal/pkg/logger"
)

// @title CourseScope API
// @version 1.0
// @description Course and professor search with historic grade lookups

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
