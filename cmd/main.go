package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/shenikar/fire_calls_analysis/internal/cli"
)

// @title SF Fire Calls Analysis API
// @version 1.0
// @description Queries over the San Francisco Fire Department calls-for-service table.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := cli.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		_, _ = errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
