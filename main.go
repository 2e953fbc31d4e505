package main

import (
	"os"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/auditfix/cmd"
)

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	// Tokens referenced as ${ENV_VAR} in the config may live in a .env file.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		logger.Fatalf("Error executing 'auditfix': %s", err)
	}
}
