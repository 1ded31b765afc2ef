package main

import (
	"feedback-tool-backend/cmd"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("No .env file loaded")
	}
}

func main() {
	cmd.Execute()
}
