package main

import (
	"log"

	"github.com/joho/godotenv"

	"shotlens/cmd"
)

func main() {
	// Local development convenience; absence of a .env file is fine.
	if err := godotenv.Load(); err == nil {
		log.Printf("[Main] loaded environment from .env")
	}
	cmd.Execute()
}
