package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/inkwell-letters/fulfillment/internal/app/api"
)

func main() {
	_ = godotenv.Load()
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("fulfillment API exited: %v", err)
	}
}
