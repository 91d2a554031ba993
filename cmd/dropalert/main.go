package main

import (
	"log"

	"github.com/dropalert/dropalert/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ dropalert failed to start: %v", err)
	}
}
