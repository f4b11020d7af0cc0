package main

// Load the sample employer and jobs:
//   go run ./cmd/seed

import (
	"context"
	"log"
	"os"

	"jobboard-backend/internal/bootstrap"
	"jobboard-backend/internal/seed"
	"jobboard-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	employer := seed.DefaultEmployer
	if pw := os.Getenv("SEED_EMPLOYER_PASSWORD"); pw != "" {
		employer.Password = pw
	}
	n, err := seed.Run(context.Background(), app.UsersService, app.JobsService, employer)
	if err != nil {
		log.Printf("seed failed: %v", err)
		os.Exit(1)
	}
	log.Printf("seed complete: %d jobs created", n)
}
