package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	app "github.com/muhammadchandra19/ome/app/engine"
	"github.com/muhammadchandra19/ome/pkg/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	engineApp, err := app.InitEngine(ctx, *cfg)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	defer engineApp.Close()

	if err := engineApp.Engine.Start(ctx); err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if err := engineApp.Engine.Shutdown(ctx); err != nil {
		log.Fatalf("Failed to shut down engine: %v", err)
	}
}
