package main

import (
	"context"
	"log"

	"github.com/dkrasnov-dev/baraholka/internal/server"
	"github.com/dkrasnov-dev/baraholka/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
