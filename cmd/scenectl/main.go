package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/scenevault/internal/buildinfo"
	"github.com/dmitrijs2005/scenevault/internal/client/cli"
	"github.com/dmitrijs2005/scenevault/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
