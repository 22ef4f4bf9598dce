package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/runauth/internal/buildinfo"
	"github.com/dmitrijs2005/runauth/internal/client/cli"
	"github.com/dmitrijs2005/runauth/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	cli.NewApp(cfg).Run(context.Background())
}
