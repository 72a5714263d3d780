package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/acmeadmin/internal/buildinfo"
	"github.com/dmitrijs2005/acmeadmin/internal/client/cli"
	"github.com/dmitrijs2005/acmeadmin/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(ctx)

}
