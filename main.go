package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ca-srg/tzexplorer/infrastructure/config"
	"github.com/ca-srg/tzexplorer/infrastructure/di"
	"github.com/ca-srg/tzexplorer/interface/cli"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	grammar := &cli.CLI{}
	parser, err := cli.NewParser(grammar, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build command line: %v\n", err)
		return 1
	}

	kctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	// Load .env before the container reads TZEXPLORER_* variables
	if grammar.EnvFile != "" {
		if err := config.LoadEnvFile(grammar.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	container, err := di.NewContainer(
		di.WithConfigPath(grammar.Config),
		di.WithDebugMode(grammar.Debug),
		di.WithJSONOutput(grammar.JSON),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}
	defer func() {
		_ = container.Close()
	}()

	ctl := container.GetCLIController()
	if err := kctx.Run(&cli.Runtime{Ctx: context.Background(), Controller: ctl}); err != nil {
		ctl.Presenter().PrintError(err)
		return 1
	}
	return 0
}
