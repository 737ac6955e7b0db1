package di

import (
	"github.com/ca-srg/tzexplorer/interface/cli"
)

// newCLIController creates the CLI controller from the container's components
func newCLIController(c *Container) *cli.CLIController {
	return cli.NewCLIController(
		c.explorerService,
		c.preferenceService,
		c.localeFormatter,
		c.presenter,
		c.clockController,
		c.daemonController,
		c.trayController,
		c.CreateLogger("cli"),
	)
}
