package command

import (
	"fmt"

	semaphore "github.com/tj-smith47/semaphore-go"
)

// VersionCommand prints the CLI version.
type VersionCommand struct {
	*Meta
}

func (c *VersionCommand) Synopsis() string {
	return "Print the version"
}

func (c *VersionCommand) Help() string {
	return "Usage: semaphore version"
}

func (c *VersionCommand) Run(_ []string) int {
	c.UI.Output(fmt.Sprintf("semaphore v%s", semaphore.Version))
	return 0
}
