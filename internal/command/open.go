package command

import (
	"fmt"
)

// OpenCommand opens the Semaphore web UI.
type OpenCommand struct {
	*Meta

	flagProject int
	flagTask    int
	flagPrint   bool
}

func (c *OpenCommand) Synopsis() string {
	return "Open the web UI in a browser"
}

func (c *OpenCommand) Help() string {
	return `Usage: semaphore open [options]

  Opens the server, a project's task history or a single task in the
  default browser.` + c.Flags().Help()
}

func (c *OpenCommand) Flags() *FlagSet {
	f := c.commonFlags("open")
	f.IntVar(&c.flagProject, "project", 0, "Project ID")
	f.IntVar(&c.flagTask, "task", 0, "Task ID, requires -project")
	f.BoolVar(&c.flagPrint, "print", false, "Print the URL instead of opening it")
	return f
}

// uiURL returns the web UI URL for the selected project and task.
func uiURL(host string, projectID, taskID int) string {
	switch {
	case projectID > 0 && taskID > 0:
		return fmt.Sprintf("%s/project/%d/history?t=%d", host, projectID, taskID)
	case projectID > 0:
		return fmt.Sprintf("%s/project/%d/history", host, projectID)
	default:
		return host
	}
}

func (c *OpenCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	if c.flagTask > 0 && c.flagProject <= 0 {
		return c.fail(fmt.Errorf("-task requires -project"))
	}

	client, _, err := c.client()
	if err != nil {
		return c.fail(err)
	}
	url := uiURL(client.Host(), c.flagProject, c.flagTask)

	if c.flagPrint || c.OpenURL == nil {
		c.UI.Output(url)
		return 0
	}
	if err := c.OpenURL(url); err != nil {
		c.UI.Warn(fmt.Sprintf("Could not open a browser: %v", err))
		c.UI.Output(url)
		return 1
	}
	return 0
}
