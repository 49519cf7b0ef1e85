package command

import (
	"github.com/mitchellh/cli"

	semaphore "github.com/tj-smith47/semaphore-go"
)

// Commands returns the command factories keyed by command name.
func Commands(m *Meta) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"login": func() (cli.Command, error) {
			return &LoginCommand{Meta: m}, nil
		},
		"logout": func() (cli.Command, error) {
			return &LogoutCommand{Meta: m}, nil
		},
		"whoami": func() (cli.Command, error) {
			return &WhoAmICommand{Meta: m}, nil
		},
		"projects": func() (cli.Command, error) {
			return &ProjectsCommand{Meta: m}, nil
		},
		"templates": func() (cli.Command, error) {
			return &TemplatesCommand{Meta: m}, nil
		},
		"tasks": func() (cli.Command, error) {
			return &TasksCommand{Meta: m}, nil
		},
		"task-output": func() (cli.Command, error) {
			return &TaskOutputCommand{Meta: m}, nil
		},
		"run": func() (cli.Command, error) {
			return &RunCommand{Meta: m}, nil
		},
		"stop": func() (cli.Command, error) {
			return &StopCommand{Meta: m}, nil
		},
		"events": func() (cli.Command, error) {
			return &EventsCommand{Meta: m}, nil
		},
		"tokens": func() (cli.Command, error) {
			return &TokensCommand{Meta: m}, nil
		},
		"tokens create": func() (cli.Command, error) {
			return &TokensCreateCommand{Meta: m}, nil
		},
		"tokens delete": func() (cli.Command, error) {
			return &TokensDeleteCommand{Meta: m}, nil
		},
		"tokens prune": func() (cli.Command, error) {
			return &TokensPruneCommand{Meta: m}, nil
		},
		"open": func() (cli.Command, error) {
			return &OpenCommand{Meta: m}, nil
		},
		"version": func() (cli.Command, error) {
			return &VersionCommand{Meta: m}, nil
		},
	}
}

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string, m *Meta) int {
	name := args[0]

	if len(args) == 2 && (args[1] == "-version" || args[1] == "-v") {
		args = []string{name, "version"}
	}

	c := &cli.CLI{
		Name:     name,
		Args:     args[1:],
		Version:  semaphore.Version,
		Commands: Commands(m),
	}

	exitCode, err := c.Run()
	if err != nil {
		m.UI.Error(err.Error())
		return 1
	}
	return exitCode
}
