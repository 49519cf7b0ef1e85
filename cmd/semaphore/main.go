package main

import (
	"bufio"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/tj-smith47/semaphore-go/internal/command"
)

func main() {
	log := hclog.New(&hclog.LoggerOptions{
		Name:   "semaphore",
		Level:  hclog.LevelFromString(os.Getenv("SEMAPHORE_LOG_LEVEL")),
		Output: os.Stderr,
	})

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	os.Exit(command.Main(os.Args, command.NewMeta(log, ui)))
}
