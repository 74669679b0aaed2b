package main

import (
	"fmt"
	"os"

	"releasetracker/client"
	"releasetracker/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "releasetui",
		Usage: "terminal client for the release checklist tracker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "Base URL of the release tracker API",
				Value:   "http://localhost:5000/api",
				EnvVars: []string{"RELEASETRACKER_API"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	p := tea.NewProgram(ui.NewApp(client.NewReleaseClient(c.String("api"))), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
