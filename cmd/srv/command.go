package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Lottery"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start the lottery engine",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Serves the inventory api, the live availability websocket, and the event bus consumers.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Flags:       []cli.Flag{},
			Category:    "Database",
			Description: `Creates or updates the tables and indexes this service relies on.`,
		},
	}

	s.app = app
}
