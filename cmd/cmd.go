// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// importCommand handles playlist import operations
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "import",
		Aliases: []string{"imp"},
		Usage:   "Import playlist export files into YouTube Music",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Import every playlist in a JSON export file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the playlist export JSON file",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "allow-duplicates",
						Usage: "Add tracks even when already present in the playlist",
					},
					&cli.BoolFlag{
						Name:  "delete-existing",
						Usage: "Delete a same-named remote playlist before importing",
					},
					&cli.FloatFlag{
						Name:  "delay",
						Usage: "Seconds to wait between remote track operations",
						Value: -1,
					},
					&cli.IntFlag{
						Name:  "retries",
						Usage: "Total attempts per remote call on conflict errors",
						Value: 0,
					},
					&cli.StringFlag{
						Name:  "report",
						Usage: "Base path for the JSON report and failures CSV",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the run result as JSON instead of text",
					},
				},
				Action: r.ImportRun,
			},
			{
				Name:  "validate",
				Usage: "Parse and display an export file without importing",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the playlist export JSON file",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ImportValidate,
			},
		},
	}
}

// reportCommand handles import run history operations
func reportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Inspect past import runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded import runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by run status (running, completed, failed, aborted)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ReportList,
			},
			{
				Name:  "show",
				Usage: "Show one run with its failed tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ReportShow,
			},
		},
	}
}

// setupCommand handles setup operations for database and authentication.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:    "youtube",
				Aliases: []string{"yt", "ytmusic"},
				Usage:   "Configure YouTube Music authentication from browser headers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output path for the headers file (default: ~/.ymport/headers_raw.txt)",
					},
				},
				Action: r.SetupYouTube,
			},
		},
	}
}

// ytmusicCommand handles direct YouTube Music operations
func ytmusicCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "ytmusic",
		Aliases: []string{"ytm", "yt"},
		Usage:   "YouTube Music operations",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search YouTube Music for a track",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.YTMusicSearch,
			},
			{
				Name:  "playlists",
				Usage: "List YouTube Music library playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.YTMusicPlaylists,
			},
			{
				Name:  "create",
				Usage: "Create a playlist on YouTube Music",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "description",
						Usage: "Playlist description",
					},
				},
				Action: r.YTMusicCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist on YouTube Music",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.YTMusicDelete,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive imports.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist imports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the playlist export JSON file",
				Required: true,
			},
		},
		Action: r.TUI,
	}
}
