package asn

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/taskwire/asana/internal/asnlib"
	"github.com/taskwire/asana/internal/asnlib/config"
	"github.com/taskwire/asana/pkg/asana"
	"github.com/urfave/cli/v2"
)

var errorColor = color.New(color.FgRed).SprintfFunc()

func Main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	// -v is --verbose
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Println("Asana CLI, version=" + c.App.Version)
	}
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "root-config",
			Usage: "Root configuration from `FILE`",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Load configuration from `FILE`",
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "The personal access token to use",
			EnvVars: []string{"ASANA_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "hostname",
			Aliases: []string{"H"},
			Usage:   "The API hostname",
			EnvVars: []string{"ASANA_HOSTNAME"},
		},
		&cli.StringFlag{
			Name:    "cacert",
			Usage:   "Path to CA certificate bundle file",
			EnvVars: []string{"ASANA_CACERT"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log every API request to stderr",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print JSON instead of a listing",
		},
	}
	app := &cli.App{
		Name:                   "asn",
		Usage:                  "Browse Asana from the command line",
		Version:                asnlib.Version,
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Save an API token and create a local configuration",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					connect := func(hostname, token string) (*asana.Connection, error) {
						return asnlib.GetConnection(asnlib.ConnectionArguments{
							Hostname: hostname,
							Token:    token,
							CACert:   c.String("cacert"),
							Verbose:  c.Bool("verbose"),
						})
					}
					err = asnlib.InitCommand(c.Context, &cfg, connect,
						asnlib.InitCommandArguments{
							Hostname: c.String("hostname"),
							Token:    c.String("token"),
						})
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:  "me",
				Usage: "Show the authenticated user",
				Action: func(c *cli.Context) error {
					_, api, err := getApi(c)
					if err != nil {
						return err
					}
					err = asnlib.MeCommand(c.Context, api, os.Stdout,
						outputArguments(c))
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:    "workspaces",
				Aliases: []string{"ws"},
				Usage:   "List workspaces",
				Action: func(c *cli.Context) error {
					_, api, err := getApi(c)
					if err != nil {
						return err
					}
					err = asnlib.WorkspacesCommand(c.Context, api, os.Stdout,
						outputArguments(c))
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:  "projects",
				Usage: "asn projects [--workspace GID]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "workspace",
						Usage: "Workspace to list (default from local configuration)",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, api, err := getApi(c)
					if err != nil {
						return err
					}
					workspace := c.String("workspace")
					if workspace == "" && cfg.Local != nil {
						workspace = cfg.Local.Workspace
					}
					err = asnlib.ProjectsCommand(c.Context, api, os.Stdout,
						asnlib.ProjectsCommandArguments{
							OutputArguments: outputArguments(c),
							Workspace:       workspace,
						})
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:  "sections",
				Usage: "asn sections [--project GID]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "project",
						Usage: "Project to list (default from local configuration)",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, api, err := getApi(c)
					if err != nil {
						return err
					}
					err = asnlib.SectionsCommand(c.Context, api, os.Stdout,
						asnlib.SectionsCommandArguments{
							OutputArguments: outputArguments(c),
							Project:         defaultProject(c, &cfg),
						})
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:  "tasks",
				Usage: "asn tasks [--project GID | --section GID]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "project",
						Usage: "Project to list (default from local configuration)",
					},
					&cli.StringFlag{
						Name:  "section",
						Usage: "Section to list",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, api, err := getApi(c)
					if err != nil {
						return err
					}
					err = asnlib.TasksCommand(c.Context, api, os.Stdout,
						asnlib.TasksCommandArguments{
							OutputArguments: outputArguments(c),
							Project:         defaultProject(c, &cfg),
							Section:         c.String("section"),
						})
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:      "task",
				Usage:     "Show a single task",
				ArgsUsage: "GID",
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 1 {
						return cli.Exit(errorColor("Please provide one task gid"), 1)
					}
					_, api, err := getApi(c)
					if err != nil {
						return err
					}
					err = asnlib.TaskCommand(c.Context, api, os.Stdout,
						asnlib.TaskCommandArguments{
							OutputArguments: outputArguments(c),
							Gid:             c.Args().First(),
						})
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "asn export [--project GID] [--output DIR] [--workers N]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "project",
						Usage: "Project to export (default from local configuration)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory to write the section files in",
						Value:   ".",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "How many sections to fetch at the same time",
						Value:   5,
					},
				},
				Action: func(c *cli.Context) error {
					cfg, api, err := getApi(c)
					if err != nil {
						return err
					}
					err = asnlib.ExportCommand(c.Context, api,
						asnlib.ExportCommandArguments{
							Project: defaultProject(c, &cfg),
							Output:  c.String("output"),
							Workers: c.Int("workers"),
						})
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:  "api",
				Usage: "Query any API endpoint",
				Subcommands: []*cli.Command{
					{
						Name:      "get",
						Usage:     "asn api get ENDPOINT [GID] [--fields F1,F2] [--include ENDPOINT=F1,F2] [--under ENDPOINT/GID]",
						ArgsUsage: "ENDPOINT [GID]",
						Flags: []cli.Flag{
							&cli.StringSliceFlag{
								Name:    "fields",
								Aliases: []string{"f"},
								Usage:   "Fields to request",
							},
							&cli.StringSliceFlag{
								Name:    "include",
								Aliases: []string{"i"},
								Usage:   "Relation to expand, as ENDPOINT=F1,F2",
							},
							&cli.StringFlag{
								Name:  "under",
								Usage: "Parent path, eg projects/1200",
							},
							&cli.StringFlag{
								Name:    "pager",
								Usage:   "Command to page the output through",
								EnvVars: []string{"PAGER"},
							},
						},
						Action: func(c *cli.Context) error {
							if c.Args().Len() < 1 || c.Args().Len() > 2 {
								return cli.Exit(errorColor(
									"Please provide an endpoint and optionally a gid",
								), 1)
							}
							_, api, err := getApi(c)
							if err != nil {
								return err
							}
							pager := c.String("pager")
							if !isatty.IsTerminal(os.Stdout.Fd()) {
								pager = ""
							}
							err = asnlib.ApiGetCommand(c.Context, api, os.Stdout,
								asnlib.ApiGetCommandArguments{
									Endpoint: c.Args().Get(0),
									Gid:      c.Args().Get(1),
									Fields:   c.StringSlice("fields"),
									Includes: c.StringSlice("include"),
									Under:    c.String("under"),
									Pager:    pager,
								})
							if err != nil {
								return cli.Exit(errorColor("%s", err), 1)
							}
							return nil
						},
					},
				},
			},
			{
				Name:      "select",
				Usage:     "Pick the default workspace or project",
				ArgsUsage: "workspace|project",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "workspace",
						Usage: "Workspace to pick a project from",
					},
				},
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 1 {
						return cli.Exit(errorColor(
							"Please provide 'workspace' or 'project'",
						), 1)
					}
					cfg, api, err := getApi(c)
					if err != nil {
						return err
					}
					err = asnlib.SelectCommand(c.Context, &cfg, api,
						asnlib.SelectCommandArguments{
							Kind:      c.Args().First(),
							Workspace: c.String("workspace"),
						})
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
			{
				Name:  "update",
				Usage: "Update the 'asn' binary to the latest release",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "check",
						Usage: "Only check for a newer version",
					},
					&cli.BoolFlag{
						Name:  "no-interactive",
						Usage: "Update without asking",
					},
				},
				Action: func(c *cli.Context) error {
					err := asnlib.UpdateCommand(os.Stdout,
						asnlib.UpdateCommandArguments{
							Version:       asnlib.Version,
							Check:         c.Bool("check"),
							NoInteractive: c.Bool("no-interactive"),
							Debug:         c.Bool("verbose"),
						})
					if err != nil {
						return cli.Exit(errorColor("%s", err), 1)
					}
					return nil
				},
			},
		},
		Flags: flags,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.LoadFromPaths(c.String("root-config"), c.String("config"))
	if err != nil {
		return config.Config{}, cli.Exit(
			errorColor("Error loading configuration: %s", err), 1,
		)
	}
	return cfg, nil
}

func getApi(c *cli.Context) (config.Config, *asana.Connection, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return config.Config{}, nil, err
	}
	hostname, token, err := asnlib.GetHostAndToken(
		&cfg, c.String("hostname"), c.String("token"),
	)
	if err != nil {
		return config.Config{}, nil, cli.Exit(
			errorColor("Error getting API token: %s", err), 1,
		)
	}
	api, err := asnlib.GetConnection(asnlib.ConnectionArguments{
		Hostname: hostname,
		Token:    token,
		CACert:   c.String("cacert"),
		Verbose:  c.Bool("verbose"),
	})
	if err != nil {
		var configError *asana.ConfigError
		if errors.As(err, &configError) {
			return config.Config{}, nil, cli.Exit(errorColor(
				"Error getting HTTP client configuration: %s", err,
			), 1)
		}
		return config.Config{}, nil, cli.Exit(errorColor("%s", err), 1)
	}
	return cfg, api, nil
}

func outputArguments(c *cli.Context) asnlib.OutputArguments {
	return asnlib.OutputArguments{JSON: c.Bool("json")}
}

func defaultProject(c *cli.Context, cfg *config.Config) string {
	project := c.String("project")
	if project == "" && cfg.Local != nil {
		project = cfg.Local.Project
	}
	return project
}
