package asnlib

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/taskwire/asana/internal/asnlib/config"
	"github.com/taskwire/asana/pkg/asana"
)

type InitCommandArguments struct {
	Hostname string
	Token    string
	// Where to create the local configuration, defaults to the current
	// directory
	Directory string
}

type Connector func(hostname, token string) (*asana.Connection, error)

/*
InitCommand
Save a verified API token in the root configuration and create a local
configuration pointing to its host. The token is asked for when not given and
not already saved for the host.
*/
func InitCommand(
	ctx context.Context,
	cfg *config.Config,
	connect Connector,
	arguments InitCommandArguments,
) error {
	if cfg.Root == nil {
		rootPath, err := config.GetRootPath()
		if err != nil {
			return err
		}
		cfg.Root = &config.RootConfig{Path: rootPath}
	}

	hostname := arguments.Hostname
	if hostname == "" {
		hostname = config.DefaultHostname
	}
	restHostname := hostname
	token := arguments.Token
	if host := cfg.FindHost(hostname); host != nil {
		hostname = host.Name
		restHostname = host.RestHostname
		if token == "" {
			token = host.Token
		}
	}
	if token == "" {
		var err error
		token, err = promptToken()
		if err != nil {
			return err
		}
	}

	api, err := connect(restHostname, token)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Verifying token against '%s'", restHostname)
	spinner, err := pterm.DefaultSpinner.Start(msg)
	if err != nil {
		return err
	}
	user, err := asana.Get[User](ctx, api, "me")
	if err != nil {
		spinner.Fail(msg + ": " + err.Error())
		return err
	}
	spinner.Success(fmt.Sprintf("Authenticated as %s", user.Name))

	cfg.SetHost(config.Host{
		Name:         hostname,
		RestHostname: restHostname,
		Token:        token,
	})

	if cfg.Local == nil {
		directory := arguments.Directory
		if directory == "" {
			directory, err = os.Getwd()
			if err != nil {
				return err
			}
		}
		cfg.Local = config.NewLocalConfig(directory)
	}
	cfg.Local.Host = hostname

	err = cfg.Save()
	if err != nil {
		return err
	}
	pterm.Info.Printfln("Configuration saved in '%s' and '%s'",
		cfg.Root.Path, cfg.Local.Path)
	return nil
}
