package asnlib

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/taskwire/asana/internal/asnlib/config"
)

// promptToken asks the user for a personal access token without echoing it
var promptToken = func() (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", errors.New("no API token available and stdin is not a terminal")
	}
	prompt := promptui.Prompt{
		Label: "Personal access token",
		Mask:  '*',
		Validate: func(input string) error {
			if input == "" {
				return errors.New("token cannot be empty")
			}
			return nil
		},
	}
	return prompt.Run()
}

/*
GetHostAndToken
Resolve the API hostname and token from a combination of environment
variables, flags, config files and/or user input.

1. If 'hostname' is provided, it is looked up as a section name (or REST
   hostname) in the root configuration. Otherwise the "active host" of the
   local configuration is used and, failing that, 'https://app.asana.com'.

2. If 'token' is provided it is returned as is. Otherwise the token of the
   host found in step 1 is used. If no host was found, the user is asked for a
   token which is then saved in '~/.asanarc'.
*/
func GetHostAndToken(
	cfg *config.Config, hostname, token string,
) (string, string, error) {
	var restHostname string
	var selectedHost *config.Host
	if hostname != "" {
		host := cfg.FindHost(hostname)
		if host != nil {
			selectedHost = host
			restHostname = host.RestHostname
		} else {
			restHostname = hostname
		}
	} else {
		activeHost := cfg.GetActiveHost()
		if activeHost == nil {
			// A root config written by 'asn init' without a local one
			activeHost = cfg.FindHost(config.DefaultHostname)
		}
		if activeHost != nil {
			selectedHost = activeHost
			hostname = activeHost.Name
			restHostname = activeHost.RestHostname
		} else {
			hostname = config.DefaultHostname
			restHostname = config.DefaultHostname
		}
	}

	if token == "" {
		if selectedHost != nil {
			token = selectedHost.Token
		} else {
			fmt.Println("API token not found. Please provide it and it will " +
				"be saved in '~/.asanarc'.")
			fmt.Println("If you don't have a token, you can create one in " +
				"https://app.asana.com/0/my-apps")
			var err error
			token, err = promptToken()
			if err != nil {
				return "", "", err
			}

			if cfg.Root == nil {
				rootConfigPath, err := config.GetRootPath()
				if err != nil {
					return "", "", err
				}
				cfg.Root = &config.RootConfig{Path: rootConfigPath}
			}
			cfg.SetHost(config.Host{
				Name:         hostname,
				RestHostname: restHostname,
				Token:        token,
			})
			err = cfg.Save()
			if err != nil {
				return "", "", err
			}
		}
	}
	if restHostname == "" || token == "" {
		return "", "", errors.New(
			"could not find an Asana API host and/or token, please inspect " +
				"your .asanarc and .asana/config files",
		)
	}
	return restHostname, token, nil
}
