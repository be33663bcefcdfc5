/*
Package config
Slightly object-oriented asn configuration package.

Usage:

    import "github.com/taskwire/asana/internal/asnlib/config"

    cfg, err := config.Load()  // Loads based on current directory
    if err != nil { ... }

    // Lets remember a default project for this directory
    cfg.Local.Project = "1200000000000001"

    cfg.Save()  // Saves changes to disk

    host := cfg.FindHost("https://app.asana.com")
    fmt.Println(host.Token)

There are two files:

- ~/.asanarc, the root configuration, holds one section per API host with its
  token:

      [https://app.asana.com]
      rest_hostname = https://app.asana.com
      token         = 1/1200:abcdef

- .asana/config, the local configuration, found in the current directory or
  any of its parents, holds the defaults for the commands run below it:

      [main]
      host      = https://app.asana.com
      workspace = 1100000000000001
      project   = 1200000000000001
*/
package config

const DefaultHostname = "https://app.asana.com"

type Config struct {
	Root  *RootConfig
	Local *LocalConfig
}

/*
Load asn configuration from the usual paths:

- ~/.asanarc for the root configuration

- ./.asana/config (or the closest parent's) for the local configuration

If any of these files are missing, the relevant attribute will be set to nil.
*/
func Load() (Config, error) {
	return LoadFromPaths("", "")
}

func LoadFromPaths(rootPath, localPath string) (Config, error) {
	var err error
	var rootConfig *RootConfig
	if rootPath == "" {
		rootConfig, err = loadRootConfig()
	} else {
		rootConfig, err = loadRootConfigFromPath(rootPath)
	}
	if err != nil {
		return Config{}, err
	}

	var localConfig *LocalConfig
	if localPath == "" {
		localConfig, err = loadLocalConfig()
	} else {
		localConfig, err = loadLocalConfigFromPath(localPath)
	}
	if err != nil {
		return Config{}, err
	}

	return Config{Root: rootConfig, Local: localConfig}, nil
}

/*
GetActiveHost
Return the host that will be used based on the configuration.

The local configuration has a 'host' field in its 'main' section. That host
points to a section in the root configuration. */
func (cfg *Config) GetActiveHost() *Host {
	if cfg.Root == nil || len(cfg.Root.Hosts) == 0 || cfg.Local == nil {
		return nil
	}
	return cfg.FindHost(cfg.Local.Host)
}

/*
Save
Save changes to disk. Files whose contents did not change are not rewritten. */
func (cfg *Config) Save() error {
	if cfg.Root != nil {
		oldRootConfig, err := loadRootConfigFromPath(cfg.Root.Path)
		if err != nil {
			return err
		}

		cfg.Root.sortHosts()

		if !rootConfigsEqual(oldRootConfig, cfg.Root) {
			err = cfg.Root.save()
			if err != nil {
				return err
			}
		}
	}

	if cfg.Local != nil {
		oldLocalConfig, err := loadLocalConfigFromPath(cfg.Local.Path)
		if err != nil {
			return err
		}
		if oldLocalConfig == nil || *oldLocalConfig != *cfg.Local {
			err = cfg.Local.Save()
			if err != nil {
				return err
			}
		}
	}
	return nil
}

/*
FindHost
Return a Host reference whose name or REST hostname matches the argument.
*/
func (cfg *Config) FindHost(hostname string) *Host {
	if cfg.Root == nil {
		return nil
	}
	for i := range cfg.Root.Hosts {
		// range returns copies: https://stackoverflow.com/q/20185511
		host := &cfg.Root.Hosts[i]
		if host.Name == hostname {
			return host
		}
	}
	for i := range cfg.Root.Hosts {
		host := &cfg.Root.Hosts[i]
		if host.RestHostname == hostname {
			return host
		}
	}
	return nil
}

// SetHost adds the host to the root configuration or replaces its token
func (cfg *Config) SetHost(host Host) {
	existing := cfg.FindHost(host.Name)
	if existing != nil {
		*existing = host
		return
	}
	cfg.Root.Hosts = append(cfg.Root.Hosts, host)
}
