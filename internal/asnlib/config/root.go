package config

import (
	"io"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

type RootConfig struct {
	Hosts []Host
	Path  string
}

type Host struct {
	Name         string
	RestHostname string
	Token        string
}

func loadRootConfig() (*RootConfig, error) {
	rootPath, err := GetRootPath()
	if err != nil {
		return nil, err
	}
	return loadRootConfigFromPath(rootPath)
}

func loadRootConfigFromPath(path string) (*RootConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &RootConfig{Path: path}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rootCfg, err := loadRootConfigFromBytes(data)
	if err != nil {
		return nil, err
	}
	rootCfg.Path = path
	return rootCfg, nil
}

func loadRootConfigFromBytes(data []byte) (*RootConfig, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	var result RootConfig

	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		host := Host{
			Name:         section.Name(),
			RestHostname: section.Key("rest_hostname").String(),
			Token:        section.Key("token").String(),
		}
		if host.RestHostname == "" {
			host.RestHostname = host.Name
		}
		result.Hosts = append(result.Hosts, host)
	}

	result.sortHosts()

	return &result, nil
}

func (rootCfg *RootConfig) sortHosts() {
	sort.Slice(rootCfg.Hosts, func(i, j int) bool {
		left := rootCfg.Hosts[i].Name
		right := rootCfg.Hosts[j].Name
		return strings.Compare(left, right) == -1
	})
}

func (rootCfg *RootConfig) save() error {
	file, err := os.OpenFile(rootCfg.Path,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		// Holds tokens
		0600)
	if err != nil {
		return err
	}
	defer file.Close()
	return rootCfg.saveToWriter(file)
}

func (rootCfg *RootConfig) saveToWriter(file io.Writer) error {
	cfg := ini.Empty(ini.LoadOptions{})

	for _, host := range rootCfg.Hosts {
		section, err := cfg.NewSection(host.Name)
		if err != nil {
			return err
		}

		if host.RestHostname != "" {
			_, err := section.NewKey("rest_hostname", host.RestHostname)
			if err != nil {
				return err
			}
		}

		if host.Token != "" {
			_, err := section.NewKey("token", host.Token)
			if err != nil {
				return err
			}
		}
	}

	_, err := cfg.WriteTo(file)
	return err
}

func rootConfigsEqual(left, right *RootConfig) bool {
	if left == nil || right == nil {
		return left == right
	}
	if len(left.Hosts) != len(right.Hosts) {
		return false
	}
	for i := range left.Hosts {
		if left.Hosts[i] != right.Hosts[i] {
			return false
		}
	}
	return true
}

func GetRootPath() (string, error) {
	homeDir := os.Getenv("HOME")
	if homeDir == "" {
		usr, err := user.Current()
		if err != nil {
			return "", err
		}
		homeDir = usr.HomeDir
	}
	return filepath.Join(homeDir, ".asanarc"), nil
}
