package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

type LocalConfig struct {
	Host      string
	Workspace string
	Project   string
	Path      string
}

func loadLocalConfig() (*LocalConfig, error) {
	localPath, err := findLocalPath("")
	if err != nil {
		return nil, err
	}
	if localPath == "" {
		return nil, nil
	}
	return loadLocalConfigFromPath(localPath)
}

func loadLocalConfigFromPath(path string) (*LocalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	localCfg, err := loadLocalConfigFromBytes(data)
	if err != nil {
		return nil, err
	}
	localCfg.Path = path
	return localCfg, nil
}

func loadLocalConfigFromBytes(data []byte) (*LocalConfig, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	if !cfg.HasSection("main") {
		return nil, errors.New("local config file has no main section")
	}
	mainSection := cfg.Section("main")
	result := LocalConfig{
		Host:      mainSection.Key("host").String(),
		Workspace: mainSection.Key("workspace").String(),
		Project:   mainSection.Key("project").String(),
	}
	if result.Host == "" {
		result.Host = DefaultHostname
	}
	return &result, nil
}

func (localCfg LocalConfig) Save() error {
	err := os.MkdirAll(filepath.Dir(localCfg.Path), 0755)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(localCfg.Path,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		0644)
	if err != nil {
		return err
	}
	defer file.Close()
	return localCfg.saveToWriter(file)
}

func (localCfg LocalConfig) saveToWriter(file io.Writer) error {
	cfg := ini.Empty(ini.LoadOptions{})
	mainSection, err := cfg.NewSection("main")
	if err != nil {
		return err
	}
	for _, pair := range [][2]string{
		{"host", localCfg.Host},
		{"workspace", localCfg.Workspace},
		{"project", localCfg.Project},
	} {
		if pair[1] == "" {
			continue
		}
		_, err = mainSection.NewKey(pair[0], pair[1])
		if err != nil {
			return err
		}
	}
	_, err = cfg.WriteTo(file)
	return err
}

// NewLocalConfig returns an empty local configuration rooted at dir
func NewLocalConfig(dir string) *LocalConfig {
	return &LocalConfig{
		Host: DefaultHostname,
		Path: filepath.Join(dir, ".asana", "config"),
	}
}

func findLocalPath(path string) (string, error) {
	curDir := path
	if path == "" {
		dir, err := os.Getwd()
		if err != nil {
			return "", err
		}
		curDir = dir
	}

	fp := filepath.Join(curDir, ".asana", "config")
	if _, err := os.Stat(fp); os.IsNotExist(err) {
		parent := filepath.Dir(curDir)
		if parent != curDir && parent != "." {
			return findLocalPath(parent)
		}
		return "", nil
	}
	return fp, nil
}
