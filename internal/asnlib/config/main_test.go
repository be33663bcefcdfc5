package config

import (
	"os"
	"path/filepath"
	"testing"
)

func getTestConfig(t *testing.T) Config {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, ".asanarc")
	err := os.WriteFile(rootPath, []byte(`
[https://app.asana.com]
token = app-token

[mirror]
rest_hostname = https://mirror.example.com
token         = mirror-token
`), 0600)
	if err != nil {
		t.Fatal(err)
	}
	localPath := filepath.Join(dir, ".asana", "config")
	err = os.MkdirAll(filepath.Dir(localPath), 0755)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(localPath,
		[]byte("[main]\nhost = mirror\nproject = 1200\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPaths(rootPath, localPath)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestFindHost(t *testing.T) {
	cfg := getTestConfig(t)

	testCases := []struct {
		hostname string
		token    string
	}{
		{"https://app.asana.com", "app-token"},
		{"mirror", "mirror-token"},
		{"https://mirror.example.com", "mirror-token"},
	}
	for _, testCase := range testCases {
		host := cfg.FindHost(testCase.hostname)
		if host == nil {
			t.Errorf("Could not find host %s", testCase.hostname)
			continue
		}
		if host.Token != testCase.token {
			t.Errorf("Host %s has token %s, expected %s",
				testCase.hostname, host.Token, testCase.token)
		}
	}
	if cfg.FindHost("unknown") != nil {
		t.Error("Found unknown host")
	}
}

func TestGetActiveHost(t *testing.T) {
	cfg := getTestConfig(t)
	host := cfg.GetActiveHost()
	if host == nil || host.Name != "mirror" {
		t.Errorf("Active host is %v, expected mirror", host)
	}

	cfg.Local = nil
	if cfg.GetActiveHost() != nil {
		t.Error("Expected no active host without local config")
	}
}

func TestSetHostAndSave(t *testing.T) {
	cfg := getTestConfig(t)
	cfg.SetHost(Host{
		Name:         "mirror",
		RestHostname: "https://mirror.example.com",
		Token:        "new-token",
	})
	cfg.SetHost(Host{
		Name:         "https://beta.example.com",
		RestHostname: "https://beta.example.com",
		Token:        "beta-token",
	})
	cfg.Local.Workspace = "1100"
	err := cfg.Save()
	if err != nil {
		t.Fatal(err)
	}

	reloaded, err := LoadFromPaths(cfg.Root.Path, cfg.Local.Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Root.Hosts) != 3 {
		t.Fatalf("Expected 3 hosts, got %d", len(reloaded.Root.Hosts))
	}
	if reloaded.FindHost("mirror").Token != "new-token" {
		t.Error("Token was not replaced")
	}
	if reloaded.Local.Workspace != "1100" || reloaded.Local.Project != "1200" {
		t.Errorf("Local config is wrong: %v", reloaded.Local)
	}
}

func TestSaveSkipsUnchangedFiles(t *testing.T) {
	cfg := getTestConfig(t)
	before, err := os.ReadFile(cfg.Root.Path)
	if err != nil {
		t.Fatal(err)
	}
	err = cfg.Save()
	if err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(cfg.Root.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("Unchanged root config was rewritten")
	}
}
