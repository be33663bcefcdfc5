package asnlib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/taskwire/asana/internal/asnlib/config"
)

func init() {
	color.NoColor = true
}

// getTestConfig returns a configuration backed by files in a temporary
// directory; neither file exists yet
func getTestConfig(t *testing.T) (*config.Config, string) {
	dir := t.TempDir()
	cfg, err := config.LoadFromPaths(
		filepath.Join(dir, ".asanarc"),
		filepath.Join(dir, ".asana", "config"),
	)
	if err != nil {
		t.Fatal(err)
	}
	return &cfg, dir
}

func withPromptToken(t *testing.T, token string) *int {
	var calls int
	original := promptToken
	promptToken = func() (string, error) {
		calls++
		return token, nil
	}
	t.Cleanup(func() { promptToken = original })
	return &calls
}

func readFile(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func chdir(t *testing.T, dir string) {
	curDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	err = os.Chdir(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(curDir) })
}
