package asnlib

import (
	"context"
	"reflect"
	"testing"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/taskwire/asana/internal/asnlib/config"
	"github.com/taskwire/asana/pkg/asana"
	"github.com/taskwire/asana/pkg/assert"
)

func withFoundItem(t *testing.T, index int) *[]string {
	var displayed []string
	original := findItem
	findItem = func(
		slice interface{}, itemFunc func(i int) string,
		opts ...fuzzyfinder.Option,
	) (int, error) {
		for i := 0; i < reflect.ValueOf(slice).Len(); i++ {
			displayed = append(displayed, itemFunc(i))
		}
		return index, nil
	}
	t.Cleanup(func() { findItem = original })
	return &displayed
}

func TestSelectWorkspace(t *testing.T) {
	cfg, dir := getTestConfig(t)
	chdir(t, dir)
	displayed := withFoundItem(t, 1)
	api := asana.GetTestConnection(asana.MockData{
		"workspaces/": asana.GetMockTextResponse(`{"data": [
			{"gid": "1", "resource_type": "workspace", "name": "Acme"},
			{"gid": "2", "resource_type": "workspace", "name": "Personal"}]}`),
	})

	err := SelectCommand(context.Background(), cfg, api,
		SelectCommandArguments{Kind: "workspace"})
	assert.NoError(t, err)
	assert.DeepEqual(t, *displayed, []string{"Acme", "Personal"})
	assert.Equal(t, cfg.Local.Workspace, "2")

	reloaded, err := config.LoadFromPaths(cfg.Root.Path, cfg.Local.Path)
	assert.NoError(t, err)
	assert.Equal(t, reloaded.Local.Workspace, "2")
}

func TestSelectProject(t *testing.T) {
	cfg, dir := getTestConfig(t)
	chdir(t, dir)
	withFoundItem(t, 0)
	mockData := asana.MockData{
		"workspaces/1/projects/": asana.GetMockTextResponse(`{"data": [
			{"gid": "10", "resource_type": "project", "name": "Launch"}]}`),
	}
	api := asana.GetTestConnection(mockData)

	err := SelectCommand(context.Background(), cfg, api,
		SelectCommandArguments{Kind: "project", Workspace: "1"})
	assert.NoError(t, err)
	assert.Equal(t, cfg.Local.Workspace, "1")
	assert.Equal(t, cfg.Local.Project, "10")
	assert.Equal(t, mockData["workspaces/1/projects/"].Count, 1)
}

func TestSelectErrors(t *testing.T) {
	cfg, dir := getTestConfig(t)
	chdir(t, dir)
	withFoundItem(t, 0)
	api := asana.GetTestConnection(asana.MockData{
		"workspaces/": asana.GetMockTextResponse(`{"data": []}`),
	})

	testCases := []struct {
		name      string
		arguments SelectCommandArguments
	}{
		{"unknown kind", SelectCommandArguments{Kind: "tag"}},
		{"project without workspace", SelectCommandArguments{Kind: "project"}},
		{"nothing to select", SelectCommandArguments{Kind: "workspace"}},
	}
	for _, testCase := range testCases {
		err := SelectCommand(context.Background(), cfg, api, testCase.arguments)
		if err == nil {
			t.Errorf("%s: expected error", testCase.name)
		}
	}
}
