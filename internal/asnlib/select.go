package asnlib

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/pterm/pterm"
	"github.com/taskwire/asana/internal/asnlib/config"
	"github.com/taskwire/asana/pkg/asana"
)

// findItem returns the index of the item the user picked
var findItem = fuzzyfinder.Find

type SelectCommandArguments struct {
	// 'workspace' or 'project'
	Kind      string
	Workspace string
}

/*
SelectCommand
Let the user pick a workspace or project with a fuzzy finder and remember it
as the default in the local configuration. A local configuration is created in
the current directory if there isn't one.
*/
func SelectCommand(
	ctx context.Context,
	cfg *config.Config,
	api *asana.Connection,
	arguments SelectCommandArguments,
) error {
	if cfg.Local == nil {
		curDir, err := os.Getwd()
		if err != nil {
			return err
		}
		cfg.Local = config.NewLocalConfig(curDir)
	}

	switch arguments.Kind {
	case "workspace":
		workspaces, err := fetchForSelection(
			"Fetching workspaces",
			func() ([]Workspace, error) {
				return asana.List[Workspace](ctx, api)
			},
		)
		if err != nil {
			return err
		}
		workspace, err := pick(workspaces, "Select workspace",
			func(w Workspace) string { return w.Name })
		if err != nil {
			return err
		}
		if cfg.Local.Workspace != workspace.Gid {
			// The default project belongs to the previous workspace
			cfg.Local.Project = ""
		}
		cfg.Local.Workspace = workspace.Gid
		pterm.Success.Printfln("Default workspace is now '%s'", workspace.Name)
	case "project":
		workspace := arguments.Workspace
		if workspace == "" {
			workspace = cfg.Local.Workspace
		}
		if workspace == "" {
			return errors.New(
				"no workspace given, use --workspace or 'asn select workspace'",
			)
		}
		projects, err := fetchForSelection(
			"Fetching projects",
			func() ([]Project, error) {
				return asana.List[Project](
					ctx, asana.Under[Workspace](api, workspace),
				)
			},
		)
		if err != nil {
			return err
		}
		project, err := pick(projects, "Select project",
			func(p Project) string { return p.Name })
		if err != nil {
			return err
		}
		cfg.Local.Workspace = workspace
		cfg.Local.Project = project.Gid
		pterm.Success.Printfln("Default project is now '%s'", project.Name)
	default:
		return fmt.Errorf(
			"cannot select '%s', expected 'workspace' or 'project'",
			arguments.Kind,
		)
	}
	return cfg.Save()
}

func fetchForSelection[T any](msg string, fetch func() ([]T, error)) ([]T, error) {
	spinner, err := pterm.DefaultSpinner.Start(msg)
	if err != nil {
		return nil, err
	}
	items, err := fetch()
	if err != nil {
		spinner.Fail(msg + ": " + err.Error())
		return nil, err
	}
	spinner.Success(fmt.Sprintf("%s: found %d", msg, len(items)))
	if len(items) == 0 {
		return nil, errors.New("nothing to select from")
	}
	return items, nil
}

func pick[T any](items []T, header string, display func(T) string) (T, error) {
	var result T
	previewOption := fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
		if i == -1 {
			return ""
		}
		var buffer bytes.Buffer
		err := writeJSON(&buffer, items[i])
		if err != nil {
			return ""
		}
		return buffer.String()
	})
	index, err := findItem(
		items,
		func(i int) string { return display(items[i]) },
		previewOption,
		fuzzyfinder.WithHeader(header),
	)
	if err != nil {
		return result, err
	}
	return items[index], nil
}
