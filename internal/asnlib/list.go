package asnlib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/taskwire/asana/pkg/asana"
)

func MeCommand(
	ctx context.Context, api *asana.Connection, out io.Writer,
	arguments OutputArguments,
) error {
	user, err := asana.Get[User](ctx, api, "me")
	if err != nil {
		return err
	}
	if arguments.JSON {
		return writeJSON(out, user)
	}
	writeLine(out, user.Gid, user.Name, faintColor(user.Email))
	return nil
}

func WorkspacesCommand(
	ctx context.Context, api *asana.Connection, out io.Writer,
	arguments OutputArguments,
) error {
	workspaces, err := asana.List[Workspace](ctx, api)
	if err != nil {
		return err
	}
	if arguments.JSON {
		return writeJSON(out, workspaces)
	}
	for _, workspace := range workspaces {
		kind := ""
		if workspace.IsOrganization {
			kind = faintColor("(organization)")
		}
		writeLine(out, workspace.Gid, workspace.Name, kind)
	}
	return nil
}

type ProjectsCommandArguments struct {
	OutputArguments
	Workspace string
}

func ProjectsCommand(
	ctx context.Context, api *asana.Connection, out io.Writer,
	arguments ProjectsCommandArguments,
) error {
	if arguments.Workspace == "" {
		return errors.New(
			"no workspace given, use --workspace or 'asn select workspace'",
		)
	}
	projects, err := asana.List[Project](
		ctx, asana.Under[Workspace](api, arguments.Workspace),
	)
	if err != nil {
		return err
	}
	if arguments.JSON {
		return writeJSON(out, projects)
	}
	for _, project := range projects {
		archived := ""
		if project.Archived {
			archived = faintColor("(archived)")
		}
		writeLine(out, project.Gid, project.Name, archived)
	}
	return nil
}

type SectionsCommandArguments struct {
	OutputArguments
	Project string
}

func SectionsCommand(
	ctx context.Context, api *asana.Connection, out io.Writer,
	arguments SectionsCommandArguments,
) error {
	if arguments.Project == "" {
		return errors.New(
			"no project given, use --project or 'asn select project'",
		)
	}
	sections, err := asana.List[Section](
		ctx, asana.Under[Project](api, arguments.Project),
	)
	if err != nil {
		return err
	}
	if arguments.JSON {
		return writeJSON(out, sections)
	}
	for _, section := range sections {
		writeLine(out, section.Gid, section.Name)
	}
	return nil
}

type TasksCommandArguments struct {
	OutputArguments
	Project string
	Section string
}

func TasksCommand(
	ctx context.Context, api *asana.Connection, out io.Writer,
	arguments TasksCommandArguments,
) error {
	var scope asana.Scope
	if arguments.Section != "" {
		// A section is more specific than the default project
		scope = asana.Under[Section](api, arguments.Section)
	} else if arguments.Project != "" {
		scope = asana.Under[Project](api, arguments.Project)
	} else {
		return errors.New(
			"no project or section given, use --project, --section or " +
				"'asn select project'",
		)
	}
	tasks, err := asana.List[Task](ctx, scope)
	if err != nil {
		return err
	}
	if arguments.JSON {
		return writeJSON(out, tasks)
	}
	for _, task := range tasks {
		writeTaskLine(out, task)
	}
	return nil
}

type TaskCommandArguments struct {
	OutputArguments
	Gid string
}

func TaskCommand(
	ctx context.Context, api *asana.Connection, out io.Writer,
	arguments TaskCommandArguments,
) error {
	task, err := asana.Get[Task](ctx, api, arguments.Gid)
	if err != nil {
		return err
	}
	if arguments.JSON {
		return writeJSON(out, task)
	}
	writeTaskLine(out, task)
	var projectNames []string
	for _, project := range task.Projects {
		projectNames = append(projectNames, project.Name)
	}
	if len(projectNames) > 0 {
		fmt.Fprintf(out, "  projects: %s\n", strings.Join(projectNames, ", "))
	}
	if task.Assignee != nil {
		fmt.Fprintf(out, "  assignee: %s\n", task.Assignee.Gid)
	}
	if task.Notes != "" {
		fmt.Fprintf(out, "\n%s\n", task.Notes)
	}
	return nil
}

func writeTaskLine(out io.Writer, task Task) {
	status := "[ ]"
	if task.Completed {
		status = doneColor("[x]")
	}
	due := ""
	if task.DueOn != "" {
		due = faintColor("due " + task.DueOn)
	}
	writeLine(out, task.Gid, status, task.Name, due)
}
