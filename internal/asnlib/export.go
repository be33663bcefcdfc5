package asnlib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/pterm/pterm"
	"github.com/taskwire/asana/pkg/asana"
	"github.com/taskwire/asana/pkg/worker_pool"
)

type ExportCommandArguments struct {
	Project string
	Output  string
	Workers int
	// Live progress goes here, defaults to stdout
	Progress io.Writer
}

/*
ExportCommand
Write the tasks of every section of a project into its own JSON file:

    {output}/{slug of section name}-{section gid}.json

Sections are exported concurrently. Fields the models do not declare are kept
in the files. Failures of individual sections are collected and returned
together after all other sections have been written.
*/
func ExportCommand(
	ctx context.Context, api *asana.Connection, arguments ExportCommandArguments,
) error {
	if arguments.Project == "" {
		return errors.New(
			"no project given, use --project or 'asn select project'",
		)
	}
	if arguments.Output == "" {
		arguments.Output = "."
	}
	err := os.MkdirAll(arguments.Output, 0755)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Fetching sections of project '%s'", arguments.Project)
	spinner, err := pterm.DefaultSpinner.Start(msg)
	if err != nil {
		return err
	}
	sections, err := asana.List[Section](
		ctx, asana.Under[Project](api, arguments.Project),
	)
	if err != nil {
		spinner.Fail(msg + ": " + err.Error())
		return err
	}
	spinner.Success(fmt.Sprintf("Found %d sections", len(sections)))
	if len(sections) == 0 {
		return nil
	}

	pool := worker_pool.New(arguments.Workers, len(sections), arguments.Progress)
	for _, section := range sections {
		pool.Add(&exportSectionTask{
			ctx:     ctx,
			api:     api,
			section: section,
			output:  arguments.Output,
		})
	}
	pool.Start()
	<-pool.Wait()

	err = pool.Err()
	if err != nil {
		if pool.IsAborted() {
			pterm.Error.Println("Export aborted")
		}
		return err
	}
	pterm.Success.Printfln("Exported %d sections to '%s'",
		len(sections), arguments.Output)
	return nil
}

type exportSectionTask struct {
	ctx     context.Context
	api     *asana.Connection
	section Section
	output  string
}

func (task *exportSectionTask) Run(send func(string), abort func()) error {
	section := task.section
	send(fmt.Sprintf("%s: fetching tasks", section.Name))

	tasks, err := asana.List[Task](
		task.ctx, asana.Under[Section](task.api, section.Gid),
	)
	if err != nil {
		if isUnrecoverable(err) {
			abort()
		}
		send(fmt.Sprintf("%s: failed", section.Name))
		return fmt.Errorf("section '%s': %w", section.Name, err)
	}

	path := exportPath(task.output, section)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		send(fmt.Sprintf("%s: failed", section.Name))
		return err
	}
	defer file.Close()
	err = writeJSON(file, tasks)
	if err != nil {
		send(fmt.Sprintf("%s: failed", section.Name))
		return fmt.Errorf("section '%s': %w", section.Name, err)
	}

	send(fmt.Sprintf("%s: %d tasks -> %s", section.Name, len(tasks), path))
	return nil
}

func exportPath(output string, section Section) string {
	name := slug.Make(section.Name)
	if name == "" {
		name = "section"
	}
	return filepath.Join(output, fmt.Sprintf("%s-%s.json", name, section.Gid))
}

// isUnrecoverable reports errors that every other section would hit as well
func isUnrecoverable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var statusError *asana.StatusError
	if errors.As(err, &statusError) {
		return statusError.StatusCode == http.StatusUnauthorized ||
			statusError.StatusCode == http.StatusForbidden
	}
	return false
}
