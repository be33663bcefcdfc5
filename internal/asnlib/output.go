package asnlib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/taskwire/asana/pkg/model"
)

var (
	gidColor   = color.New(color.FgCyan).SprintFunc()
	faintColor = color.New(color.Faint).SprintFunc()
	doneColor  = color.New(color.FgGreen).SprintFunc()
)

type OutputArguments struct {
	JSON bool
}

// writeJSON writes v indented, unknown fields included
func writeJSON(out io.Writer, v interface{}) error {
	body, err := model.Marshal(v)
	if err != nil {
		return err
	}
	var buffer bytes.Buffer
	err = json.Indent(&buffer, body, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, buffer.String())
	return err
}

func writeLine(out io.Writer, gid string, parts ...string) {
	fmt.Fprint(out, gidColor(gid))
	for _, part := range parts {
		if part == "" {
			continue
		}
		fmt.Fprint(out, " ", part)
	}
	fmt.Fprintln(out)
}
