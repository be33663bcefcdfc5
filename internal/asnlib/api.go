package asnlib

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"github.com/taskwire/asana/pkg/asana"
	"github.com/taskwire/asana/pkg/model"
)

type ApiGetCommandArguments struct {
	Endpoint string
	Gid      string
	Fields   []string
	// Each one is 'endpoint=field1,field2'
	Includes []string
	// Parent path, eg 'projects/12345678'
	Under string
	Pager string
}

/*
ApiGetCommand
Fetch any endpoint with a descriptor built from the command line:

    asn api get tasks --under projects/1200 --fields name,notes \
        --include projects=name

Every member of the response is printed, declared or not.
*/
func ApiGetCommand(
	ctx context.Context, api *asana.Connection, out io.Writer,
	arguments ApiGetCommandArguments,
) error {
	descriptor, err := buildDescriptor(arguments.Endpoint, arguments.Fields,
		arguments.Includes)
	if err != nil {
		return err
	}

	var requester asana.Requester = api
	if arguments.Under != "" {
		scope, err := parseUnder(api, arguments.Under)
		if err != nil {
			return err
		}
		requester = scope
	}

	var result interface{}
	if arguments.Gid != "" {
		result, err = asana.GetWith[model.Record](ctx, requester, descriptor,
			arguments.Gid)
	} else {
		result, err = asana.ListWith[model.Record](ctx, requester, descriptor)
	}
	if err != nil {
		return err
	}

	var buffer bytes.Buffer
	err = writeJSON(&buffer, result)
	if err != nil {
		return err
	}
	return invokePager(arguments.Pager, buffer.Bytes(), out)
}

func buildDescriptor(
	endpoint string, fields []string, includes []string,
) (*model.Descriptor, error) {
	var included []*model.Descriptor
	for _, include := range includes {
		includeEndpoint, includeFields, _ := strings.Cut(include, "=")
		descriptor, err := model.New(includeEndpoint, splitList(includeFields))
		if err != nil {
			return nil, err
		}
		included = append(included, descriptor)
	}
	return model.New(endpoint, splitList(strings.Join(fields, ",")),
		included...)
}

// parseUnder turns 'projects/1/sections/2' into a nested scope
func parseUnder(api *asana.Connection, under string) (asana.Scope, error) {
	parts := strings.Split(strings.Trim(under, "/"), "/")
	if len(parts)%2 != 0 {
		return asana.Scope{}, fmt.Errorf(
			"invalid parent path '%s', expected 'endpoint/gid' pairs", under,
		)
	}
	var scope asana.Scope
	for i := 0; i < len(parts); i += 2 {
		parent, err := model.New(parts[i], nil)
		if err != nil {
			return asana.Scope{}, err
		}
		if i == 0 {
			scope = api.Under(parent, parts[i+1])
		} else {
			scope = scope.Under(parent, parts[i+1])
		}
	}
	return scope, nil
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

func invokePager(pager string, body []byte, out io.Writer) error {
	if pager == "" {
		_, err := out.Write(body)
		return err
	}
	pagerArgs, err := shlex.Split(pager)
	if err != nil {
		return err
	}
	if len(pagerArgs) == 0 {
		_, err := out.Write(body)
		return err
	}
	cmd := exec.Command(pagerArgs[0], pagerArgs[1:]...)
	cmd.Stdin = bytes.NewBuffer(body)
	cmd.Stdout = out
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
