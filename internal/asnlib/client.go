package asnlib

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/taskwire/asana/pkg/asana"
)

type ConnectionArguments struct {
	Hostname string
	Token    string
	CACert   string
	Verbose  bool
	// Defaults to stderr
	LogOutput io.Writer
}

func GetLogger(verbose bool, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "asn",
		Level:  level,
		Output: output,
	})
}

/*
GetConnection
Build the API connection used by every command. The hostname and token must
already be resolved, see GetHostAndToken.
*/
func GetConnection(arguments ConnectionArguments) (*asana.Connection, error) {
	options := []asana.Option{
		asana.WithCACert(arguments.CACert),
		asana.WithLogger(GetLogger(arguments.Verbose, arguments.LogOutput)),
		asana.WithHeader("X-Asana-Client-Lib", "asn/"+Version),
	}
	if arguments.Hostname != "" {
		options = append(options, asana.WithHost(arguments.Hostname))
	}
	return asana.Connect(arguments.Token, options...)
}
