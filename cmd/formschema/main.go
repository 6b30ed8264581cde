// Command formschema serves, inspects and fills component schemas.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/goliatone/go-formschema/internal/config"
)

// errInvalid reports a payload that failed validation. Details were already
// written to stdout.
var errInvalid = errors.New("payload is invalid")

type env struct {
	app    *app
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	{"serve", "run the HTTP API", runServe},
	{"types", "list registered component types", runTypes},
	{"schema", "print the serialized schema of a type", runSchema},
	{"validate", "validate a JSON payload against a type", runValidate},
	{"fill", "fill a type interactively and print the payload", runFill},
	{"docs", "render markdown docs for one or all types", runDocs},
	{"openapi", "export an OpenAPI document of every type", runOpenAPI},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "formschema: %v\n", err)
		}
		var usage usageError
		if errors.As(err, &usage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stderr)
		if len(args) == 0 {
			return usagef("a command is required")
		}
		return nil
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		printUsage(stderr)
		return usagef("unknown command %q", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(stderr)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return cmd.run(ctx, &env{app: a, stdin: stdin, stdout: stdout, stderr: stderr}, args[1:])
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s <command> [flags]\n\nCommands:\n", filepath.Base(os.Args[0]))
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintf(w, "\nConfiguration is read from $%s, .env and the environment.\n", config.FileEnv)
}

func newFlagSet(name string, e *env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// parse parses flags and returns exactly want positional arguments.
func parse(fs *flag.FlagSet, args []string, want int, names string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, usageError{msg: err.Error()}
	}
	if fs.NArg() != want {
		return nil, usagef("%s: expected %s", fs.Name(), names)
	}
	return fs.Args(), nil
}
