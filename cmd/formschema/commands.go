package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formschema/internal/httpapi"
	"github.com/goliatone/go-formschema/internal/prompt"
	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/docs"
	"github.com/goliatone/go-formschema/pkg/openapi"
)

// newAsker builds the interactive asker used by fill.
var newAsker = prompt.NewSurveyAsker

func runServe(ctx context.Context, e *env, args []string) error {
	cfg := e.app.cfg
	fs := newFlagSet("serve", e)
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	if _, err := parse(fs, args, 0, "no arguments"); err != nil {
		return err
	}

	states, err := e.app.states(ctx)
	if err != nil {
		return err
	}
	renderer, err := docs.New()
	if err != nil {
		return err
	}

	gin.SetMode(cfg.Server.Mode)
	srv, err := httpapi.New(e.app.holder,
		httpapi.WithBasePath(cfg.Server.BasePath),
		httpapi.WithLogger(e.app.logger),
		httpapi.WithStates(states),
		httpapi.WithDocs(renderer),
		httpapi.WithTimezones(nil),
		httpapi.WithInfo(openapi.Info{Title: "formschema components"}),
	)
	if err != nil {
		return err
	}

	e.app.watch(ctx)
	return srv.Run(ctx, *addr)
}

func runTypes(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("types", e)
	if _, err := parse(fs, args, 0, "no arguments"); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCOMPONENT\tVERSION")
	for _, typeKey := range e.app.holder.Types() {
		comp, err := e.app.holder.Resolve(typeKey)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", comp.Type(), comp.DisplayComponent(), comp.Version())
	}
	return tw.Flush()
}

func runSchema(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("schema", e)
	format := fs.String("format", "", "serializer: hierarchical or simplified (default: the type's own)")
	output := fs.String("output", "", "output file (stdout if empty)")
	rest, err := parse(fs, args, 1, "<type>")
	if err != nil {
		return err
	}

	comp, err := e.app.holder.Resolve(rest[0])
	if err != nil {
		return err
	}
	serializer := comp.Serializer()
	if *format != "" {
		if serializer, err = component.SerializerByName(*format); err != nil {
			return err
		}
	}
	out, err := serializer.Serialize(comp)
	if err != nil {
		return err
	}
	return writeJSON(e, *output, out)
}

func runValidate(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("validate", e)
	file := fs.String("file", "-", "JSON payload file, - for stdin")
	rest, err := parse(fs, args, 1, "<type>")
	if err != nil {
		return err
	}

	comp, err := e.app.holder.Resolve(rest[0])
	if err != nil {
		return err
	}
	payload, err := readPayload(e, *file)
	if err != nil {
		return err
	}

	result := comp.Validate(payload)
	if result.Valid() {
		fmt.Fprintln(e.stdout, "valid")
		return nil
	}
	for _, field := range result.Fields() {
		for _, message := range result.Errors[field] {
			fmt.Fprintf(e.stdout, "%s: %s\n", field, message)
		}
	}
	return errInvalid
}

func runFill(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("fill", e)
	save := fs.Bool("save", false, "save the answers to the state store")
	id := fs.String("id", "", "state id used with -save (generated if empty)")
	output := fs.String("output", "", "output file (stdout if empty)")
	rest, err := parse(fs, args, 1, "<type>")
	if err != nil {
		return err
	}

	comp, err := e.app.holder.Resolve(rest[0])
	if err != nil {
		return err
	}
	filler, err := prompt.New(newAsker(e.stderr))
	if err != nil {
		return err
	}
	values, err := filler.Fill(ctx, comp)
	if err != nil {
		return err
	}

	if *save {
		states, err := e.app.states(ctx)
		if err != nil {
			return err
		}
		saved, err := states.Save(ctx, *id, comp.Type(), values)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stderr, "saved state %s\n", saved)
	}
	return writeJSON(e, *output, values)
}

func runDocs(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("docs", e)
	dir := fs.String("dir", "", "write one <type>.md per registered type into dir")
	output := fs.String("output", "", "output file for a single type (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return usageError{msg: err.Error()}
	}

	renderer, err := docs.New()
	if err != nil {
		return err
	}

	if *dir != "" {
		if fs.NArg() != 0 {
			return usagef("docs: -dir takes no type")
		}
		if err := os.MkdirAll(*dir, 0o755); err != nil {
			return err
		}
		for _, typeKey := range e.app.holder.Types() {
			comp, err := e.app.holder.Resolve(typeKey)
			if err != nil {
				return err
			}
			page, err := renderer.Render(comp)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(*dir, typeKey+".md"), []byte(page), 0o644); err != nil {
				return err
			}
		}
		return nil
	}

	if fs.NArg() != 1 {
		return usagef("docs: expected <type> or -dir")
	}
	comp, err := e.app.holder.Resolve(fs.Arg(0))
	if err != nil {
		return err
	}
	page, err := renderer.Render(comp)
	if err != nil {
		return err
	}
	return writeOutput(e, *output, []byte(page))
}

func runOpenAPI(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("openapi", e)
	title := fs.String("title", "formschema components", "document title")
	version := fs.String("version", "", "document version")
	base := fs.String("base", e.app.cfg.Server.BasePath, "base path of the validate operations, empty to omit paths")
	output := fs.String("output", "", "output file (stdout if empty)")
	if _, err := parse(fs, args, 0, "no arguments"); err != nil {
		return err
	}

	doc, err := openapi.Export(ctx, e.app.holder, openapi.Info{Title: *title, Version: *version, BasePath: *base})
	if err != nil {
		return err
	}
	body, err := openapi.MarshalJSON(doc)
	if err != nil {
		return err
	}
	return writeOutput(e, *output, append(body, '\n'))
}

func readPayload(e *env, file string) (map[string]any, error) {
	var (
		raw []byte
		err error
	)
	if file == "-" {
		raw, err = io.ReadAll(e.stdin)
	} else {
		raw, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}

func writeJSON(e *env, output string, value any) error {
	body, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(e, output, append(body, '\n'))
}

func writeOutput(e *env, output string, body []byte) error {
	if output == "" {
		_, err := e.stdout.Write(body)
		return err
	}
	if err := os.WriteFile(output, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(e.stderr, "written to %s\n", output)
	return nil
}
