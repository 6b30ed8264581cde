package definition_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/definition"
	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/registry"
	"github.com/goliatone/go-formschema/pkg/testsupport"
)

func loadTestdata(t *testing.T) []definition.Definition {
	t.Helper()
	defs, err := definition.LoadFS(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return defs
}

func TestLoadFS_ParsesYAMLAndJSON(t *testing.T) {
	defs := loadTestdata(t)

	var types []string
	for _, def := range defs {
		types = append(types, def.Type())
	}
	if diff := cmp.Diff([]string{"profile-card", "notice", "settings-panel"}, types); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	profile := defs[0].Spec
	if profile.Version() != "1.1.0" || profile.Component() != "ProfileCard" {
		t.Fatalf("unexpected metadata: %q %q", profile.Version(), profile.Component())
	}
	nodes := profile.Properties()
	if len(nodes) != 3 {
		t.Fatalf("expected 3 top-level properties, got %d", len(nodes))
	}
	if diff := cmp.Diff([]string{"fullName", "email", "age"}, nodes[0].Children().Names()); diff != "" {
		t.Fatalf("child order mismatch (-want +got):\n%s", diff)
	}
	email, _ := nodes[0].Children().Get("email")
	if email.FormatName() != "email" {
		t.Fatalf("preset not applied to email: %q", email.FormatName())
	}
	if item := nodes[2].ItemSchema(); item == nil || item.Name() != "link" {
		t.Fatalf("expected singularized item name, got %v", item)
	}
}

func TestRegister_UsesDeclaredSerializer(t *testing.T) {
	reg := registry.New()
	if err := definition.Register(reg, loadTestdata(t)); err != nil {
		t.Fatalf("register: %v", err)
	}

	notice := testsupport.MustPlain(t, reg.MustResolve("notice"))
	if notice["message"] != "Hello" || notice["level"] != "info" {
		t.Fatalf("expected simplified values at top level, got %v", notice)
	}
	if diff := cmp.Diff(any(map[string]any{"message": "Maintenance tonight"}), reg.MustResolve("notice").ExampleData()); diff != "" {
		t.Fatalf("literal example mismatch (-want +got):\n%s", diff)
	}

	profile := testsupport.MustSerialize(t, reg.MustResolve("profile-card"))
	props, _ := profile.Get("properties")
	if diff := cmp.Diff([]string{"profile"}, props.(*ordered.Map).Keys()); diff != "" {
		t.Fatalf("containers mismatch (-want +got):\n%s", diff)
	}
	if category, _ := profile.Get("category"); category != "people" {
		t.Fatalf("expected extend values, got %v", category)
	}

	settings := reg.MustResolve("settings-panel")
	result := settings.Validate(map[string]any{"appearance": map[string]any{"fontSize": 40}})
	if got := result.First("appearance.fontSize"); got != "appearance.fontSize is invalid" {
		t.Fatalf("unexpected validation result: %v", result.Errors)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := map[string]struct {
		files fstest.MapFS
		want  string
	}{
		"duplicate type": {
			files: fstest.MapFS{
				"a.yaml": {Data: []byte("components:\n  - type: card\n    properties:\n      - name: title\n")},
				"b.yaml": {Data: []byte("components:\n  - type: card\n    properties:\n      - name: body\n")},
			},
			want: `duplicate type "card"`,
		},
		"unknown preset": {
			files: fstest.MapFS{
				"a.yaml": {Data: []byte("components:\n  - type: card\n    properties:\n      - name: title\n        preset: hologram\n")},
			},
			want: `unknown preset "hologram"`,
		},
		"unknown serializer": {
			files: fstest.MapFS{
				"a.json": {Data: []byte(`{"components":[{"type":"card","serializer":"flat","properties":[{"name":"t"}]}]}`)},
			},
			want: `serializer "flat" not found`,
		},
		"properties on scalar": {
			files: fstest.MapFS{
				"a.yaml": {Data: []byte("components:\n  - type: card\n    properties:\n      - name: title\n        properties:\n          - name: x\n")},
			},
			want: "properties require an object type",
		},
		"empty file": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("  \n")}},
			want:  "is empty",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := definition.LoadFS(tc.files)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadFS_IgnoresOtherFiles(t *testing.T) {
	defs, err := definition.LoadFS(fstest.MapFS{"README.md": {Data: []byte("# docs")}})
	if err != nil || len(defs) != 0 {
		t.Fatalf("expected no definitions, got %v (%v)", defs, err)
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan []definition.Definition, 4)
	done := make(chan error, 1)
	go func() {
		done <- definition.Watch(ctx, dir, func(defs []definition.Definition, err error) {
			if err == nil {
				reloads <- defs
			}
		}, definition.WithDebounce(20*time.Millisecond))
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	payload := []byte("components:\n  - type: live\n    properties:\n      - name: title\n")
	if err := os.WriteFile(filepath.Join(dir, "live.yaml"), payload, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case defs := <-reloads:
		if len(defs) != 1 || defs[0].Type() != "live" {
			t.Fatalf("unexpected reload: %v", defs)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
}

func TestWatch_ReloadsNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "marketing")
	if err := os.MkdirAll(existing, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan []definition.Definition, 8)
	done := make(chan error, 1)
	go func() {
		done <- definition.Watch(ctx, dir, func(defs []definition.Definition, err error) {
			if err == nil {
				reloads <- defs
			}
		}, definition.WithDebounce(20*time.Millisecond))
	}()

	waitFor := func(want ...string) {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case defs := <-reloads:
				var got []string
				for _, def := range defs {
					got = append(got, def.Type())
				}
				sort.Strings(got)
				if cmp.Equal(want, got) {
					return
				}
			case <-deadline:
				t.Fatalf("timed out waiting for reload of %v", want)
			}
		}
	}

	time.Sleep(100 * time.Millisecond)
	payload := []byte("components:\n  - type: hero\n    properties:\n      - name: title\n")
	if err := os.WriteFile(filepath.Join(existing, "hero.yaml"), payload, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor("hero")

	created := filepath.Join(existing, "blog")
	if err := os.Mkdir(created, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	payload = []byte("components:\n  - type: post\n    properties:\n      - name: body\n")
	if err := os.WriteFile(filepath.Join(created, "post.yaml"), payload, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor("hero", "post")

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
}
