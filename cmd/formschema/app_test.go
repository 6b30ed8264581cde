package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/goliatone/go-formschema/internal/config"
	"github.com/goliatone/go-formschema/pkg/definition"
)

const clashYAML = `components:
  - type: profile-card
    component: Other
    properties:
      - name: title
        type: string
`

func TestApp_Reload(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := newApp(config.Default(), logger)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()
	before := a.holder.Load()

	a.reload(nil, errors.New("broken file"))
	if a.holder.Load() != before {
		t.Fatalf("failed load must keep the current registry")
	}

	defs, err := definition.Parse([]byte(noticeYAML), "notice.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a.reload(defs, nil)
	if !a.holder.Has("notice") || !a.holder.Has("profile-card") {
		t.Fatalf("types after reload = %v", a.holder.Types())
	}

	clash, err := definition.Parse([]byte(clashYAML), "clash.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	current := a.holder.Load()
	a.reload(clash, nil)
	if a.holder.Load() != current {
		t.Fatalf("rejected definitions must keep the current registry")
	}
}

func TestApp_MemoryStates(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := newApp(config.Default(), logger)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	states, err := a.states(context.Background())
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	id, err := states.Save(context.Background(), "", "profile-card", map[string]any{
		"profile": map[string]any{"name": "Ada"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := states.Load(context.Background(), id)
	if err != nil || loaded == nil {
		t.Fatalf("load: %v %v", loaded, err)
	}
}
