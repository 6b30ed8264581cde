package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formschema/components"
	"github.com/goliatone/go-formschema/internal/config"
	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/definition"
	"github.com/goliatone/go-formschema/pkg/registry"
	"github.com/goliatone/go-formschema/pkg/sanitize"
	"github.com/goliatone/go-formschema/pkg/state"
	"github.com/goliatone/go-formschema/pkg/theming"
)

// app holds the wiring shared by every command.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	holder *registry.Holder

	// shared options apply to every component; builtin adds the configured
	// serializer, which declarative files choose for themselves.
	shared  []component.Option
	builtin []component.Option

	closers []func() error
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	a.shared = []component.Option{
		component.WithSanitizer(sanitize.New()),
		component.WithLogger(logger),
	}
	if cfg.Theme.File != "" {
		manifests, err := theming.LoadManifests(cfg.Theme.File)
		if err != nil {
			return nil, err
		}
		selector, err := theming.NewSelector(cfg.Theme.Name, cfg.Theme.Variant, manifests...)
		if err != nil {
			return nil, err
		}
		a.shared = append(a.shared, component.WithDecorators(theming.Decorator(selector, cfg.Theme.Name, cfg.Theme.Variant)))
	}

	serializer, err := component.SerializerByName(cfg.Serializer)
	if err != nil {
		return nil, err
	}
	a.builtin = append([]component.Option{component.WithSerializer(serializer)}, a.shared...)

	reg, err := a.buildRegistry(nil)
	if err != nil {
		return nil, err
	}
	if cfg.Definitions.Dir != "" {
		defs, err := definition.LoadFS(os.DirFS(cfg.Definitions.Dir))
		if err != nil {
			return nil, err
		}
		if reg, err = a.buildRegistry(defs); err != nil {
			return nil, err
		}
	}
	a.holder = registry.NewHolder(reg)
	return a, nil
}

// buildRegistry registers the built-in components followed by defs.
func (a *app) buildRegistry(defs []definition.Definition) (*registry.Registry, error) {
	reg := registry.New()
	if err := components.Register(reg, a.builtin...); err != nil {
		return nil, err
	}
	if err := definition.Register(reg, defs, a.shared...); err != nil {
		return nil, err
	}
	return reg, nil
}

// reload swaps in a registry built from defs. A failed load keeps the
// current registry.
func (a *app) reload(defs []definition.Definition, err error) {
	if err != nil {
		return
	}
	reg, err := a.buildRegistry(defs)
	if err != nil {
		a.logger.Warn("definitions rejected", slog.Any("error", err))
		return
	}
	a.holder.Store(reg)
	a.logger.Info("registry swapped", slog.Int("types", reg.Len()))
}

// watch reloads definition files until ctx is done, when enabled.
func (a *app) watch(ctx context.Context) {
	if a.cfg.Definitions.Dir == "" || !a.cfg.Definitions.Watch {
		return
	}
	go func() {
		err := definition.Watch(ctx, a.cfg.Definitions.Dir, a.reload, definition.WithWatchLogger(a.logger))
		if err != nil {
			a.logger.Error("definition watcher stopped", slog.Any("error", err))
		}
	}()
}

// states opens the configured store and returns a service over it.
func (a *app) states(ctx context.Context) (*state.Service, error) {
	opts := []state.ManagerOption{state.WithTTL(a.cfg.Store.TTL), state.WithLogger(a.logger)}
	if a.cfg.Store.Prefix != "" {
		opts = append(opts, state.WithPrefix(a.cfg.Store.Prefix))
	}

	var cache state.Cache
	switch a.cfg.Store.Driver {
	case config.DriverMemory:
		memory := state.NewMemoryCache()
		a.closers = append(a.closers, memory.Close)
		cache = memory
	default:
		db, err := sql.Open(a.cfg.Store.Driver, a.cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", a.cfg.Store.Driver, err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping %s store: %w", a.cfg.Store.Driver, err)
		}
		sqlCache, err := state.NewSQLCache(db, state.SQLOptions{Dialect: a.cfg.Store.Driver, Table: a.cfg.Store.Table})
		if err != nil {
			return nil, err
		}
		if err := sqlCache.Migrate(ctx); err != nil {
			return nil, err
		}
		cache = sqlCache
	}
	a.logger.Debug("state store ready", slog.String("driver", a.cfg.Store.Driver))

	manager := state.NewManager(cache, opts...)
	return state.NewService(manager, a.holder, state.WithServiceLogger(a.logger)), nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
