// Package theming attaches go-theme selections to serialized components so
// renderers receive resolved tokens, partials and asset URLs.
package theming

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/ordered"
)

var (
	// ErrThemeNotFound is returned when no manifest matches the requested name.
	ErrThemeNotFound = errors.New("theming: theme not found")
	// ErrVariantNotFound is returned when a manifest lacks the requested variant.
	ErrVariantNotFound = errors.New("theming: variant not found")
)

// Selector is a manifest-backed theme.ThemeSelector.
type Selector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	order          []string
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector registers manifests. Empty Select arguments fall back to
// defaultTheme and defaultVariant; an empty defaultTheme selects the first
// manifest.
func NewSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*Selector, error) {
	s := &Selector{
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds manifest under its name.
func (s *Selector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("theming: manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("theming: theme %q already registered", manifest.Name)
	}
	s.manifests[manifest.Name] = manifest
	s.order = append(s.order, manifest.Name)
	return nil
}

// Themes lists registered theme names in registration order.
func (s *Selector) Themes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Select implements theme.ThemeSelector. Query options are not used.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" {
		name = s.defaultTheme
	}
	if name == "" && len(s.order) > 0 {
		name = s.order[0]
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("theming: %q: %w", name, ErrThemeNotFound)
	}
	if variant == "" && name == s.defaultTheme {
		variant = s.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("theming: %q variant %q: %w", name, variant, ErrVariantNotFound)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection, applying variant tokens, templates
// and asset files over the base manifest.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	prefix := manifest.Assets.Prefix
	files := map[string]string{}
	merge := func(tokens, templates, assets map[string]string) {
		for key, value := range tokens {
			cfg.Tokens[key] = value
		}
		for key, value := range templates {
			cfg.Partials[key] = value
		}
		for key, value := range assets {
			files[key] = value
		}
	}
	merge(manifest.Tokens, manifest.Templates, manifest.Assets.Files)
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		merge(variant.Tokens, variant.Templates, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}
	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		return path.Join(prefix, file)
	}
	return cfg
}

// Decorator resolves name and variant on every serialization and adds a
// "theme" entry with the flattened configuration. Asset keys listed in
// assets are emitted as resolved URLs.
func Decorator(selector theme.ThemeSelector, name, variant string, assets ...string) component.Decorator {
	return component.DecoratorFunc(func(_ *component.Component, out *ordered.Map) error {
		if selector == nil {
			return errors.New("theming: selector is required")
		}
		selection, err := selector.Select(name, variant)
		if err != nil {
			return err
		}
		cfg := RendererConfig(selection)
		entry := ordered.FromPairs(
			"name", cfg.Theme,
			"variant", cfg.Variant,
			"tokens", sortedMap(cfg.Tokens),
			"cssVars", sortedMap(cfg.CSSVars),
		)
		if len(cfg.Partials) > 0 {
			entry.Set("partials", sortedMap(cfg.Partials))
		}
		if len(assets) > 0 {
			urls := ordered.New()
			for _, key := range assets {
				if url := cfg.AssetURL(key); url != "" {
					urls.Set(key, url)
				}
			}
			entry.Set("assets", urls)
		}
		out.Set("theme", entry)
		return nil
	})
}

func sortedMap(in map[string]string) *ordered.Map {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := ordered.New()
	for _, key := range keys {
		out.Set(key, in[key])
	}
	return out
}

type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

func (a assetsFile) assets() theme.Assets {
	return theme.Assets{Prefix: a.Prefix, Files: a.Files}
}

// ParseManifests decodes a YAML document holding a list of manifests under
// "themes".
func ParseManifests(data []byte) ([]*theme.Manifest, error) {
	var doc struct {
		Themes []manifestFile `yaml:"themes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("theming: parse manifests: %w", err)
	}
	out := make([]*theme.Manifest, 0, len(doc.Themes))
	for _, file := range doc.Themes {
		manifest := &theme.Manifest{
			Name:      file.Name,
			Version:   file.Version,
			Tokens:    file.Tokens,
			Templates: file.Templates,
			Assets:    file.Assets.assets(),
		}
		if len(file.Variants) > 0 {
			manifest.Variants = make(map[string]theme.Variant, len(file.Variants))
			for key, variant := range file.Variants {
				manifest.Variants[key] = theme.Variant{
					Tokens:    variant.Tokens,
					Templates: variant.Templates,
					Assets:    variant.Assets.assets(),
				}
			}
		}
		out = append(out, manifest)
	}
	return out, nil
}

// LoadManifests reads and parses the manifest file at filename.
func LoadManifests(filename string) ([]*theme.Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("theming: read manifests: %w", err)
	}
	return ParseManifests(data)
}
