package timezones

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"
)

//go:embed data/iana_timezones.txt
var dataFS embed.FS

const defaultListPath = "data/iana_timezones.txt"

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Option is a select option returned to renderers.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Catalog is an immutable, sorted list of zone names.
type Catalog struct {
	zones []string
	now   func() time.Time
}

// NewCatalog builds a catalog from zones, dropping blanks and duplicates.
func NewCatalog(zones []string) *Catalog {
	seen := make(map[string]struct{}, len(zones))
	out := make([]string, 0, len(zones))
	for _, zone := range zones {
		zone = strings.TrimSpace(zone)
		if zone == "" {
			continue
		}
		if _, ok := seen[zone]; ok {
			continue
		}
		seen[zone] = struct{}{}
		out = append(out, zone)
	}
	sort.Strings(out)
	return &Catalog{zones: out, now: time.Now}
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		zones, err := LoadZones(f)
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog = NewCatalog(zones)
	})
	return defaultCatalog, defaultErr
}

// LoadZones reads one zone per line. Blank lines and # comments are skipped.
func LoadZones(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("timezones: missing reader")
	}
	scanner := bufio.NewScanner(r)
	var zones []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		zones = append(zones, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("timezones: read zones: %w", err)
	}
	return zones, nil
}

// Zones returns a copy of the catalog entries.
func (c *Catalog) Zones() []string {
	return append([]string(nil), c.zones...)
}

// Has reports whether zone is in the catalog.
func (c *Catalog) Has(zone string) bool {
	idx := sort.SearchStrings(c.zones, zone)
	return idx < len(c.zones) && c.zones[idx] == zone
}

// Search matches query case-insensitively anywhere in the zone name, listing
// prefix matches first. An empty query returns the first limit zones when
// top is set and nothing otherwise.
func (c *Catalog) Search(query string, limit int, top bool) []string {
	if limit <= 0 {
		return nil
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		if !top {
			return nil
		}
		return append([]string(nil), c.zones[:min(limit, len(c.zones))]...)
	}

	var prefix, contains []string
	for _, zone := range c.zones {
		lower := strings.ToLower(zone)
		switch {
		case strings.HasPrefix(lower, query):
			prefix = append(prefix, zone)
		case strings.Contains(lower, query):
			contains = append(contains, zone)
		}
	}
	out := append(prefix, contains...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Option labels zone with its current UTC offset, "Europe/Paris (UTC+01:00)".
// Zones the runtime cannot load keep their plain name.
func (c *Catalog) Option(zone string) Option {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Option{Value: zone, Label: zone}
	}
	offset := c.now().In(loc).Format("-07:00")
	return Option{Value: zone, Label: fmt.Sprintf("%s (UTC%s)", zone, offset)}
}

// Options maps zones to labelled options.
func (c *Catalog) Options(zones []string) []Option {
	out := make([]Option, 0, len(zones))
	for _, zone := range zones {
		out = append(out, c.Option(zone))
	}
	return out
}
