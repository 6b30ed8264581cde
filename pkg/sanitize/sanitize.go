// Package sanitize cleans user-supplied markup stored in component overrides.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

const (
	FormatHTML = "html"
	FormatIcon = "icon"
)

var (
	policyOnce   sync.Once
	ugcPolicy    *bluemonday.Policy
	strictPolicy *bluemonday.Policy
	iconPolicy   *bluemonday.Policy
)

// Sanitizer implements component.Sanitizer. html values keep user-generated
// content markup, icon values keep inline SVG, other formats pass through.
type Sanitizer struct{}

// New returns a Sanitizer.
func New() Sanitizer { return Sanitizer{} }

// Sanitize cleans value according to format.
func (s Sanitizer) Sanitize(format, value string) string {
	switch format {
	case FormatHTML:
		return s.HTML(value)
	case FormatIcon:
		return s.Icon(value)
	default:
		return value
	}
}

// HTML strips scripts, handlers and unsafe URLs while keeping formatting.
func (Sanitizer) HTML(value string) string {
	return clean(policies().ugc, value)
}

// Text strips every tag.
func (Sanitizer) Text(value string) string {
	return clean(policies().strict, value)
}

// Icon keeps plain icon names untouched and reduces inline markup to a safe
// SVG subset.
func (Sanitizer) Icon(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "<") {
		return trimmed
	}
	return clean(policies().icon, trimmed)
}

func clean(policy *bluemonday.Policy, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(policy.Sanitize(trimmed))
}

type policySet struct {
	ugc, strict, icon *bluemonday.Policy
}

func policies() policySet {
	policyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
		strictPolicy = bluemonday.StrictPolicy()
		iconPolicy = newIconPolicy()
	})
	return policySet{ugc: ugcPolicy, strict: strictPolicy, icon: iconPolicy}
}

func newIconPolicy() *bluemonday.Policy {
	policy := bluemonday.StrictPolicy()
	policy.AllowElements(
		"svg", "g", "path", "circle", "rect", "line", "polyline", "polygon",
		"ellipse", "title", "desc", "defs", "use", "clipPath",
	)
	policy.AllowAttrs(
		"xmlns", "viewBox", "width", "height", "fill", "stroke",
		"stroke-width", "stroke-linecap", "stroke-linejoin", "aria-hidden",
		"role", "focusable", "class",
	).OnElements("svg")
	policy.AllowAttrs("href", "xlink:href", "clip-path").OnElements("use")
	policy.AllowAttrs(
		"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
		"points", "rx", "ry", "fill", "stroke", "stroke-width",
		"stroke-linecap", "stroke-linejoin", "class",
	).OnElements("path", "circle", "rect", "line", "polyline", "polygon", "ellipse")
	policy.AllowAttrs("id", "clipPathUnits").OnElements("clipPath")
	policy.AllowAttrs("id").OnElements("defs", "g")
	return policy
}
