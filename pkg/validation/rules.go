package validation

import (
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
)

// checker evaluates translated rules as validator tags. Custom tags are
// registered once, before the first Var call.
var checker = newChecker()

func newChecker() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("alpha_dash", func(fl validator.FieldLevel) bool {
		return alphaDashPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("whole", isWhole)
	_ = v.RegisterValidation("image_ref", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && isImageRef(fl.Field().String())
	})
	return v
}

var alphaDashPattern = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04:05", time.DateOnly}

var builtinRules = map[string]RuleFunc{
	"required":   ruleRequired,
	"nullable":   func(any, string) bool { return true },
	"string":     ruleString,
	"array":      ruleArray,
	"regex":      ruleRegex,
	"numeric":    tagRule(fixed("numeric")),
	"integer":    tagRule(fixed("whole")),
	"boolean":    tagRule(fixed("boolean")),
	"min":        tagRule(bound("min")),
	"max":        tagRule(bound("max")),
	"size":       tagRule(bound("len")),
	"between":    tagRule(between),
	"in":         ruleIn,
	"not_in":     func(v any, args string) bool { return !ruleIn(v, args) },
	"email":      tagRule(fixed("email")),
	"url":        tagRule(fixed("url")),
	"alpha":      tagRule(fixed("alphaunicode")),
	"alpha_num":  tagRule(fixed("alphanumunicode")),
	"alpha_dash": tagRule(fixed("alpha_dash")),
	"date":       tagRule(fixed(dateTag())),
	"uuid":       tagRule(fixed("uuid")),
	"json":       tagRule(fixed("json")),
	"timezone":   tagRule(fixed("timezone")),
	"image":      tagRule(fixed("image_ref")),
}

// tagFunc translates rule arguments into a validator tag. It reports false
// when the arguments cannot form a tag.
type tagFunc func(args string) (string, bool)

func tagRule(build tagFunc) RuleFunc {
	return func(value any, args string) bool {
		tag, ok := build(args)
		if !ok {
			return false
		}
		return satisfies(normalize(value), tag)
	}
}

// satisfies runs tag against value. Baked-in tags panic on field kinds
// they do not support; that counts as a failed rule.
func satisfies(value any, tag string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return checker.Var(value, tag) == nil
}

func fixed(tag string) tagFunc {
	return func(string) (string, bool) { return tag, true }
}

func bound(name string) tagFunc {
	return func(args string) (string, bool) {
		limit := strings.TrimSpace(args)
		if _, err := strconv.ParseFloat(limit, 64); err != nil {
			return "", false
		}
		return name + "=" + limit, true
	}
}

func between(args string) (string, bool) {
	lower, upper, found := strings.Cut(args, ",")
	if !found {
		return "", false
	}
	low, ok := bound("min")(lower)
	if !ok {
		return "", false
	}
	high, ok := bound("max")(upper)
	if !ok {
		return "", false
	}
	return low + "," + high, true
}

func dateTag() string {
	tags := make([]string, 0, len(dateLayouts))
	for _, layout := range dateLayouts {
		tags = append(tags, "datetime="+layout)
	}
	return strings.Join(tags, "|")
}

func ruleRequired(value any, _ string) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return satisfies(strings.TrimSpace(v), "required")
	case []any, []string, map[string]any:
		return satisfies(v, "min=1")
	default:
		return true
	}
}

func ruleString(value any, _ string) bool {
	_, ok := value.(string)
	return ok
}

func ruleArray(value any, _ string) bool {
	switch value.(type) {
	case []any, []string, []map[string]any:
		return true
	default:
		return false
	}
}

// ruleIn compares the scalar text of value against the options, so numbers
// and booleans match their literal spelling ("in:1,2" accepts 2.0).
func ruleIn(value any, args string) bool {
	candidate, ok := scalarText(value)
	if !ok {
		return false
	}
	var quoted []string
	for _, option := range strings.Split(args, ",") {
		option = strings.TrimSpace(option)
		if strings.ContainsRune(option, '\'') {
			if option == candidate {
				return true
			}
			continue
		}
		quoted = append(quoted, "'"+option+"'")
	}
	if len(quoted) == 0 {
		return false
	}
	return satisfies(candidate, "oneof="+strings.Join(quoted, " "))
}

var (
	regexMu    sync.Mutex
	regexCache = map[string]*regexp.Regexp{}
)

func compile(expr string) (*regexp.Regexp, error) {
	regexMu.Lock()
	defer regexMu.Unlock()
	if re, ok := regexCache[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	regexCache[expr] = re
	return re, nil
}

// ruleRegex stays outside the tag set: patterns routinely contain the comma
// and pipe characters validator tags reserve.
func ruleRegex(value any, args string) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	expr := strings.TrimSpace(args)
	if len(expr) >= 2 && expr[0] == '/' && expr[len(expr)-1] == '/' {
		expr = expr[1 : len(expr)-1]
	}
	re, err := compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func isWhole(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return f == math.Trunc(f) && !math.IsInf(f, 0)
	case reflect.String:
		_, err := strconv.ParseInt(strings.TrimSpace(field.String()), 10, 64)
		return err == nil
	}
	return false
}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".avif"}

func isImageRef(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(lower, "data:image/") {
		return true
	}
	if parsed, err := url.Parse(lower); err == nil && parsed.Path != "" {
		lower = parsed.Path
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// normalize turns decoded JSON numbers into float64 so size rules compare
// the number instead of its text length.
func normalize(value any) any {
	if n, ok := value.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return value
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func scalarText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	}
	if f, ok := toFloat(value); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}
