package timezones

import (
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
)

// DefaultRoutePath is where hosts mount the options handler.
const DefaultRoutePath = "/options/timezones"

// HandlerOptions tunes query parsing and result size.
type HandlerOptions struct {
	SearchParam  string
	LimitParam   string
	DefaultLimit int
	MaxLimit     int
	// EmptyTop lists the first zones when the query is empty.
	EmptyTop bool
}

// HandlerOption mutates HandlerOptions.
type HandlerOption func(*HandlerOptions)

// WithLimits sets the default and maximum result sizes.
func WithLimits(defaultLimit, maxLimit int) HandlerOption {
	return func(o *HandlerOptions) {
		o.DefaultLimit = defaultLimit
		o.MaxLimit = maxLimit
	}
}

// WithEmptyTop lists zones for empty queries.
func WithEmptyTop(top bool) HandlerOption {
	return func(o *HandlerOptions) { o.EmptyTop = top }
}

func newHandlerOptions(fns ...HandlerOption) HandlerOptions {
	opts := HandlerOptions{SearchParam: "q", LimitParam: "limit", DefaultLimit: 50, MaxLimit: 200}
	for _, fn := range fns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	return opts
}

func (o HandlerOptions) clamp(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit == 0 {
		limit = o.DefaultLimit
	}
	if limit < 0 {
		return 0
	}
	return min(limit, o.MaxLimit)
}

type optionsResponse struct {
	Data []Option `json:"data"`
}

// Handler answers GET and HEAD with {"data": [{value, label}]}. A nil
// catalog uses the embedded one.
func Handler(catalog *Catalog, fns ...HandlerOption) http.Handler {
	opts := newHandlerOptions(fns...)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		source := catalog
		if source == nil {
			loaded, err := DefaultCatalog()
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			source = loaded
		}

		query := r.URL.Query()
		zones := source.Search(query.Get(opts.SearchParam), opts.clamp(query.Get(opts.LimitParam)), opts.EmptyTop)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(optionsResponse{Data: source.Options(zones)})
	})
}
