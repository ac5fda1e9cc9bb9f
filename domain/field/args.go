package field

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/artpar/themedesigner/pkg/coerce"
)

// Args overrides the defaults of a setting at construction.
type Args struct {
	Label       string
	Description string
	Default     string
	Sanitize    SanitizeFunc
}

// Recognized override keys.
const (
	ArgLabel       = "label"
	ArgDescription = "description"
	ArgDefault     = "default"
	ArgSanitize    = "sanitize"
)

// ArgsFromMap builds Args from a loosely typed overrides map, as decoded from
// configuration. Only the recognized keys are applied; the names of all other
// keys are returned sorted so the caller can report them.
//
// The "sanitize" value names one or more entries of reg, as a string or a
// list. Several names are chained in the order given.
func ArgsFromMap(m map[string]any, reg Sanitizers) (Args, []string, error) {
	var args Args
	var ignored []string

	for key, raw := range m {
		switch key {
		case ArgLabel:
			args.Label = scalar(raw)
		case ArgDescription:
			args.Description = scalar(raw)
		case ArgDefault:
			args.Default = scalar(raw)
		case ArgSanitize:
			fn, err := reg.Resolve(names(raw)...)
			if err != nil {
				return Args{}, nil, err
			}
			args.Sanitize = fn
		default:
			ignored = append(ignored, key)
		}
	}

	sort.Strings(ignored)
	return args, ignored, nil
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func names(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, scalar(item))
		}
		return out
	default:
		return nil
	}
}

// Sanitizers maps sanitizer names to functions.
type Sanitizers map[string]SanitizeFunc

// Resolve returns the chain of the named sanitizers, or nil when no names are
// given.
func (r Sanitizers) Resolve(names ...string) (SanitizeFunc, error) {
	if len(names) == 0 {
		return nil, nil
	}
	fns := make([]SanitizeFunc, 0, len(names))
	for _, name := range names {
		fn, ok := r[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSanitizer, name)
		}
		fns = append(fns, fn)
	}
	if len(fns) == 1 {
		return fns[0], nil
	}
	return Chain(fns...), nil
}

// Chain runs sanitizers in order, feeding each the previous result.
func Chain(fns ...SanitizeFunc) SanitizeFunc {
	return func(value string, s Setting) string {
		for _, fn := range fns {
			value = fn(value, s)
		}
		return value
	}
}

// DefaultSanitizers returns the built-in sanitizers. stripTags backs the
// "strip_tags" entry and may be nil, in which case that entry is omitted.
func DefaultSanitizers(stripTags func(string) string) Sanitizers {
	r := Sanitizers{
		"trim": func(v string, _ Setting) string {
			return strings.TrimSpace(v)
		},
		"lower": func(v string, _ Setting) string {
			return strings.ToLower(v)
		},
		"key": func(v string, _ Setting) string {
			return sanitizeKey(v)
		},
		"absint": func(v string, _ Setting) string {
			if v == "" {
				return ""
			}
			return strconv.FormatUint(coerce.Absint(v), 10)
		},
		"intval": func(v string, _ Setting) string {
			if v == "" {
				return ""
			}
			return strconv.FormatInt(coerce.Intval(v), 10)
		},
		"default_if_empty": func(v string, s Setting) string {
			if v == "" {
				return s.Default()
			}
			return v
		},
	}
	if stripTags != nil {
		r["strip_tags"] = func(v string, _ Setting) string {
			return stripTags(v)
		}
	}
	return r
}

// sanitizeKey lowercases v and keeps only [a-z0-9_-].
func sanitizeKey(v string) string {
	v = strings.ToLower(v)
	var b strings.Builder
	for _, r := range v {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
