package settings

import (
	"strings"

	"github.com/artpar/themedesigner/pkg/coerce"
)

// Fallback values applied during validation.
const (
	DefaultTitle              = "Themes"
	DefaultRewriteBase        = "themes"
	DefaultFeatureRewriteBase = "features"
	DefaultPopularRewriteBase = "popular"
	DefaultSubjectRewriteBase = "subjects"
	DefaultAuthorRewriteBase  = "authors"
	DefaultOrderby            = "date"
	DefaultOrder              = "DESC"
	DefaultWporgTransient     = 3
	DefaultThemesPerPage      = 10
)

// Markup strips and filters HTML in submitted values.
type Markup interface {
	// StripTags removes all markup, keeping text content.
	StripTags(s string) string
	// FilterPost removes markup that is unsafe in post content.
	FilterPost(s string) string
}

// Rule names a permalink conflict rule.
type Rule string

// Conflict rules, in the order they are evaluated.
const (
	RuleThemeSubject  Rule = "theme_subject"
	RuleThemeAuthor   Rule = "theme_author"
	RuleSubjectAuthor Rule = "subject_author"
)

// Resolution lists the conflict rules that fired during validation.
type Resolution struct {
	Applied []Rule `json:"applied"`
}

// Any returns true if at least one rule fired.
func (r Resolution) Any() bool {
	return len(r.Applied) > 0
}

// Validate normalizes a submitted settings form. It never fails; invalid or
// missing values fall back to defaults. A nil Markup leaves markup untouched.
func Validate(in Settings, m Markup) Options {
	o, _ := ValidateWithReport(in, m)
	return o
}

// ValidateWithReport is Validate, also reporting which permalink conflicts
// were resolved.
func ValidateWithReport(in Settings, m Markup) (Options, Resolution) {
	if m == nil {
		m = rawMarkup{}
	}
	var o Options

	// Text boxes.
	o.MenuTitle = text(in.Get(KeyMenuTitle), m, DefaultTitle)
	o.ArchiveTitle = text(in.Get(KeyArchiveTitle), m, DefaultTitle)

	// Permalink segments.
	o.RewriteBase = slug(in.Get(KeyRewriteBase), m, DefaultRewriteBase)
	o.ThemeRewriteBase = slug(in.Get(KeyThemeRewriteBase), m, "")
	o.SubjectRewriteBase = slug(in.Get(KeySubjectRewriteBase), m, "")
	o.FeatureRewriteBase = slug(in.Get(KeyFeatureRewriteBase), m, DefaultFeatureRewriteBase)
	o.PopularThemeRewriteBase = slug(in.Get(KeyPopularThemeRewriteBase), m, DefaultPopularRewriteBase)
	o.AuthorRewriteBase = slug(in.Get(KeyAuthorRewriteBase), m, "")

	// Escaping keeps quotes in the description intact through the filter.
	o.ArchiveDescription = coerce.StripSlashes(m.FilterPost(coerce.AddSlashes(in.Get(KeyArchiveDescription))))

	// Numbers. The transient bound only admits values above 91.
	expire := coerce.Absint(in.Get(KeyWporgTransient))
	if 0 < expire && 91 < expire {
		o.WporgTransient = expire
	} else {
		o.WporgTransient = DefaultWporgTransient
	}

	perPage := coerce.Intval(in.Get(KeyThemesPerPage))
	if -2 < perPage && perPage <= maxInt {
		o.ThemesPerPage = int(perPage)
	} else {
		o.ThemesPerPage = DefaultThemesPerPage
	}

	// Select boxes.
	o.ThemesOrderby = enum(in, KeyThemesOrderby, m, DefaultOrderby)
	o.ThemesOrder = enum(in, KeyThemesOrder, m, DefaultOrder)

	// Checkboxes.
	o.WporgIntegration = coerce.Truthy(in.Get(KeyWporgIntegration))

	return o, resolveConflicts(&o)
}

const maxInt = int64(^uint(0) >> 1)

// resolveConflicts fills empty permalink segments so that no two of the
// theme, subject and author sections share the bare rewrite base. Themes win
// over subjects and authors, subjects win over authors.
func resolveConflicts(o *Options) Resolution {
	var r Resolution

	if o.ThemeRewriteBase == "" && o.SubjectRewriteBase == "" {
		o.SubjectRewriteBase = DefaultSubjectRewriteBase
		r.Applied = append(r.Applied, RuleThemeSubject)
	}

	if o.ThemeRewriteBase == "" && o.AuthorRewriteBase == "" {
		o.AuthorRewriteBase = DefaultAuthorRewriteBase
		r.Applied = append(r.Applied, RuleThemeAuthor)
	}

	if o.SubjectRewriteBase == "" && o.AuthorRewriteBase == "" {
		o.AuthorRewriteBase = DefaultAuthorRewriteBase
		r.Applied = append(r.Applied, RuleSubjectAuthor)
	}

	return r
}

func text(raw string, m Markup, fallback string) string {
	var v string
	if coerce.Truthy(raw) {
		v = m.StripTags(raw)
	}
	if v == "" {
		return fallback
	}
	return v
}

// slug falls back only when nothing was submitted. A submitted value that
// strips down to "" stays "", so "/" puts the section at the bare base.
func slug(raw string, m Markup, fallback string) string {
	if !coerce.Truthy(raw) {
		return fallback
	}
	return strings.Trim(m.StripTags(raw), "/")
}

func enum(in Settings, key string, m Markup, fallback string) string {
	if !in.Has(key) {
		return fallback
	}
	return m.StripTags(in.Get(key))
}

type rawMarkup struct{}

func (rawMarkup) StripTags(s string) string  { return s }
func (rawMarkup) FilterPost(s string) string { return s }
