// Package settings provides value types for the global plugin settings.
// Settings are submitted as one flat form, validated as a whole and stored
// as a single blob.
package settings

import (
	"strconv"
	"time"
)

// OptionName is the key the validated settings blob is stored under.
const OptionName = "thds_settings"

// Setting is a stored settings blob (immutable value type).
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Settings is a flat map of setting key to raw value.
// An absent key is distinct from an empty value.
type Settings map[string]string

// Get returns a setting value or empty string if not found.
func (s Settings) Get(key string) string {
	return s[key]
}

// Has reports whether key was submitted at all.
func (s Settings) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Known setting keys, grouped by settings section.
const (
	// General
	KeyMenuTitle          = "menu_title"
	KeyArchiveTitle       = "archive_title"
	KeyArchiveDescription = "archive_description"

	// Reading
	KeyThemesPerPage = "themes_per_page"
	KeyThemesOrderby = "themes_orderby"
	KeyThemesOrder   = "themes_order"

	// Integration
	KeyWporgIntegration = "wporg_integration"
	KeyWporgTransient   = "wporg_transient"

	// Permalinks
	KeyRewriteBase             = "rewrite_base"
	KeyThemeRewriteBase        = "theme_rewrite_base"
	KeySubjectRewriteBase      = "subject_rewrite_base"
	KeyFeatureRewriteBase      = "feature_rewrite_base"
	KeyPopularThemeRewriteBase = "popular_theme_rewrite_base"
	KeyAuthorRewriteBase       = "author_rewrite_base"
)

// Keys returns every known key in settings-screen order.
func Keys() []string {
	return []string{
		KeyMenuTitle,
		KeyArchiveTitle,
		KeyArchiveDescription,
		KeyThemesPerPage,
		KeyThemesOrderby,
		KeyThemesOrder,
		KeyWporgIntegration,
		KeyWporgTransient,
		KeyRewriteBase,
		KeyThemeRewriteBase,
		KeySubjectRewriteBase,
		KeyFeatureRewriteBase,
		KeyPopularThemeRewriteBase,
		KeyAuthorRewriteBase,
	}
}

// IsKnown returns true if key is one of Keys.
func IsKnown(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Options is the validated, typed form of the settings.
type Options struct {
	MenuTitle          string `json:"menu_title"`
	ArchiveTitle       string `json:"archive_title"`
	ArchiveDescription string `json:"archive_description"`

	ThemesPerPage int    `json:"themes_per_page"`
	ThemesOrderby string `json:"themes_orderby"`
	ThemesOrder   string `json:"themes_order"`

	WporgIntegration bool   `json:"wporg_integration"`
	WporgTransient   uint64 `json:"wporg_transient"`

	RewriteBase             string `json:"rewrite_base"`
	ThemeRewriteBase        string `json:"theme_rewrite_base"`
	SubjectRewriteBase      string `json:"subject_rewrite_base"`
	FeatureRewriteBase      string `json:"feature_rewrite_base"`
	PopularThemeRewriteBase string `json:"popular_theme_rewrite_base"`
	AuthorRewriteBase       string `json:"author_rewrite_base"`
}

// Defaults returns the options in effect before settings are first saved.
func Defaults() Options {
	return Options{
		MenuTitle:               DefaultTitle,
		ArchiveTitle:            DefaultTitle,
		ThemesPerPage:           DefaultThemesPerPage,
		ThemesOrderby:           DefaultOrderby,
		ThemesOrder:             DefaultOrder,
		WporgTransient:          DefaultWporgTransient,
		RewriteBase:             DefaultRewriteBase,
		SubjectRewriteBase:      DefaultSubjectRewriteBase,
		FeatureRewriteBase:      DefaultFeatureRewriteBase,
		PopularThemeRewriteBase: DefaultPopularRewriteBase,
		AuthorRewriteBase:       DefaultAuthorRewriteBase,
	}
}

// Map flattens the options into a Settings map. Booleans encode as "1"/"0"
// so the result can be submitted to Validate again unchanged.
func (o Options) Map() Settings {
	integration := "0"
	if o.WporgIntegration {
		integration = "1"
	}
	return Settings{
		KeyMenuTitle:               o.MenuTitle,
		KeyArchiveTitle:            o.ArchiveTitle,
		KeyArchiveDescription:      o.ArchiveDescription,
		KeyThemesPerPage:           strconv.Itoa(o.ThemesPerPage),
		KeyThemesOrderby:           o.ThemesOrderby,
		KeyThemesOrder:             o.ThemesOrder,
		KeyWporgIntegration:        integration,
		KeyWporgTransient:          strconv.FormatUint(o.WporgTransient, 10),
		KeyRewriteBase:             o.RewriteBase,
		KeyThemeRewriteBase:        o.ThemeRewriteBase,
		KeySubjectRewriteBase:      o.SubjectRewriteBase,
		KeyFeatureRewriteBase:      o.FeatureRewriteBase,
		KeyPopularThemeRewriteBase: o.PopularThemeRewriteBase,
		KeyAuthorRewriteBase:       o.AuthorRewriteBase,
	}
}

// Permalinks returns the URL path prefix of each catalogue section.
// Sections whose slug is empty live directly under the rewrite base.
func (o Options) Permalinks() map[string]string {
	return map[string]string{
		"archive": o.permalink(""),
		"theme":   o.permalink(o.ThemeRewriteBase),
		"subject": o.permalink(o.SubjectRewriteBase),
		"feature": o.permalink(o.FeatureRewriteBase),
		"popular": o.permalink(o.PopularThemeRewriteBase),
		"author":  o.permalink(o.AuthorRewriteBase),
	}
}

func (o Options) permalink(segment string) string {
	p := "/" + o.RewriteBase + "/"
	if segment != "" {
		p += segment + "/"
	}
	return p
}
