// Package field provides value types for per-record settings.
// A Manager groups named settings under one namespace; each setting resolves
// its posted value and sanitizes it before the persistence layer compares it
// with what is stored.
package field

import "errors"

// Errors returned by managers and the argument builder.
var (
	ErrDuplicate        = errors.New("field: duplicate setting name")
	ErrUnknownKind      = errors.New("field: unknown setting kind")
	ErrUnknownManager   = errors.New("field: unknown manager")
	ErrUnknownSanitizer = errors.New("field: unknown sanitizer")
	ErrEmptyName        = errors.New("field: empty name")
)

// Kind selects how a setting reads its posted value.
type Kind string

const (
	KindText Kind = "text"
	KindDate Kind = "date"
)

// SanitizeFunc normalizes a raw posted value. The owning setting is passed
// along for context.
type SanitizeFunc func(value string, s Setting) string

// Setting is a single named field of a manager.
type Setting interface {
	Name() string
	Kind() Kind
	Manager() *Manager
	Default() string
	Label() string
	Description() string

	// Inputs lists the posted keys PostedValue reads.
	Inputs() []string

	// HookID identifies the setting's sanitizer, scoped by manager and field.
	HookID() string

	// PostedValue resolves the value submitted for this setting.
	PostedValue(p Posted) string

	// Sanitize runs the configured sanitizer, or returns value unchanged.
	Sanitize(value string) string
}

// Base is a setting backed by a single posted input.
type Base struct {
	manager     *Manager
	name        string
	label       string
	description string
	def         string
	sanitize    SanitizeFunc
}

// New creates a single-input setting owned by m.
func New(m *Manager, name string, args Args) *Base {
	return &Base{
		manager:     m,
		name:        name,
		label:       args.Label,
		description: args.Description,
		def:         args.Default,
		sanitize:    args.Sanitize,
	}
}

func (b *Base) Name() string        { return b.name }
func (b *Base) Kind() Kind          { return KindText }
func (b *Base) Manager() *Manager   { return b.manager }
func (b *Base) Default() string     { return b.def }
func (b *Base) Description() string { return b.description }

// Label returns the display label, falling back to the name.
func (b *Base) Label() string {
	if b.label == "" {
		return b.name
	}
	return b.label
}

// Inputs returns the setting's single posted key.
func (b *Base) Inputs() []string {
	return []string{b.manager.Key(b.name)}
}

// HookID returns "sanitize.<manager>.<field>".
func (b *Base) HookID() string {
	return "sanitize." + b.manager.Name() + "." + b.name
}

// PostedValue reads the setting's key from p and sanitizes it.
// A missing key resolves to "".
func (b *Base) PostedValue(p Posted) string {
	value, _ := p.Get(b.manager.Key(b.name))
	return b.Sanitize(value)
}

// Sanitize applies the configured sanitizer.
func (b *Base) Sanitize(value string) string {
	if b.sanitize == nil {
		return value
	}
	return b.sanitize(value, b)
}

var _ Setting = (*Base)(nil)
