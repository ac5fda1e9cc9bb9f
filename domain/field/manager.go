package field

import (
	"fmt"
	"strings"
)

// DefaultNamespace prefixes every posted input key.
const DefaultNamespace = "thds"

// Manager owns the settings of one record type.
// Settings keep their registration order.
type Manager struct {
	namespace string
	name      string
	settings  []Setting
	index     map[string]Setting
}

// NewManager creates an empty manager. An empty namespace uses DefaultNamespace.
func NewManager(namespace, name string) *Manager {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Manager{
		namespace: namespace,
		name:      name,
		index:     make(map[string]Setting),
	}
}

// Name returns the manager name.
func (m *Manager) Name() string { return m.name }

// Namespace returns the input key prefix.
func (m *Manager) Namespace() string { return m.namespace }

// Key returns the posted input name for a field:
// "<namespace>_<manager>_setting_<field>", with "_<suffix>" appended per suffix.
func (m *Manager) Key(fieldName string, suffix ...string) string {
	var b strings.Builder
	b.WriteString(m.namespace)
	b.WriteString("_")
	b.WriteString(m.name)
	b.WriteString("_setting_")
	b.WriteString(fieldName)
	for _, s := range suffix {
		b.WriteString("_")
		b.WriteString(s)
	}
	return b.String()
}

// Register creates a setting of the given kind and adds it to the manager.
func (m *Manager) Register(kind Kind, name string, args Args) (Setting, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, exists := m.index[name]; exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrDuplicate, m.name, name)
	}

	var s Setting
	switch kind {
	case KindText, "":
		s = New(m, name, args)
	case KindDate:
		s = NewDate(m, name, args)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	m.settings = append(m.settings, s)
	m.index[name] = s
	return s, nil
}

// Setting returns a registered setting by name.
func (m *Manager) Setting(name string) (Setting, bool) {
	s, ok := m.index[name]
	return s, ok
}

// Settings returns the registered settings in registration order.
func (m *Manager) Settings() []Setting {
	out := make([]Setting, len(m.settings))
	copy(out, m.settings)
	return out
}

// Registry indexes managers by name.
type Registry struct {
	order    []string
	managers map[string]*Manager
}

// NewRegistry creates a registry holding the given managers.
func NewRegistry(managers ...*Manager) (*Registry, error) {
	r := &Registry{managers: make(map[string]*Manager)}
	for _, m := range managers {
		if err := r.Add(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a manager. Manager names are unique.
func (r *Registry) Add(m *Manager) error {
	if m.name == "" {
		return ErrEmptyName
	}
	if _, exists := r.managers[m.name]; exists {
		return fmt.Errorf("%w: manager %s", ErrDuplicate, m.name)
	}
	r.managers[m.name] = m
	r.order = append(r.order, m.name)
	return nil
}

// Get returns the manager called name.
func (r *Registry) Get(name string) (*Manager, error) {
	m, ok := r.managers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownManager, name)
	}
	return m, nil
}

// List returns managers in insertion order.
func (r *Registry) List() []*Manager {
	out := make([]*Manager, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.managers[name])
	}
	return out
}
