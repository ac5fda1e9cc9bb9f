package field

// Change is the write a save performs for one setting.
type Change int

const (
	ChangeNone Change = iota
	ChangeSet
	ChangeDelete
)

// String returns the change name used in logs and metric labels.
func (c Change) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	default:
		return "none"
	}
}

// MarshalText encodes the change by name.
func (c Change) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a change name. Unknown names decode as ChangeNone.
func (c *Change) UnmarshalText(b []byte) error {
	switch string(b) {
	case "set":
		*c = ChangeSet
	case "delete":
		*c = ChangeDelete
	default:
		*c = ChangeNone
	}
	return nil
}

// Decide compares a resolved value with the stored one.
// Clearing a stored value deletes it, so an unset field is absent rather than
// stored as "". Equal values need no write.
func Decide(oldValue, newValue string) Change {
	if newValue == "" && oldValue != "" {
		return ChangeDelete
	}
	if newValue != oldValue {
		return ChangeSet
	}
	return ChangeNone
}

// Result reports what saving one setting did.
type Result struct {
	Name   string `json:"name"`
	Change Change `json:"change"`
	Value  string `json:"value"`
}
