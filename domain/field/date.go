package field

import "github.com/artpar/themedesigner/pkg/coerce"

// Date is a setting assembled from year, month and day inputs.
type Date struct {
	*Base
}

// NewDate creates a date setting owned by m.
func NewDate(m *Manager, name string, args Args) *Date {
	return &Date{Base: New(m, name, args)}
}

// Kind returns KindDate.
func (d *Date) Kind() Kind { return KindDate }

// dateParts are the input suffixes read by a date setting, in key order.
var dateParts = []string{"year", "month", "day"}

// Inputs returns the year, month and day keys.
func (d *Date) Inputs() []string {
	out := make([]string, len(dateParts))
	for i, part := range dateParts {
		out[i] = d.manager.Key(d.name, part)
	}
	return out
}

// PostedValue assembles "YYYY-MM-DD 00:00:00" from the posted parts.
// Partial dates resolve to "". The sanitizer is not applied: assembling the
// date already normalizes it.
func (d *Date) PostedValue(p Posted) string {
	year := d.part(p, "year", 4)
	month := d.part(p, "month", 2)
	day := d.part(p, "day", 2)

	if year == "" || month == "" || day == "" {
		return ""
	}
	return year + "-" + month + "-" + day + " 00:00:00"
}

func (d *Date) part(p Posted, suffix string, width int) string {
	raw, _ := p.Get(d.manager.Key(d.name, suffix))
	if !coerce.Truthy(raw) {
		return ""
	}
	return coerce.Zeroise(coerce.Absint(raw), width)
}

var _ Setting = (*Date)(nil)
