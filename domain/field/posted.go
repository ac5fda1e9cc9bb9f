package field

import "net/url"

// Posted is the raw input of one form submission, keyed by input name.
type Posted map[string]string

// FromValues converts decoded form values, keeping the first value per key.
func FromValues(v url.Values) Posted {
	p := make(Posted, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			p[k] = vals[0]
		}
	}
	return p
}

// Get returns the posted value for key.
func (p Posted) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}
