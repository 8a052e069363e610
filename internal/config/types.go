package config

import "encoding/json"

// Secret holds a credential that must never be printed or logged
type Secret string

// String implements fmt.Stringer
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// Value returns the raw secret
func (s Secret) Value() string {
	return string(s)
}

// IsSet reports whether a value was configured
func (s Secret) IsSet() bool {
	return s != ""
}

// MarshalJSON always redacts
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
