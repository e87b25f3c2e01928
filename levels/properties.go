package levels

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Property is a custom Tiled property. Value holds whatever JSON produced:
// string, float64 or bool.
type Property struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value any    `json:"value"`
}

type Properties []Property

// Get returns the raw value of the named property.
func (p Properties) Get(name string) (any, bool) {
	for _, prop := range p {
		if strings.EqualFold(prop.Name, name) {
			return prop.Value, true
		}
	}
	return nil, false
}

// String returns the named property formatted as a string.
func (p Properties) String(name string) (string, bool) {
	v, ok := p.Get(name)
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return fmt.Sprint(t), true
	}
}

// Int returns the named property as an int. Strings are parsed; fractional
// numbers are truncated. The error is non-nil when the property exists but
// cannot be read as a number.
func (p Properties) Int(name string) (int, bool, error) {
	v, ok := p.Get(name)
	if !ok || v == nil {
		return 0, false, nil
	}
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, true, fmt.Errorf("levels: property %s: not a finite number", name)
		}
		return int(t), true, nil
	case int:
		return t, true, nil
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, true, fmt.Errorf("levels: property %s: %w", name, err)
		}
		return int(f), true, nil
	default:
		return 0, true, fmt.Errorf("levels: property %s: unexpected %T", name, v)
	}
}
