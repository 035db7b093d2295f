package parser

import (
	"strconv"
	"strings"
)

// Properties is a Tiled custom property bag. Values are already cast per
// the property's declared type: string, int, float64, bool, or a nested
// Properties for class properties. Color and file properties stay strings.
type Properties map[string]any

// GetString returns a string property.
func (p Properties) GetString(name string) (string, bool) {
	v, ok := p[name].(string)
	return v, ok
}

// GetInt returns an int property.
func (p Properties) GetInt(name string) (int, bool) {
	v, ok := p[name].(int)
	return v, ok
}

// GetFloat returns a float property.
func (p Properties) GetFloat(name string) (float64, bool) {
	v, ok := p[name].(float64)
	return v, ok
}

// GetBool returns a bool property.
func (p Properties) GetBool(name string) (bool, bool) {
	v, ok := p[name].(bool)
	return v, ok
}

// parseProperties casts a <properties> block into a typed bag. A value
// that fails to parse under its declared type is an error; corrupt
// numerics are never silently defaulted.
func parseProperties(nodes []propertyNode) (Properties, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	props := make(Properties, len(nodes))
	for _, node := range nodes {
		value, err := castProperty(node)
		if err != nil {
			return nil, err
		}
		props[node.Name] = value
	}
	return props, nil
}

func castProperty(node propertyNode) (any, error) {
	// Multiline strings live in the element body instead of the value
	// attribute.
	raw := node.Value
	if raw == "" {
		raw = node.Text
	}

	switch node.Type {
	case "", "string", "color", "file":
		return raw, nil
	case "int", "object":
		if raw == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &ErrInvalidProperty{Name: node.Name, Type: node.Type, Value: raw, Err: err}
		}
		return v, nil
	case "float":
		if raw == "" {
			return 0.0, nil
		}
		v, err := parseFloat(raw)
		if err != nil {
			return nil, &ErrInvalidProperty{Name: node.Name, Type: node.Type, Value: raw, Err: err}
		}
		return v, nil
	case "bool":
		return raw == "true" || raw == "1", nil
	case "class":
		return parseProperties(node.Properties)
	default:
		// Forward compatible: unknown property types pass through as text.
		return raw, nil
	}
}

// merged returns a copy of base overlaid with overlay. Either side may be
// nil; the result is nil only when both are.
func (p Properties) merged(overlay Properties) Properties {
	if p == nil && overlay == nil {
		return nil
	}
	out := make(Properties, len(p)+len(overlay))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
