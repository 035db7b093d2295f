package parser

import (
	"encoding/xml"
	"fmt"
)

// loadTemplate reads and caches a .tx object template, resolved relative
// to the map file. The cached form is the raw object node; each
// referencing object merges it fresh so per-object overrides never leak
// back into the template.
func (m *Map) loadTemplate(source string) (*templateDocument, error) {
	if tmpl, ok := m.templates[source]; ok {
		return tmpl, nil
	}

	data, err := m.readRelative(source)
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", source, err)
	}
	var doc templateDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse template %q: %w", source, err)
	}
	if doc.Object == nil {
		return nil, fmt.Errorf("template %q has no object", source)
	}

	if m.templates == nil {
		m.templates = make(map[string]*templateDocument)
	}
	m.templates[source] = &doc
	return &doc, nil
}

// mergeTemplateObject overlays an object node onto its template: the
// template supplies defaults, the node's own attributes win, and the
// shape comes from the node when it declares one, else from the template.
// The returned node is a fresh value; neither input is modified.
func mergeTemplateObject(node *objectNode, tmpl *templateDocument) *objectNode {
	merged := *tmpl.Object
	merged.Template = node.Template

	merged.ID = node.ID
	if node.Name != "" {
		merged.Name = node.Name
	}
	if node.Type != "" {
		merged.Type = node.Type
	}
	if node.Class != "" {
		merged.Class = node.Class
	}
	merged.X = node.X
	merged.Y = node.Y
	if node.Width != 0 {
		merged.Width = node.Width
	}
	if node.Height != 0 {
		merged.Height = node.Height
	}
	if node.Rotation != 0 {
		merged.Rotation = node.Rotation
	}
	if node.GID != 0 {
		merged.GID = node.GID
	}
	if node.Visible != "" {
		merged.Visible = node.Visible
	}

	// Properties: template values first, node values override by name.
	if len(node.Properties) > 0 {
		byName := make(map[string]int, len(merged.Properties))
		for i, p := range merged.Properties {
			byName[p.Name] = i
		}
		props := append([]propertyNode(nil), merged.Properties...)
		for _, p := range node.Properties {
			if i, ok := byName[p.Name]; ok {
				props[i] = p
			} else {
				props = append(props, p)
			}
		}
		merged.Properties = props
	}

	if node.Polygon != nil || node.Polyline != nil || node.Ellipse != nil || node.Point != nil || node.Text != nil {
		merged.Polygon = node.Polygon
		merged.Polyline = node.Polyline
		merged.Ellipse = node.Ellipse
		merged.Point = node.Point
		merged.Text = node.Text
	}
	return &merged
}
