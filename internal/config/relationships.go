package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RelationshipType is one configured relationship. Link names the inverse
// type written onto the linked issue; it is empty for one-directional types
// and equal to Name for symmetric ones.
type RelationshipType struct {
	Name string
	Link string
}

// Paired reports whether links of this type are mirrored onto targets.
func (r RelationshipType) Paired() bool {
	return r.Link != ""
}

// Symmetric reports whether the type is its own inverse.
func (r RelationshipType) Symmetric() bool {
	return r.Link == r.Name
}

// RelationshipTypes is the ordered relationship section of config.yaml.
type RelationshipTypes []RelationshipType

// Lookup returns the relationship type called name.
func (r RelationshipTypes) Lookup(name string) (RelationshipType, bool) {
	for _, rel := range r {
		if rel.Name == name {
			return rel, true
		}
	}
	return RelationshipType{}, false
}

// Names returns the configured relationship names in config order.
func (r RelationshipTypes) Names() []string {
	names := make([]string, len(r))
	for i, rel := range r {
		names[i] = rel.Name
	}
	return names
}

type relationshipBody struct {
	Link string `yaml:"link,omitempty"`
}

// MarshalYAML writes the types as an ordered mapping of name to {link}.
func (r RelationshipTypes) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, rel := range r {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rel.Name}
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}
		if rel.Link != "" {
			value = &yaml.Node{}
			if err := value.Encode(relationshipBody{Link: rel.Link}); err != nil {
				return nil, err
			}
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// UnmarshalYAML reads an ordered mapping of name to {link} or null.
func (r *RelationshipTypes) UnmarshalYAML(value *yaml.Node) error {
	*r = nil
	if value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("relationships must be a mapping, line %d", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		if _, dup := r.Lookup(name); dup {
			return fmt.Errorf("relationship %q defined twice, line %d", name, value.Content[i].Line)
		}
		var body relationshipBody
		if v := value.Content[i+1]; v.Tag != "!!null" {
			if err := v.Decode(&body); err != nil {
				return fmt.Errorf("relationship %q: %w", name, err)
			}
		}
		*r = append(*r, RelationshipType{Name: name, Link: body.Link})
	}
	return nil
}
