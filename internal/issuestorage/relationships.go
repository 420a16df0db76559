package issuestorage

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Relationship is one named list of related issue IDs.
type Relationship struct {
	Name string
	IDs  []ID
}

// Relationships maps relationship names to ID lists. Entries keep their
// insertion order, which is also the order written to meta.yaml.
type Relationships []Relationship

// Get returns the IDs stored under name and whether the name is present.
func (r Relationships) Get(name string) ([]ID, bool) {
	for _, rel := range r {
		if rel.Name == name {
			return rel.IDs, true
		}
	}
	return nil, false
}

// Contains reports whether id is listed under name.
func (r Relationships) Contains(name string, id ID) bool {
	ids, _ := r.Get(name)
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Names returns the present relationship names in order.
func (r Relationships) Names() []string {
	names := make([]string, len(r))
	for i, rel := range r {
		names[i] = rel.Name
	}
	return names
}

// Set replaces the list under name, appending a new entry if absent.
func (r *Relationships) Set(name string, ids []ID) {
	for i := range *r {
		if (*r)[i].Name == name {
			(*r)[i].IDs = ids
			return
		}
	}
	*r = append(*r, Relationship{Name: name, IDs: ids})
}

// Delete removes the entry for name, if any.
func (r *Relationships) Delete(name string) {
	for i := range *r {
		if (*r)[i].Name == name {
			*r = append((*r)[:i], (*r)[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy.
func (r Relationships) Clone() Relationships {
	if r == nil {
		return nil
	}
	c := make(Relationships, len(r))
	for i, rel := range r {
		c[i] = Relationship{Name: rel.Name, IDs: append([]ID(nil), rel.IDs...)}
	}
	return c
}

// MarshalYAML writes the relationships as an ordered mapping.
func (r Relationships) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, rel := range r {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rel.Name}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, id := range rel.IDs {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: id.String()})
		}
		node.Content = append(node.Content, key, seq)
	}
	return node, nil
}

// UnmarshalYAML reads an ordered mapping of name to ID list.
// A null list is read as an empty list.
func (r *Relationships) UnmarshalYAML(value *yaml.Node) error {
	*r = nil
	if value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("relationships must be a mapping, line %d", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var ids []ID
		if v := value.Content[i+1]; v.Tag != "!!null" {
			if err := v.Decode(&ids); err != nil {
				return fmt.Errorf("relationship %q: %w", name, err)
			}
		}
		if _, dup := r.Get(name); dup {
			return fmt.Errorf("relationship %q listed twice, line %d", name, value.Content[i].Line)
		}
		r.Set(name, ids)
	}
	return nil
}
