package query

import (
	"fmt"
	"strings"
)

// kind selects the matching, ordering and rendering rules of a field.
type kind int

const (
	kindID kind = iota
	kindText
	kindUser
	kindLabels
	kindPriority
	kindDate
	kindTimestamp
	kindRelationship
	kindDescription
)

// orderable reports whether Gt and Lt are defined for the kind.
func (k kind) orderable() bool {
	switch k {
	case kindID, kindPriority, kindDate, kindTimestamp:
		return true
	}
	return false
}

type field struct {
	name string
	kind kind
}

// Field names of the issue record, in column order. Relationship types are
// inserted between due_date and created.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldState       = "state"
	FieldType        = "type"
	FieldLabels      = "labels"
	FieldReporter    = "reporter"
	FieldAssignee    = "assignee"
	FieldPriority    = "priority"
	FieldDueDate     = "due_date"
	FieldCreated     = "created"
	FieldUpdated     = "updated"
	FieldDescription = "description"
)

var leadingFields = []field{
	{FieldID, kindID},
	{FieldTitle, kindText},
	{FieldState, kindText},
	{FieldType, kindText},
	{FieldLabels, kindLabels},
	{FieldReporter, kindUser},
	{FieldAssignee, kindUser},
	{FieldPriority, kindPriority},
	{FieldDueDate, kindDate},
}

var trailingFields = []field{
	{FieldCreated, kindTimestamp},
	{FieldUpdated, kindTimestamp},
}

var aliases = map[string]string{
	"due-date": FieldDueDate,
}

// registry is the set of fields known for one query, built from the
// configured relationship types.
type registry struct {
	columns []field
	byName  map[string]field
}

func newRegistry(relationships []string) *registry {
	r := &registry{byName: make(map[string]field)}
	add := func(f field) {
		r.columns = append(r.columns, f)
		r.byName[f.name] = f
	}
	for _, f := range leadingFields {
		add(f)
	}
	for _, name := range relationships {
		add(field{name, kindRelationship})
	}
	for _, f := range trailingFields {
		add(f)
	}
	r.byName[FieldDescription] = field{FieldDescription, kindDescription}
	return r
}

// names returns every column name in order.
func (r *registry) names() []string {
	names := make([]string, len(r.columns))
	for i, f := range r.columns {
		names[i] = f.name
	}
	return names
}

// normalize trims name and maps aliases to their canonical field name.
func normalize(name string) string {
	name = strings.TrimSpace(name)
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// lookup resolves name for the given origin. The description pseudo-field is
// only accepted in filters.
func (r *registry) lookup(name, origin string) (field, error) {
	f, ok := r.byName[normalize(name)]
	if !ok {
		return field{}, fmt.Errorf("%w: %s: unknown field %q (valid: %s)",
			ErrInvalidField, origin, name, strings.Join(r.names(), ", "))
	}
	if f.kind == kindDescription && origin != ContextFilter {
		return field{}, fmt.Errorf("%w: %s: %q can only be used in --filter", ErrInvalidField, origin, name)
	}
	return f, nil
}

// FieldNames returns every column name known for the given relationship
// types, in column order.
func FieldNames(relationships []string) []string {
	return newRegistry(relationships).names()
}
