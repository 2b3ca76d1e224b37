package models

// Entity describes one managed collection: its storage table, the columns it
// carries, and the per-entity knobs the generic service needs. The two
// registered schemas differ only in these field lists; all control flow is
// shared.
type Entity struct {
	// Name is the singular entity name used in messages and filenames.
	Name string
	// Plural names the route segment and collection filenames.
	Plural string
	// Table is the backing relation.
	Table string
	// Columns lists every column, id first.
	Columns []string
	// Required columns must be present in a create payload.
	Required []string
	// Searchable columns participate in the OR'd contains filter.
	Searchable []string
	// ListColumns is the default projection for paginated listings.
	ListColumns []string
	// ExportColumns is the default projection for exports.
	ExportColumns []string
	// ReferenceColumns hold weak references normalized on every write.
	ReferenceColumns []string
	// CopyLabelField gets " (Copy)" appended when a record is cloned.
	CopyLabelField string
	// CopySuffixFields get "-copy" appended when a record is cloned, to keep
	// downstream consumers from colliding on values the store never enforces.
	CopySuffixFields []string
}

// HasColumn reports whether the schema carries the column.
func (e Entity) HasColumn(name string) bool {
	for _, col := range e.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// IsReference reports whether the column is a weak reference.
func (e Entity) IsReference(name string) bool {
	for _, col := range e.ReferenceColumns {
		if col == name {
			return true
		}
	}
	return false
}

// ClassEntity is the schema for academic classes.
var ClassEntity = Entity{
	Name:           "class",
	Plural:         "classes",
	Table:          "classes",
	Columns:        []string{"id", "code", "name", "description"},
	Required:       []string{"name", "description", "code"},
	Searchable:     []string{"name", "description", "code", "id"},
	ListColumns:    []string{"id", "code", "name", "description"},
	ExportColumns:  []string{"id", "code", "name", "description"},
	CopyLabelField: "name",
}

// StudentEntity is the schema for students. class_id is a weak reference to a
// class: deleting a class leaves referencing students with a dangling id.
var StudentEntity = Entity{
	Name:   "student",
	Plural: "students",
	Table:  "students",
	Columns: []string{
		"id", "code", "fullname", "dob", "sex", "email", "address",
		"homecity", "phone", "class_id", "username", "password", "attachment",
	},
	Required: []string{
		"fullname", "dob", "code", "username", "password", "class_id",
		"sex", "email", "address", "homecity", "phone",
	},
	Searchable:       []string{"fullname", "dob", "code", "id"},
	ListColumns:      []string{"id", "code", "fullname", "dob", "class_id", "email", "phone"},
	ExportColumns:    []string{"id", "code", "fullname", "dob", "email", "phone"},
	ReferenceColumns: []string{"class_id"},
	CopyLabelField:   "fullname",
	CopySuffixFields: []string{"username"},
}
