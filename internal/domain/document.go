package domain

import "github.com/google/uuid"

// UserString is a single key/value pair attached to an object's attributes.
type UserString struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Attributes carries the per-object metadata stored next to the geometry.
//
// User strings keep insertion order; setting an existing key replaces its value
// in place.
type Attributes struct {
	ID          uuid.UUID
	userStrings []UserString
}

func (a *Attributes) SetUserString(key, value string) {
	for i := range a.userStrings {
		if a.userStrings[i].Key == key {
			a.userStrings[i].Value = value
			return
		}
	}
	a.userStrings = append(a.userStrings, UserString{Key: key, Value: value})
}

// UserStrings returns a copy; never nil.
func (a Attributes) UserStrings() []UserString {
	out := make([]UserString, len(a.userStrings))
	copy(out, a.userStrings)
	return out
}

// ObjectRecord is one entry of a document's object table.
type ObjectRecord struct {
	Geometry   Geometry
	Attributes Attributes
}

// ObjectTable is the ordered collection of objects inside a Document.
type ObjectTable struct {
	items []ObjectRecord
}

func (t *ObjectTable) Count() int {
	return len(t.items)
}

// Get returns the object at index i in table order.
func (t *ObjectTable) Get(i int) (ObjectRecord, bool) {
	if i < 0 || i >= len(t.items) {
		return ObjectRecord{}, false
	}
	return t.items[i], true
}

// Add appends an object and returns its index. A nil attrs adds the object
// with empty attributes.
func (t *ObjectTable) Add(g Geometry, attrs *Attributes) int {
	rec := ObjectRecord{Geometry: g}
	if attrs != nil {
		rec.Attributes = Attributes{
			ID:          attrs.ID,
			userStrings: attrs.UserStrings(),
		}
	}
	t.items = append(t.items, rec)
	return len(t.items) - 1
}

// Document is an in-memory container of geometric objects and their
// attributes. Each export or import owns a fresh Document.
type Document struct {
	objects ObjectTable
}

func NewDocument() *Document {
	return &Document{}
}

func (d *Document) Objects() *ObjectTable {
	return &d.objects
}
