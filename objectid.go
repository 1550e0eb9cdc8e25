package mongolite

import "github.com/google/uuid"

// ObjectId identifies a document (spec §4.8). It wraps a plain string so
// that it orders and compares the way original_source's objectid.py does
// against either another ObjectId or a bare string.
type ObjectId string

// NewObjectId mints a fresh id backed by a random UUID.
func NewObjectId() ObjectId {
	return ObjectId(uuid.NewString())
}

// String returns the id's string form.
func (id ObjectId) String() string {
	return string(id)
}

// Equal reports whether id and other name the same document, comparing
// against either an ObjectId or a plain string.
func (id ObjectId) Equal(other any) bool {
	switch v := other.(type) {
	case ObjectId:
		return id == v
	case string:
		return string(id) == v
	default:
		return false
	}
}

// Less reports whether id sorts before other (ObjectId or string).
func (id ObjectId) Less(other any) bool {
	switch v := other.(type) {
	case ObjectId:
		return id < v
	case string:
		return string(id) < v
	default:
		return false
	}
}
