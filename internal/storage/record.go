// Record representation and tombstone discipline.
//
// Every line in a collection file is either a JSON document terminated by
// '\n', or a tombstone: the ASCII byte '0' repeated to the same byte
// length as the record it replaces, terminated by '\n'. Since serialized
// JSON objects always begin with '{' (spec §4.2), a leading '0' is an
// unambiguous dead-line marker — no parsing needed to skip it.
package storage

// Document pairs a decoded document with the byte offset ("lookup key",
// spec §3) its current line begins at in the collection file.
type Document struct {
	Data      map[string]any
	LookupKey int64
}

// isTombstone reports whether a raw line (without its trailing newline)
// is a dead record.
func isTombstone(line []byte) bool {
	return len(line) > 0 && line[0] == '0'
}

// tombstoneFor returns a same-length dead line for the given live line,
// preserving the invariant that a file offset's length never changes
// under tombstoning (spec §4.2: "overwrite in place, followed by
// newline").
func tombstoneFor(line []byte) []byte {
	dead := make([]byte, len(line))
	for i := range dead {
		dead[i] = '0'
	}
	return dead
}
