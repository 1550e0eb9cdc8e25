package mongolite

// M is the document, filter, projection, and update-operator shape used
// throughout the public API: a JSON object decoded to Go's dynamic map
// type. Nested documents and arrays are map[string]any and []any.
type M = map[string]any

// idOf extracts "_id" from a document as an ObjectId, if present.
func idOf(doc M) (ObjectId, bool) {
	v, ok := doc["_id"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return ObjectId(s), true
}
