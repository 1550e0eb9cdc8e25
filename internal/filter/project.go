package filter

// Project applies a projection map to doc (spec §4.5). The projection's
// mode — inclusion or exclusion — is inferred from the first key-value
// pair encountered, per original_source's update_with_fields; since Go
// map iteration order is unspecified, mongolite instead decides the mode
// from the whole map: a projection whose entries other than "_id" are all
// falsy is an exclusion projection; any truthy entry other than "_id"
// makes it an inclusion projection, and its falsy entries are ignored.
// Mixed projections are not rejected.
// An empty or nil projection returns doc unchanged.
func Project(doc map[string]any, projection map[string]any) map[string]any {
	if len(projection) == 0 {
		return doc
	}

	exclusion := isExclusionProjection(projection)

	if exclusion {
		out := make(map[string]any, len(doc))
		for k, v := range doc {
			out[k] = v
		}
		for field, include := range projection {
			if !truthy(include) {
				delete(out, field)
			}
		}
		return out
	}

	out := map[string]any{}
	for field, include := range projection {
		if !truthy(include) {
			continue
		}
		if v, ok := doc[field]; ok {
			out[field] = v
		}
	}
	return out
}

// isExclusionProjection reports whether projection is an exclusion
// projection: every entry other than "_id" is falsy.
func isExclusionProjection(projection map[string]any) bool {
	for field, include := range projection {
		if field == "_id" {
			continue
		}
		if truthy(include) {
			return false
		}
	}
	return true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return v != nil
	}
}
