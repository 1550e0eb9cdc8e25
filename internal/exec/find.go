package exec

import (
	"github.com/hvuhsg/mongolite/internal/filter"
)

// find builds a Cursor over cmd's filter, projecting each document through
// cmd.Fields and stopping after one document when cmd.Many is false
// (spec §4.6, "find_one" is "find" with many=false rather than a
// separate operation).
func (e *Engine) find(cmd Command) *Cursor {
	next := e.iterFiltered(cmd.DatabaseName, cmd.CollectionName, cmd.Filter, true)
	returned := 0

	return newCursor(func() ([]map[string]any, error) {
		if !cmd.Many && returned > 0 {
			return nil, nil
		}
		docs, err := next()
		if err != nil {
			return nil, err
		}
		out := make([]map[string]any, 0, len(docs))
		for _, d := range docs {
			if !cmd.Many && returned > 0 {
				break
			}
			out = append(out, filter.Project(d.data, cmd.Fields))
			returned++
		}
		return out, nil
	})
}
