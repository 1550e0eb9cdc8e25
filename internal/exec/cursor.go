package exec

// Cursor is a lazy, cancellable iterator over a find's results (spec §4.7,
// component C7), ported from original_source's execution_engine/cursor.py.
// Unlike a Python generator, a Cursor here pulls one chunk at a time
// through fetch, acquiring the collection lock only for the duration of
// that fetch and releasing it before the caller consumes the chunk's
// documents (spec §9: the lock must not be held across a full find,
// otherwise a long-lived cursor could starve writers indefinitely).
type Cursor struct {
	fetch  func() ([]map[string]any, error)
	buf    []map[string]any
	i      int
	closed bool
	done   bool
	err    error
}

func newCursor(fetch func() ([]map[string]any, error)) *Cursor {
	return &Cursor{fetch: fetch}
}

// Next advances the cursor and reports whether a document was produced.
// Once Next returns false, the cursor is exhausted (or was closed, or hit
// an error retrievable via Err).
func (c *Cursor) Next() (map[string]any, bool) {
	if c.closed {
		return nil, false
	}

	for c.i >= len(c.buf) {
		if c.done {
			return nil, false
		}
		chunk, err := c.fetch()
		if err != nil {
			c.err = err
			c.done = true
			return nil, false
		}
		if len(chunk) == 0 {
			c.done = true
			return nil, false
		}
		c.buf = chunk
		c.i = 0
	}

	doc := c.buf[c.i]
	c.i++
	return doc, true
}

// Err returns the error, if any, that stopped iteration.
func (c *Cursor) Err() error {
	return c.err
}

// Close stops the cursor; subsequent Next calls return false.
func (c *Cursor) Close() {
	c.closed = true
	c.buf = nil
}

// All drains the cursor into a slice, stopping early on error.
func (c *Cursor) All() ([]map[string]any, error) {
	var out []map[string]any
	for {
		doc, ok := c.Next()
		if !ok {
			break
		}
		out = append(out, doc)
	}
	return out, c.Err()
}
