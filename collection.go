package mongolite

import (
	"strings"

	"github.com/hvuhsg/mongolite/internal/exec"
)

// validateCollectionName enforces the same name restrictions as
// original_source's collection.py, the MongoDB driver convention this
// spec's glossary inherits from: non-empty, no "..", no embedded NUL, no
// leading/trailing '.', and no '$' outside the reserved oplog/$cmd
// prefixes.
func validateCollectionName(name string) error {
	if name == "" || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	if strings.Contains(name, "$") && !strings.HasPrefix(name, "oplog.$main") && !strings.HasPrefix(name, "$cmd") {
		return ErrInvalidName
	}
	if name[0] == '.' || name[len(name)-1] == '.' {
		return ErrInvalidName
	}
	if strings.Contains(name, "\x00") {
		return ErrInvalidName
	}
	return nil
}

// Collection is a handle onto one collection within a Database (spec §6).
type Collection struct {
	db   *Database
	name string
}

// Name returns the collection's name.
func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) command(op exec.Op) exec.Command {
	return exec.Command{Op: op, DatabaseName: c.db.name, CollectionName: c.name}
}

// Drop removes this collection, returning whether it existed.
func (c *Collection) Drop() (bool, error) {
	return c.db.DropCollection(c.name)
}

// InsertOne inserts a single document, returning its assigned id.
func (c *Collection) InsertOne(doc M) (ObjectId, error) {
	ids, err := c.InsertMany([]M{doc})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// InsertMany inserts every document in docs, returning their assigned ids
// in the same order.
func (c *Collection) InsertMany(docs []M) ([]ObjectId, error) {
	cmd := c.command(exec.OpInsert)
	cmd.Documents = docs
	result, err := c.db.client.engine.Execute(cmd)
	if err != nil {
		return nil, err
	}
	raw, _ := result.([]string)
	ids := make([]ObjectId, len(raw))
	for i, s := range raw {
		ids[i] = ObjectId(s)
	}
	return ids, nil
}

// DeleteOne deletes at most one document matching filter.
func (c *Collection) DeleteOne(filter M) error {
	cmd := c.command(exec.OpDelete)
	cmd.Filter = filter
	cmd.Many = false
	_, err := c.db.client.engine.Execute(cmd)
	return err
}

// DeleteMany deletes every document matching filter.
func (c *Collection) DeleteMany(filter M) error {
	cmd := c.command(exec.OpDelete)
	cmd.Filter = filter
	cmd.Many = true
	_, err := c.db.client.engine.Execute(cmd)
	return err
}

// UpdateOne applies override to at most one document matching filter
// (spec §4.5's update operators: $set, $unset, $inc, $addToSet, $push,
// $pull).
func (c *Collection) UpdateOne(filter, override M) error {
	cmd := c.command(exec.OpUpdate)
	cmd.Filter, cmd.Override, cmd.Many = filter, override, false
	_, err := c.db.client.engine.Execute(cmd)
	return err
}

// UpdateMany applies override to every document matching filter.
func (c *Collection) UpdateMany(filter, override M) error {
	cmd := c.command(exec.OpUpdate)
	cmd.Filter, cmd.Override, cmd.Many = filter, override, true
	_, err := c.db.client.engine.Execute(cmd)
	return err
}

// ReplaceOne replaces at most one document matching filter wholesale.
// The replacement is given a freshly minted _id; the old _id no longer
// resolves afterwards.
func (c *Collection) ReplaceOne(filter, replacement M) error {
	cmd := c.command(exec.OpReplace)
	cmd.Filter, cmd.Replace, cmd.Many = filter, replacement, false
	_, err := c.db.client.engine.Execute(cmd)
	return err
}

// ReplaceMany replaces every document matching filter wholesale.
func (c *Collection) ReplaceMany(filter, replacement M) error {
	cmd := c.command(exec.OpReplace)
	cmd.Filter, cmd.Replace, cmd.Many = filter, replacement, true
	_, err := c.db.client.engine.Execute(cmd)
	return err
}

// Find returns a Cursor over every document matching filter, projected
// through fields (nil/empty means "every field").
func (c *Collection) Find(filter, fields M) (*Cursor, error) {
	cmd := c.command(exec.OpFind)
	cmd.Filter, cmd.Fields, cmd.Many = filter, fields, true
	result, err := c.db.client.engine.Execute(cmd)
	if err != nil {
		return nil, err
	}
	return &Cursor{inner: result.(*exec.Cursor)}, nil
}

// FindOne returns the first document matching filter, or nil if none
// match (spec §4.6: find_one never returns an error for "no match").
func (c *Collection) FindOne(filter, fields M) (M, error) {
	cmd := c.command(exec.OpFind)
	cmd.Filter, cmd.Fields, cmd.Many = filter, fields, false
	result, err := c.db.client.engine.Execute(cmd)
	if err != nil {
		return nil, err
	}
	cur := result.(*exec.Cursor)
	doc, ok := cur.Next()
	cur.Close()
	if !ok {
		return nil, cur.Err()
	}
	return doc, nil
}

// CreateIndex creates a secondary index on a single field, e.g.
// CreateIndex(mongolite.M{"email": 1}). Returns ErrIndexMustBeSingleField
// if index does not name exactly one field (spec §4.3).
func (c *Collection) CreateIndex(index M) (bool, error) {
	if len(index) != 1 {
		return false, ErrIndexMustBeSingleField
	}
	var field string
	for f := range index {
		field = f
	}
	cmd := c.command(exec.OpCreateIndex)
	cmd.IndexField = field
	result, err := c.db.client.engine.Execute(cmd)
	if err != nil {
		return false, err
	}
	created, _ := result.(bool)
	return created, nil
}

// DeleteIndex removes a previously created index on field.
func (c *Collection) DeleteIndex(field string) error {
	cmd := c.command(exec.OpDeleteIndex)
	cmd.IndexField = field
	_, err := c.db.client.engine.Execute(cmd)
	return err
}

// IndexDescription describes one secondary index (spec §6's getIndexes).
type IndexDescription struct {
	Field string
	Size  int
}

// Indexes lists every secondary index currently defined on c.
func (c *Collection) Indexes() ([]IndexDescription, error) {
	cmd := c.command(exec.OpListIndexes)
	result, err := c.db.client.engine.Execute(cmd)
	if err != nil {
		return nil, err
	}
	raw, _ := result.([]exec.IndexDescription)
	out := make([]IndexDescription, len(raw))
	for i, d := range raw {
		out[i] = IndexDescription{Field: d.Field, Size: d.Size}
	}
	return out, nil
}

// Cursor is a lazy, closeable iterator over a Find's results (spec §4.7).
type Cursor struct {
	inner *exec.Cursor
}

// Next advances the cursor, returning the next document and true, or
// nil and false once exhausted (check Err to distinguish EOF from error).
func (c *Cursor) Next() (M, bool) {
	return c.inner.Next()
}

// Err returns the error, if any, that stopped iteration early.
func (c *Cursor) Err() error {
	return c.inner.Err()
}

// Close stops the cursor early.
func (c *Cursor) Close() {
	c.inner.Close()
}

// All drains the cursor into a slice.
func (c *Cursor) All() ([]M, error) {
	return c.inner.All()
}
