package mongolite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustClient(t *testing.T) *Client {
	t.Helper()
	c, err := Open(t.TempDir(), Config{Database: "testdb"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return c
}

func TestOpenCreatesRootDirAndDefaultDatabaseResolution(t *testing.T) {
	c := mustClient(t)
	db, err := c.DefaultDatabase()
	if err != nil {
		t.Fatalf("DefaultDatabase: %v", err)
	}
	if db.Name() != "testdb" {
		t.Fatalf("expected testdb, got %q", db.Name())
	}
}

func TestDatabaseWithoutDefaultAndNoNameErrors(t *testing.T) {
	c, err := Open(t.TempDir(), Config{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Database(""); err != ErrMissingDatabaseName {
		t.Fatalf("expected ErrMissingDatabaseName, got %v", err)
	}
}

func TestClosedClientRejectsOperations(t *testing.T) {
	c := mustClient(t)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if !c.Closed() {
		t.Fatal("expected Closed() to report true")
	}
	if _, err := c.Database(""); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDropDatabaseReportsExistence(t *testing.T) {
	c := mustClient(t)
	db, err := c.DefaultDatabase()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateCollection("things"); err != nil {
		t.Fatal(err)
	}
	dropped, err := c.DropDatabase("testdb")
	if err != nil || !dropped {
		t.Fatalf("expected drop to report true, got %v %v", dropped, err)
	}
	dropped, err = c.DropDatabase("testdb")
	if err != nil || dropped {
		t.Fatalf("expected second drop to report false, got %v %v", dropped, err)
	}
}

// End-to-end walkthrough on one document without an index: insert, find,
// update, delete.
func TestEndToEndInsertFindUpdateDelete(t *testing.T) {
	c := mustClient(t)
	db, err := c.DefaultDatabase()
	require.NoError(t, err)
	coll, err := db.Collection("people")
	require.NoError(t, err)

	id, err := coll.InsertOne(M{"name": "alice", "age": 30.0})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := coll.FindOne(M{"name": "alice"}, nil)
	require.NoError(t, err)
	require.Equal(t, 30.0, doc["age"])

	require.NoError(t, coll.UpdateOne(M{"name": "alice"}, M{"$inc": M{"age": 1.0}}))
	doc, err = coll.FindOne(M{"name": "alice"}, nil)
	require.NoError(t, err)
	require.Equal(t, 31.0, doc["age"])

	require.NoError(t, coll.DeleteOne(M{"name": "alice"}))
	doc, err = coll.FindOne(M{"name": "alice"}, nil)
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestFindOneNoMatchReturnsNilNotError(t *testing.T) {
	c := mustClient(t)
	db, err := c.DefaultDatabase()
	if err != nil {
		t.Fatal(err)
	}
	coll, err := db.Collection("people")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := coll.FindOne(M{"name": "nobody"}, nil)
	if err != nil {
		t.Fatalf("expected no error for no match, got %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil document, got %v", doc)
	}
}

func TestEmptyPlanShortCircuitReturnsNoDocuments(t *testing.T) {
	c := mustClient(t)
	db, err := c.DefaultDatabase()
	if err != nil {
		t.Fatal(err)
	}
	coll, err := db.Collection("people")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := coll.InsertOne(M{"age": 10.0}); err != nil {
		t.Fatal(err)
	}
	if _, err := coll.CreateIndex(M{"age": 1.0}); err != nil {
		t.Fatal(err)
	}

	cur, err := coll.Find(M{"age": M{"$lt": 0.0}}, M{"_id": 0.0})
	if err != nil {
		t.Fatal(err)
	}
	docs, err := cur.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected [], got %v", docs)
	}
}

func TestCreateIndexRejectsMultiField(t *testing.T) {
	c := mustClient(t)
	db, err := c.DefaultDatabase()
	if err != nil {
		t.Fatal(err)
	}
	coll, err := db.Collection("people")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := coll.CreateIndex(M{"a": 1.0, "b": 1.0}); err != ErrIndexMustBeSingleField {
		t.Fatalf("expected ErrIndexMustBeSingleField, got %v", err)
	}
}

func TestInvalidCollectionNameRejected(t *testing.T) {
	c := mustClient(t)
	db, err := c.DefaultDatabase()
	if err != nil {
		t.Fatal(err)
	}
	cases := []string{"", "a..b", "a.", ".a", "$weird"}
	for _, name := range cases {
		if _, err := db.Collection(name); err != ErrInvalidName {
			t.Errorf("name %q: expected ErrInvalidName, got %v", name, err)
		}
	}
}
