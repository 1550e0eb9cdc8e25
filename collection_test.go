package mongolite

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustCollection(t *testing.T, name string) *Collection {
	t.Helper()
	c := mustClient(t)
	db, err := c.DefaultDatabase()
	if err != nil {
		t.Fatal(err)
	}
	coll, err := db.Collection(name)
	if err != nil {
		t.Fatal(err)
	}
	return coll
}

func TestInsertManyAssignsDistinctIDs(t *testing.T) {
	coll := mustCollection(t, "things")
	ids, err := coll.InsertMany([]M{{"n": 1.0}, {"n": 2.0}, {"n": 3.0}})
	if err != nil {
		t.Fatal(err)
	}
	seen := map[ObjectId]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %v", id)
		}
		seen[id] = true
	}
}

func TestFindProjectionInclusion(t *testing.T) {
	coll := mustCollection(t, "things")
	if _, err := coll.InsertOne(M{"a": 1.0, "b": 2.0}); err != nil {
		t.Fatal(err)
	}
	cur, err := coll.Find(nil, M{"a": 1.0})
	if err != nil {
		t.Fatal(err)
	}
	docs, err := cur.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 doc, got %d", len(docs))
	}
	if _, ok := docs[0]["b"]; ok {
		t.Fatal("expected 'b' excluded by inclusion projection")
	}
	if docs[0]["a"] != 1.0 {
		t.Fatalf("expected a=1.0, got %v", docs[0]["a"])
	}
}

func TestUpdateManyVsUpdateOne(t *testing.T) {
	coll := mustCollection(t, "things")
	if _, err := coll.InsertMany([]M{{"flag": true}, {"flag": true}}); err != nil {
		t.Fatal(err)
	}
	if err := coll.UpdateOne(M{"flag": true}, M{"$set": M{"touched": true}}); err != nil {
		t.Fatal(err)
	}
	docs, err := mustAll(t, coll)
	if err != nil {
		t.Fatal(err)
	}
	touchedCount := 0
	for _, d := range docs {
		if d["touched"] == true {
			touchedCount++
		}
	}
	if touchedCount != 1 {
		t.Fatalf("expected exactly 1 document touched by UpdateOne, got %d", touchedCount)
	}

	if err := coll.UpdateMany(M{"flag": true}, M{"$set": M{"touched": true}}); err != nil {
		t.Fatal(err)
	}
	docs, err = mustAll(t, coll)
	if err != nil {
		t.Fatal(err)
	}
	touchedCount = 0
	for _, d := range docs {
		if d["touched"] == true {
			touchedCount++
		}
	}
	if touchedCount != 2 {
		t.Fatalf("expected both documents touched by UpdateMany, got %d", touchedCount)
	}
}

func mustAll(t *testing.T, coll *Collection) ([]M, error) {
	t.Helper()
	cur, err := coll.Find(nil, nil)
	if err != nil {
		return nil, err
	}
	return cur.All()
}

func TestDeleteManyRemovesAllMatches(t *testing.T) {
	coll := mustCollection(t, "things")
	if _, err := coll.InsertMany([]M{{"x": 1.0}, {"x": 1.0}, {"x": 2.0}}); err != nil {
		t.Fatal(err)
	}
	if err := coll.DeleteMany(M{"x": 1.0}); err != nil {
		t.Fatal(err)
	}
	docs, err := mustAll(t, coll)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0]["x"] != 2.0 {
		t.Fatalf("expected only x=2.0 to survive, got %v", docs)
	}
}

func TestIndexesListsCreatedIndexes(t *testing.T) {
	coll := mustCollection(t, "things")
	if _, err := coll.InsertMany([]M{{"a": 1.0}, {"a": 2.0}}); err != nil {
		t.Fatal(err)
	}
	if _, err := coll.CreateIndex(M{"a": 1.0}); err != nil {
		t.Fatal(err)
	}
	descs, err := coll.Indexes()
	if err != nil {
		t.Fatal(err)
	}
	if len(descs) != 1 || descs[0].Field != "a" || descs[0].Size != 2 {
		t.Fatalf("expected one index on 'a' of size 2, got %+v", descs)
	}

	if err := coll.DeleteIndex("a"); err != nil {
		t.Fatal(err)
	}
	descs, err = coll.Indexes()
	if err != nil {
		t.Fatal(err)
	}
	if len(descs) != 0 {
		t.Fatalf("expected no indexes after DeleteIndex, got %+v", descs)
	}
}

func TestReplaceOneProducesExpectedDocumentShape(t *testing.T) {
	coll := mustCollection(t, "things")
	id, err := coll.InsertOne(M{"a": 1.0, "b": 2.0})
	if err != nil {
		t.Fatal(err)
	}
	if err := coll.ReplaceOne(M{"_id": string(id)}, M{"c": 3.0}); err != nil {
		t.Fatal(err)
	}

	// The old _id no longer resolves: replace mints a fresh one rather
	// than preserving the original document's identity.
	doc, err := coll.FindOne(M{"_id": string(id)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc != nil {
		t.Fatalf("expected original _id to no longer match after replace, got %v", doc)
	}

	doc, err = coll.FindOne(M{"c": 3.0}, nil)
	if err != nil {
		t.Fatal(err)
	}
	newID, _ := doc["_id"].(string)
	if newID == "" || newID == string(id) {
		t.Fatalf("expected a fresh non-empty _id distinct from %q, got %q", id, newID)
	}
	want := M{"_id": newID, "c": 3.0}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("unexpected document shape after replace (-want +got):\n%s", diff)
	}
}

func TestCollectionDrop(t *testing.T) {
	coll := mustCollection(t, "things")
	if _, err := coll.InsertOne(M{"a": 1.0}); err != nil {
		t.Fatal(err)
	}
	dropped, err := coll.Drop()
	if err != nil || !dropped {
		t.Fatalf("expected drop true, got %v %v", dropped, err)
	}
}
