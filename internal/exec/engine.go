// Package exec implements the execution engine (spec §4.6, component C6)
// and its cursor (§4.7, component C7): command dispatch, per-collection
// locking, chunked streaming reads, and write/index coordination. Grounded
// on original_source's execution_engine/chunked_engine.py, restructured
// into the teacher's one-type-per-concern layout and logged with
// github.com/rs/zerolog the way the teacher's own call sites log state
// transitions.
package exec

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hvuhsg/mongolite/internal/filter"
	"github.com/hvuhsg/mongolite/internal/planner"
	"github.com/hvuhsg/mongolite/internal/storage"
)

// DefaultChunkSize bounds how many live documents one internal read
// produces at a time (spec §3), matching original_source's
// DEFAULT_CHUNK_SIZE of 5*1024.
const DefaultChunkSize = 5 * 1024

// Engine dispatches Commands against a storage engine and an optional
// indexing engine, serializing access per collection.
type Engine struct {
	storage   *storage.Engine
	indexing  *planner.Engine // nil means "no indexing engine": always degrade to scan
	chunkSize int
	log       zerolog.Logger

	locksMu sync.Mutex
	locks   map[string]*reentrantMutex
}

// New returns an execution engine backed by store. indexing may be nil to
// run with indexing disabled (spec §4.4's "no indexing engine" degrade
// mode) — every call site below checks for nil explicitly rather than
// assuming indexing is present.
func New(store *storage.Engine, indexing *planner.Engine, log zerolog.Logger) *Engine {
	return &Engine{
		storage:   store,
		indexing:  indexing,
		chunkSize: DefaultChunkSize,
		log:       log,
		locks:     map[string]*reentrantMutex{},
	}
}

// SetChunkSize overrides the number of live documents one internal read
// produces at a time.
func (e *Engine) SetChunkSize(n int) {
	e.chunkSize = n
}

func (e *Engine) lockFor(db, coll string) *reentrantMutex {
	key := db + "." + coll
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	m, ok := e.locks[key]
	if !ok {
		m = &reentrantMutex{}
		e.locks[key] = m
	}
	return m
}

// Execute dispatches cmd. The database-level Ops (create/drop database,
// list collections) take no lock. Every collection-level Op except OpFind
// runs fully under the target collection's lock (spec §5): one
// acquire/release per command.
// The lock is reentrant (reentrantMutex), so a mutation command that
// streams through iterFiltered — which re-acquires the same lock per
// chunk — nests cleanly within the command-level hold instead of
// deadlocking against itself. OpFind is the exception — it returns a
// Cursor whose own chunk fetches each acquire and release the lock
// independently, so a slow consumer never holds the lock between chunks
// (spec §9).
func (e *Engine) Execute(cmd Command) (any, error) {
	e.log.Debug().Int("op", int(cmd.Op)).Str("db", cmd.DatabaseName).
		Str("collection", cmd.CollectionName).Msg("Received")

	if cmd.DatabaseName == "" {
		return nil, ErrDatabaseIsRequired
	}

	switch cmd.Op {
	case OpCreateDatabase:
		return e.storage.CreateDatabase(cmd.DatabaseName)
	case OpDropDatabase:
		return e.storage.DropDatabase(cmd.DatabaseName)
	case OpListCollections:
		return e.storage.ListCollections(cmd.DatabaseName)
	}

	if cmd.CollectionName == "" {
		return nil, ErrCollectionIsRequired
	}

	if cmd.Op == OpFind {
		return e.find(cmd), nil
	}

	lock := e.lockFor(cmd.DatabaseName, cmd.CollectionName)
	lock.Lock()
	e.log.Debug().Str("collection", cmd.CollectionName).Msg("LockAcquired")
	defer func() {
		lock.Unlock()
		e.log.Debug().Str("collection", cmd.CollectionName).Msg("ReleasedLock")
	}()

	switch cmd.Op {
	case OpCreateCollection:
		return e.storage.CreateCollection(cmd.DatabaseName, cmd.CollectionName)
	case OpDropCollection:
		created, err := e.storage.DropCollection(cmd.DatabaseName, cmd.CollectionName)
		if err == nil && e.indexing != nil {
			e.indexing.DropCollection(cmd.DatabaseName, cmd.CollectionName)
		}
		return created, err
	case OpInsert:
		return e.insert(cmd)
	case OpDelete:
		return nil, e.delete(cmd)
	case OpUpdate:
		return nil, e.update(cmd)
	case OpReplace:
		return nil, e.replace(cmd)
	case OpCreateIndex:
		return e.createIndex(cmd)
	case OpDeleteIndex:
		e.deleteIndex(cmd)
		return nil, nil
	case OpListIndexes:
		return e.listIndexes(cmd), nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownCommand, cmd.Op)
}

// newObjectID mints a fresh document id (spec §4.8): a random, sortable
// identifier backed by github.com/google/uuid, stored as its string form.
func newObjectID() string {
	return uuid.NewString()
}

// iterFiltered is the shared core behind find/update/delete/replace
// (original_source's _iter_documents_filtered): it asks the indexing
// engine (if any) to narrow a ReadPlan, then streams chunks from storage,
// applying the mandatory post-extraction filter to every retrieved
// document.
func (e *Engine) iterFiltered(db, coll string, flt map[string]any, useIndexes bool) func() ([]storedDoc, error) {
	var plan *planner.ReadPlan
	postFilterNeeded := true

	if useIndexes && e.indexing != nil {
		lock := e.lockFor(db, coll)
		lock.Lock()
		plan = e.indexing.Plan(db, coll, flt)
		lock.Unlock()
	} else {
		plan = planner.NewScan(0)
	}
	plan.ChunkSize = e.chunkSize
	e.log.Debug().Str("collection", coll).Bool("indexed", plan.IsIndexed()).Msg("Planned")
	if useIndexes && e.indexing != nil && !plan.IsIndexed() && len(flt) > 0 {
		e.log.Warn().Str("collection", coll).Msg("planner widened to a full scan: no usable index for this filter")
	}

	// fetch pulls chunks from storage until one yields a post-filter match
	// or the plan ends — a chunk entirely rejected by the post-extraction
	// filter must not look like exhaustion to the caller (spec §9).
	return func() ([]storedDoc, error) {
		for !plan.Ended() {
			lock := e.lockFor(db, coll)
			lock.Lock()
			e.log.Debug().Str("collection", coll).Msg("Streaming")
			docs, err := e.storage.GetDocuments(db, coll, plan)
			lock.Unlock()
			if err != nil {
				return nil, fmt.Errorf("exec: read %s.%s: %w", db, coll, err)
			}

			out := make([]storedDoc, 0, len(docs))
			for _, d := range docs {
				if postFilterNeeded && !filter.Match(d.Data, flt) {
					continue
				}
				out = append(out, storedDoc{data: d.Data, lookupKey: d.LookupKey})
			}
			if len(out) > 0 {
				return out, nil
			}
		}
		return nil, nil
	}
}

type storedDoc struct {
	data      map[string]any
	lookupKey int64
}
