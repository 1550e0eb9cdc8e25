// Chunked and random-access reads over a collection file, driven by a
// planner.ReadPlan.
package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/hvuhsg/mongolite/internal/planner"
)

// GetDocuments iterates plan against the collection file. A scan plan
// reads lines sequentially from plan.Offset, producing at most
// plan.ChunkSize *live* documents (tombstoned lines advance the file
// position but never consume a chunk slot, spec §9) before mutating
// plan.Offset to resume on the next call, or marking the plan ended at
// EOF. An indexed plan seeks to each lookup key and reads one line,
// skipping tombstoned or excluded keys, then always ends (a random-access
// plan is exhausted in one call — there is nothing left to resume).
func (e *Engine) GetDocuments(db, coll string, plan *planner.ReadPlan) ([]Document, error) {
	f, err := os.Open(e.collectionPath(db, coll))
	if err != nil {
		return nil, fmt.Errorf("storage: get documents: %w", err)
	}
	defer f.Close()

	if plan.IsIndexed() {
		return e.getIndexed(f, plan)
	}
	return e.getScan(f, plan)
}

func (e *Engine) getIndexed(f *os.File, plan *planner.ReadPlan) ([]Document, error) {
	var docs []Document
	for key := range plan.Indexes {
		if _, excluded := plan.ExcludeIndexes[key]; excluded {
			continue
		}
		line, err := readLineAt(f, key)
		if err != nil {
			if err == io.EOF {
				continue
			}
			return nil, fmt.Errorf("storage: read lookup key %d: %w", key, err)
		}
		if isTombstone(line) {
			continue
		}
		data, err := e.deserialize(line)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Data: data, LookupKey: key})
	}
	plan.End()
	return docs, nil
}

func (e *Engine) getScan(f *os.File, plan *planner.ReadPlan) ([]Document, error) {
	offset := *plan.Offset
	reader := bufio.NewReaderSize(newOffsetReader(f, offset), 64*1024)

	var docs []Document
	pos := offset

	for plan.ChunkSize <= 0 || len(docs) < plan.ChunkSize {
		lineStart := pos
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("storage: scan: %w", err)
		}
		if len(line) == 0 && err == io.EOF {
			plan.End()
			break
		}

		hadNewline := len(line) > 0 && line[len(line)-1] == '\n'
		if hadNewline {
			line = line[:len(line)-1]
		}
		pos += int64(len(line))
		if hadNewline {
			pos++
		}

		if !isTombstone(line) {
			if _, excluded := plan.ExcludeIndexes[lineStart]; !excluded {
				data, derr := e.deserialize(line)
				if derr != nil {
					return nil, derr
				}
				docs = append(docs, Document{Data: data, LookupKey: lineStart})
			}
		}

		if err == io.EOF {
			plan.End()
			break
		}
	}

	if !plan.Ended() {
		if _, perr := reader.Peek(1); perr == io.EOF {
			plan.End()
		}
	}
	if !plan.Ended() {
		plan.Offset = &pos
	}
	return docs, nil
}

// readLineAt reads the single newline-delimited line beginning at offset.
func readLineAt(f *os.File, offset int64) ([]byte, error) {
	section := io.NewSectionReader(f, offset, 1<<62)
	reader := bufio.NewReader(section)
	line, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(line) == 0 {
		return nil, io.EOF
	}
	if line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	return line, nil
}

// offsetReader adapts an *os.File into an io.Reader starting at offset,
// so a single bufio.Reader can stream the scan without repositioning the
// shared file descriptor.
type offsetReader struct {
	f   *os.File
	pos int64
}

func newOffsetReader(f *os.File, offset int64) io.Reader {
	return &offsetReader{f: f, pos: offset}
}

func (r *offsetReader) Read(p []byte) (int, error) {
	n, err := r.f.ReadAt(p, r.pos)
	r.pos += int64(n)
	return n, err
}
