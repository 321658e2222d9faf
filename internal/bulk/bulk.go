// Package bulk assembles NDJSON payloads in the search backend's bulk
// format. Building is pure; delivering the payload is the caller's
// concern.
package bulk

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Payload is one assembled bulk request body with its action counts.
type Payload struct {
	Body    []byte
	Indexed int
	Deleted int
}

// Empty reports whether the payload carries no actions.
func (p Payload) Empty() bool { return p.Indexed == 0 && p.Deleted == 0 }

// actionMeta is the metadata half of an action line.
type actionMeta struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

// Builder accumulates action/document line pairs for one index. Errors
// stick: after the first failure every call is a no-op and Payload
// reports it.
type Builder struct {
	index   string
	buf     bytes.Buffer
	indexed int
	deleted int
	err     error
}

// NewBuilder returns a Builder targeting the named index.
func NewBuilder(index string) *Builder {
	return &Builder{index: index}
}

// Index appends an index action for id followed by its document line.
func (b *Builder) Index(id int64, doc map[string]any) *Builder {
	if b.err != nil {
		return b
	}
	line, err := json.Marshal(doc)
	if err != nil {
		b.err = err
		return b
	}
	b.writeAction("index", id)
	b.buf.Write(line)
	b.buf.WriteByte('\n')
	b.indexed++
	return b
}

// Delete appends a delete action for id.
func (b *Builder) Delete(id int64) *Builder {
	if b.err != nil {
		return b
	}
	b.writeAction("delete", id)
	b.deleted++
	return b
}

func (b *Builder) writeAction(verb string, id int64) {
	action := map[string]actionMeta{
		verb: {Index: b.index, ID: strconv.FormatInt(id, 10)},
	}
	line, err := json.Marshal(action)
	if err != nil {
		b.err = err
		return
	}
	b.buf.Write(line)
	b.buf.WriteByte('\n')
}

// Len reports how many actions have been accumulated.
func (b *Builder) Len() int { return b.indexed + b.deleted }

// Payload returns the assembled body. The byte slice is owned by the
// caller; the builder must not be reused afterwards.
func (b *Builder) Payload() (Payload, error) {
	if b.err != nil {
		return Payload{}, b.err
	}
	return Payload{
		Body:    b.buf.Bytes(),
		Indexed: b.indexed,
		Deleted: b.deleted,
	}, nil
}
