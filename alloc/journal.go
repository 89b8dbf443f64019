package alloc

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	okerrors "github.com/wippyai/ownkit/errors"
)

// Current schema version. Increment when the Record format changes.
const journalSchemaVersion uint16 = 1

// Record is one journaled lifecycle event.
type Record struct {
	// Schema version for safe invalidation when the format changes
	Schema uint16

	Type  EventType
	Seq   uint64
	Value int
}

// Journal is an observer persisting lifecycle events as msgpack records to a
// writer. Encoding errors are sticky: the first one stops further writes and
// is reported by Err.
type Journal struct {
	enc *msgpack.Encoder
	mu  sync.Mutex
	err error
}

var _ Observer = (*Journal)(nil)

// NewJournal creates a journal writing to w.
func NewJournal(w io.Writer) *Journal {
	return &Journal{enc: msgpack.NewEncoder(w)}
}

// OnResourceEvent appends one record to the journal.
func (j *Journal) OnResourceEvent(e Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.err != nil {
		return
	}

	rec := Record{
		Schema: journalSchemaVersion,
		Type:   e.Type,
		Seq:    e.Seq,
		Value:  e.Value,
	}
	if err := j.enc.Encode(&rec); err != nil {
		j.err = okerrors.EncodeFailed(err)
	}
}

// Err returns the first encoding error, if any.
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// ReadJournal decodes a journal stream back into records.
func ReadJournal(r io.Reader) ([]Record, error) {
	dec := msgpack.NewDecoder(r)

	var records []Record
	for i := 0; ; i++ {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("journal: decode record %d: %w", i, err)
		}
		if rec.Schema != journalSchemaVersion {
			return records, fmt.Errorf("journal: unsupported schema %d in record %d", rec.Schema, i)
		}
		records = append(records, rec)
	}
}
