package store

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"gitvet/pkg/object"
)

// MemStore is a map-backed object store. It doubles as a fixture builder for
// tests: the Put helpers produce canonical payloads and content hashes, and
// PutRaw can plant deliberately corrupt records under any hash. Load calls
// are counted per hash so tests can observe caching behavior.
type MemStore struct {
	records map[object.Hash]object.RawRecord
	head    object.Hash
	loads   map[object.Hash]int
}

// NewMemStore creates an empty in-memory store with no head.
func NewMemStore() *MemStore {
	return &MemStore{
		records: make(map[object.Hash]object.RawRecord),
		loads:   make(map[object.Hash]int),
	}
}

// SetHead points the head reference at a hash.
func (m *MemStore) SetHead(h object.Hash) { m.head = h }

// ResolveHead returns the configured head hash.
func (m *MemStore) ResolveHead() (object.Hash, error) {
	if m.head == "" {
		return "", fmt.Errorf("no head set: %w", object.ErrHeadNotFound)
	}
	return m.head, nil
}

// LoadObject returns the record stored under a hash.
func (m *MemStore) LoadObject(h object.Hash) (object.RawRecord, error) {
	m.loads[h]++
	rec, ok := m.records[h]
	if !ok {
		return object.RawRecord{}, fmt.Errorf("object %s not in memory store: %w", h, object.ErrMissingObject)
	}
	return rec, nil
}

// Loads reports how many times a hash has been requested.
func (m *MemStore) Loads(h object.Hash) int { return m.loads[h] }

// Put stores a well-formed record for a payload and returns its content
// hash.
func (m *MemStore) Put(objType object.ObjectType, payload []byte) object.Hash {
	rec := object.RawRecord{Type: objType, Size: len(payload), Payload: payload}
	h := object.ContentHash(rec)
	m.records[h] = rec
	return h
}

// PutRaw stores an arbitrary record under an arbitrary hash, bypassing
// content addressing. Tests use it to plant corrupt objects.
func (m *MemStore) PutRaw(h object.Hash, rec object.RawRecord) {
	m.records[h] = rec
}

// PutBlob stores a blob record.
func (m *MemStore) PutBlob(data []byte) object.Hash {
	return m.Put(object.TypeBlob, data)
}

// TreeSpec describes one entry of a tree fixture.
type TreeSpec struct {
	Mode string
	Name string
	Hash object.Hash
}

// PutTree encodes tree entries in the binary tree format and stores the
// record. Entries are encoded in the order given.
func (m *MemStore) PutTree(specs []TreeSpec) (object.Hash, error) {
	payload, err := buildTreePayload(specs)
	if err != nil {
		return "", err
	}
	return m.Put(object.TypeTree, payload), nil
}

func buildTreePayload(specs []TreeSpec) ([]byte, error) {
	var buf bytes.Buffer
	for _, spec := range specs {
		raw, err := hex.DecodeString(string(spec.Hash))
		if err != nil || len(raw) != 20 {
			return nil, fmt.Errorf("tree entry %q: bad hash %q", spec.Name, spec.Hash)
		}
		buf.WriteString(spec.Mode)
		buf.WriteByte(' ')
		buf.WriteString(spec.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// PutCommit encodes commit fields in the canonical row format and stores the
// record.
func (m *MemStore) PutCommit(tree object.Hash, parents []object.Hash, author string, ts int64, zone, subject string) object.Hash {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", tree)
	for _, p := range parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s %d %s\n", author, ts, zone)
	buf.WriteByte('\n')
	buf.WriteString(subject)
	return m.Put(object.TypeCommit, buf.Bytes())
}
