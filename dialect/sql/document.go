package sql

import (
	"fmt"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// TrackedDocument is a nested document value that records which top-level
// keys were modified or deleted since it was loaded. The update rewrite
// stage consults the change sets to expand whole-document parameters into
// per-path assignments.
//
// A TrackedDocument is not safe for concurrent mutation; compile paths
// only read it.
type TrackedDocument struct {
	data     map[string]any
	snapshot map[string]any
	changed  map[string]struct{}
	deleted  map[string]struct{}
}

// NewTrackedDocument returns a tracked document loaded from data. The
// initial state is snapshotted by deep copy, so later mutations of nested
// values through Set are detected while the caller keeps ownership of the
// original map.
func NewTrackedDocument(data map[string]any) (*TrackedDocument, error) {
	d := &TrackedDocument{
		data:    make(map[string]any, len(data)),
		changed: make(map[string]struct{}),
		deleted: make(map[string]struct{}),
	}
	for k, v := range data {
		d.data[k] = v
	}
	snap, err := deepCopy(d.data)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: snapshot document: %w", err)
	}
	d.snapshot = snap
	return d, nil
}

// deepCopy copies a document through a msgpack round trip. Values must be
// msgpack-encodable, which holds for anything destined for a statement
// parameter.
func deepCopy(m map[string]any) (map[string]any, error) {
	b, err := msgpack.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := msgpack.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = make(map[string]any)
	}
	return out, nil
}

// Get returns the value under the top-level key k.
func (d *TrackedDocument) Get(k string) (any, bool) {
	v, ok := d.data[k]
	return v, ok
}

// Set assigns v to the top-level key k and records the key as changed. A
// key set after deletion is no longer reported as deleted.
func (d *TrackedDocument) Set(k string, v any) {
	d.data[k] = v
	d.changed[k] = struct{}{}
	delete(d.deleted, k)
}

// Delete removes the top-level key k and records it as deleted. Deleting a
// key the snapshot never held is a no-op.
func (d *TrackedDocument) Delete(k string) {
	delete(d.data, k)
	delete(d.changed, k)
	if _, ok := d.snapshot[k]; ok {
		d.deleted[k] = struct{}{}
	}
}

// ChangedKeys returns the modified top-level keys in sorted order.
func (d *TrackedDocument) ChangedKeys() []string {
	return sortedKeys(d.changed)
}

// DeletedKeys returns the deleted top-level keys in sorted order.
func (d *TrackedDocument) DeletedKeys() []string {
	return sortedKeys(d.deleted)
}

// Modified reports whether any key was changed or deleted since load.
func (d *TrackedDocument) Modified() bool {
	return len(d.changed) > 0 || len(d.deleted) > 0
}

// Value returns the full current document. The returned map is the
// document's own storage; callers must not mutate it.
func (d *TrackedDocument) Value() map[string]any {
	return d.data
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
