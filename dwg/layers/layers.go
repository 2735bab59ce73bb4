// Package layers implements the §12-supplemented layer-name index:
// promoting layer resolution from "handle only" (as dwg/resolve leaves
// it) to a small handle -> declared-name table, the way dwg/blockname
// does for BLOCK_HEADER. Grounded on
// original_source/src/api/bindings/layer.rs, which resolves a LAYER
// object's name as part of the same decode pass that recovers its
// color; here that's split into its own table so the rows the dwg
// Decoder builds can carry a layer name without re-decoding LAYER objects.
package layers

// Table maps a resolved LAYER object handle to its declared name.
type Table struct {
	names map[uint64]string
}

// New returns an empty Table.
func New() *Table {
	return &Table{names: make(map[uint64]string)}
}

// Record records handle as naming name, once a LAYER object has
// decoded successfully. A handle of 0 or an empty name is a no-op: the
// caller couldn't resolve one side of the pair yet.
func (t *Table) Record(handle uint64, name string) {
	if handle == 0 || name == "" {
		return
	}
	if _, exists := t.names[handle]; !exists {
		t.names[handle] = name
	}
}

// NameOf returns the declared name for handle, or ("", false) if no
// LAYER object with that handle has been recorded.
func (t *Table) NameOf(handle uint64) (string, bool) {
	n, ok := t.names[handle]
	return n, ok
}

// Len reports how many layer handles have been recorded.
func (t *Table) Len() int { return len(t.names) }
