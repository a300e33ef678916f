package dependencies

import "fmt"

// ImportKind classifies how a record came to exist on the target side: a new
// copy was Inserted, an Existing record with the same globally unique
// identifier was reused, or an Overwrite merged the incoming data into a
// record that already had a key assigned. Entities that reference the record
// read this alongside the new key to know which case they are dealing with.
type ImportKind int

const (
	ImportInserted ImportKind = iota + 1
	ImportExisting
	ImportOverwrite
)

func (k ImportKind) String() string {
	switch k {
	case ImportInserted:
		return "Inserted"
	case ImportExisting:
		return "Existing"
	case ImportOverwrite:
		return "Overwrite"
	}
	return fmt.Sprintf("ImportKind(%d)", int(k))
}

type keyEntry struct {
	newKey int
	kind   ImportKind
}

// PrimaryKeyMap translates source-side primary keys to target-side primary
// keys while records move between key spaces. The driver orchestrating one
// relocation operation populates it batch by batch and queries it when
// serializing relation fields; it owns no persistent state and is discarded
// when the operation ends.
//
// Keys are assumed to be integers; natural (string) keys are not supported.
// The map is not safe for concurrent writers: one relocation operation has
// exactly one driver, and any parallelism within it must serialize Insert
// calls per entity type.
type PrimaryKeyMap struct {
	mapping map[NormalizedEntityName]map[int]keyEntry
}

func NewPrimaryKeyMap() *PrimaryKeyMap {
	return &PrimaryKeyMap{mapping: map[NormalizedEntityName]map[int]keyEntry{}}
}

// Insert records an old->new key mapping. Re-inserting the same old key simply
// replaces the entry; multi-pass merge reconciliation relies on last-writer-wins.
func (m *PrimaryKeyMap) Insert(name NormalizedEntityName, oldKey, newKey int, kind ImportKind) {
	entries, ok := m.mapping[name]
	if !ok {
		entries = map[int]keyEntry{}
		m.mapping[name] = entries
	}
	entries[oldKey] = keyEntry{newKey: newKey, kind: kind}
}

// GetNewKey returns the target-side key for an old key. A miss means "not yet
// imported", never an error.
func (m *PrimaryKeyMap) GetNewKey(name NormalizedEntityName, oldKey int) (int, bool) {
	entry, ok := m.mapping[name][oldKey]
	if !ok {
		return 0, false
	}
	return entry.newKey, true
}

// GetKind returns how the record behind an old key was reconciled.
func (m *PrimaryKeyMap) GetKind(name NormalizedEntityName, oldKey int) (ImportKind, bool) {
	entry, ok := m.mapping[name][oldKey]
	if !ok {
		return 0, false
	}
	return entry.kind, true
}

// GetAllNewKeys returns the set of target-side keys already created for an
// entity type, for callers validating whole relation tables at once.
func (m *PrimaryKeyMap) GetAllNewKeys(name NormalizedEntityName) map[int]struct{} {
	keys := map[int]struct{}{}
	for _, entry := range m.mapping[name] {
		keys[entry.newKey] = struct{}{}
	}
	return keys
}
