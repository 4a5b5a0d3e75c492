package inventory

import "strings"

// Snapshot is a read-only view of the ledger taken at one point in time.
type Snapshot []Item

// Find returns the first item whose name equals name, ignoring case.
// Matching is exact otherwise: no trimming of plurals, punctuation or synonyms.
func (s Snapshot) Find(name string) (Item, bool) {
	key := strings.ToLower(name)
	for _, item := range s {
		if strings.ToLower(item.Name) == key {
			return item, true
		}
	}
	return Item{}, false
}

// Index builds a lookup keyed by lower-cased name. When two items share a
// name the first one in snapshot order wins, the same as Find.
func (s Snapshot) Index() map[string]Item {
	idx := make(map[string]Item, len(s))
	for _, item := range s {
		key := strings.ToLower(item.Name)
		if _, exists := idx[key]; !exists {
			idx[key] = item
		}
	}
	return idx
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}
