package ir

import (
	"golang.org/x/crypto/blake2b"
)

func newStringTable() *StringTable {
	return &StringTable{index: make(map[[16]byte]int)}
}

// digest returns a blake2b-128 digest of b, used as the dedup map key
// instead of the raw bytes so that large raw-byte literals don't blow
// up the map's key size (§3.4: "Each string-table entry is a (bytes,
// length) pair identified by a small positive integer").
func digest(b []byte) [16]byte {
	h, _ := blake2b.New(16, nil)
	h.Write(b)
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Intern adds bytes to the table if not already present and returns
// its 1-based id. Equal content always returns the same id (§8's
// round-trip property).
func (t *StringTable) Intern(bytes []byte) int {
	key := digest(bytes)
	if id, ok := t.index[key]; ok {
		return id
	}
	t.entries = append(t.entries, StringEntry{Bytes: append([]byte(nil), bytes...)})
	id := len(t.entries)
	t.index[key] = id
	return id
}

// Lookup returns the bytes stored at id (1-based), per the round-trip
// invariant: Intern(s) returns an id such that Lookup(id) == s.
func (t *StringTable) Lookup(id int) ([]byte, bool) {
	if id < 1 || id > len(t.entries) {
		return nil, false
	}
	return t.entries[id-1].Bytes, true
}

// Len is the number of distinct interned entries.
func (t *StringTable) Len() int { return len(t.entries) }
