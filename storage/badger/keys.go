package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for the index artifact
const (
	entryPrefix = "entry:"
	manifestKey = "meta:manifest"
)

// makeEntryKey generates the key of the entry at position seq.
// Format: prefix:seq, with seq in BigEndian order so that key order
// equals insertion order.
func makeEntryKey(seq uint64) []byte {
	buf := make([]byte, len(entryPrefix)+8)
	offset := copy(buf, entryPrefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// parseEntryKey extracts the sequence number from an entry key.
func parseEntryKey(key []byte) (uint64, error) {
	if len(key) != len(entryPrefix)+8 || string(key[:len(entryPrefix)]) != entryPrefix {
		return 0, fmt.Errorf("malformed entry key %q", key)
	}
	return binary.BigEndian.Uint64(key[len(entryPrefix):]), nil
}
