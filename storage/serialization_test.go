package storage

import (
	"testing"
	"time"

	"github.com/poiesic/hrchat/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry() core.IndexEntry {
	chunk := core.Chunk{
		Text:     "Employees accrue two days of leave per month.",
		Source:   "benefits/leave.html",
		Index:    3,
		Start:    1450,
		Overlap:  50,
		Metadata: map[string]string{"title": "Annual Leave", "dept": "hr"},
	}
	return core.NewIndexEntry(chunk, []float32{0.25, -0.5, 0.125, 1})
}

func TestMarshalUnmarshalIndexEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry core.IndexEntry
	}{
		{"full entry", sampleEntry()},
		{"no metadata", core.NewIndexEntry(core.Chunk{Text: "x", Source: "a.html"}, []float32{1})},
		{"unicode text", core.NewIndexEntry(core.Chunk{Text: "Überstunden ✓", Source: "de/ü.html"}, []float32{0, 1})},
		{"max id", core.IndexEntry{Id: core.ID(18446744073709551615), Chunk: core.Chunk{Text: "t", Source: "s"}, Vector: []float32{2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalIndexEntry(&tt.entry)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalIndexEntry(data)
			require.NoError(t, err)
			assert.Equal(t, tt.entry, *decoded)
		})
	}
}

func TestMarshalIndexEntry_Deterministic(t *testing.T) {
	entry := sampleEntry()
	first := MarshalIndexEntry(&entry)
	for range 20 {
		assert.Equal(t, first, MarshalIndexEntry(&entry))
	}
}

func TestUnmarshalIndexEntry_Truncated(t *testing.T) {
	entry := sampleEntry()
	data := MarshalIndexEntry(&entry)

	for _, cut := range []int{0, 1, len(data) / 2, len(data) - 1} {
		_, err := UnmarshalIndexEntry(data[:cut])
		assert.ErrorIs(t, err, ErrSerializationFailed, "cut at %d", cut)
	}
}

func TestUnmarshalIndexEntry_TrailingBytes(t *testing.T) {
	entry := sampleEntry()
	data := append(MarshalIndexEntry(&entry), 0x01)

	_, err := UnmarshalIndexEntry(data)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestUnmarshalIndexEntry_OversizedVectorLength(t *testing.T) {
	entry := core.IndexEntry{Id: 1, Chunk: core.Chunk{Text: "t", Source: "s"}}
	data := MarshalIndexEntry(&entry)
	// The last byte is the zero vector length; claim a huge vector instead.
	data = append(data[:len(data)-1], 0xff, 0xff, 0xff, 0xff, 0x0f)

	_, err := UnmarshalIndexEntry(data)
	assert.ErrorIs(t, err, ErrTruncatedData)
}

func TestMarshalUnmarshalManifest(t *testing.T) {
	m := &Manifest{
		Version:        FormatVersion,
		Count:          42,
		Dimension:      1536,
		EmbeddingModel: "text-embedding-3-small",
		CreatedAt:      time.Date(2025, 3, 14, 9, 26, 53, 589000, time.UTC),
		Checksum:       NewChecksum().Sum(),
	}

	decoded, err := UnmarshalManifest(MarshalManifest(m))
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestUnmarshalManifest_Invalid(t *testing.T) {
	_, err := UnmarshalManifest(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)

	data := MarshalManifest(&Manifest{Version: FormatVersion, Count: 1, Dimension: 2, Checksum: []byte{1, 2, 3}})
	_, err = UnmarshalManifest(data[:len(data)-2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
