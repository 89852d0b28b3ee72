// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package storage

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/hrchat/core"
)

// MarshalIndexEntry serializes an IndexEntry to bytes.
// Metadata keys are written in sorted order so equal entries always
// produce equal bytes.
func MarshalIndexEntry(entry *core.IndexEntry) []byte {
	keys := slices.Sorted(maps.Keys(entry.Chunk.Metadata))

	size := varint.Uint64.Size(uint64(entry.Id))
	size += ord.String.Size(entry.Chunk.Text)
	size += ord.String.Size(entry.Chunk.Source)
	size += varint.Uint64.Size(uint64(entry.Chunk.Index))
	size += varint.Uint64.Size(uint64(entry.Chunk.Start))
	size += varint.Uint64.Size(uint64(entry.Chunk.Overlap))
	size += varint.Uint64.Size(uint64(len(keys)))
	for _, k := range keys {
		size += ord.String.Size(k) + ord.String.Size(entry.Chunk.Metadata[k])
	}
	size += varint.Uint64.Size(uint64(len(entry.Vector)))
	for _, v := range entry.Vector {
		size += raw.Float32.Size(v)
	}

	bs := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(entry.Id), bs)
	n += ord.String.Marshal(entry.Chunk.Text, bs[n:])
	n += ord.String.Marshal(entry.Chunk.Source, bs[n:])
	n += varint.Uint64.Marshal(uint64(entry.Chunk.Index), bs[n:])
	n += varint.Uint64.Marshal(uint64(entry.Chunk.Start), bs[n:])
	n += varint.Uint64.Marshal(uint64(entry.Chunk.Overlap), bs[n:])
	n += varint.Uint64.Marshal(uint64(len(keys)), bs[n:])
	for _, k := range keys {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(entry.Chunk.Metadata[k], bs[n:])
	}
	n += varint.Uint64.Marshal(uint64(len(entry.Vector)), bs[n:])
	for _, v := range entry.Vector {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	return bs
}

// UnmarshalIndexEntry deserializes an IndexEntry from bytes.
// Every length is checked against the remaining input.
func UnmarshalIndexEntry(data []byte) (*core.IndexEntry, error) {
	d := &decoder{bs: data}
	entry := &core.IndexEntry{}
	entry.Id = core.ID(d.uint64())
	entry.Chunk.Text = d.string()
	entry.Chunk.Source = d.string()
	entry.Chunk.Index = d.int()
	entry.Chunk.Start = d.int()
	entry.Chunk.Overlap = d.int()

	if count := d.length(2); count > 0 {
		entry.Chunk.Metadata = make(map[string]string, count)
		for range count {
			k := d.string()
			entry.Chunk.Metadata[k] = d.string()
		}
	}

	if count := d.length(raw.Float32.Size(0)); count > 0 {
		entry.Vector = make([]float32, count)
		for i := range entry.Vector {
			entry.Vector[i] = d.float32()
		}
	}

	if err := d.finish(); err != nil {
		return nil, err
	}
	return entry, nil
}

// MarshalManifest serializes a Manifest to bytes.
func MarshalManifest(m *Manifest) []byte {
	created := m.CreatedAt.UnixMicro()
	checksum := string(m.Checksum)

	size := varint.Uint64.Size(m.Version)
	size += varint.Uint64.Size(uint64(m.Count))
	size += varint.Uint64.Size(uint64(m.Dimension))
	size += ord.String.Size(m.EmbeddingModel)
	size += varint.Int64.Size(created)
	size += ord.String.Size(checksum)

	bs := make([]byte, size)
	n := varint.Uint64.Marshal(m.Version, bs)
	n += varint.Uint64.Marshal(uint64(m.Count), bs[n:])
	n += varint.Uint64.Marshal(uint64(m.Dimension), bs[n:])
	n += ord.String.Marshal(m.EmbeddingModel, bs[n:])
	n += varint.Int64.Marshal(created, bs[n:])
	ord.String.Marshal(checksum, bs[n:])
	return bs
}

// UnmarshalManifest deserializes a Manifest from bytes.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	d := &decoder{bs: data}
	m := &Manifest{}
	m.Version = d.uint64()
	m.Count = d.int()
	m.Dimension = d.int()
	m.EmbeddingModel = d.string()
	m.CreatedAt = time.UnixMicro(d.int64()).UTC()
	if checksum := d.string(); checksum != "" {
		m.Checksum = []byte(checksum)
	}

	if err := d.finish(); err != nil {
		return nil, err
	}
	return m, nil
}

// decoder reads mus-encoded values, remembering the first error so callers
// can decode a whole record and check once.
type decoder struct {
	bs  []byte
	n   int
	err error
}

func (d *decoder) remaining() []byte {
	return d.bs[d.n:]
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
}

func (d *decoder) uint64() uint64 {
	if d.err != nil {
		return 0
	}
	if len(d.remaining()) == 0 {
		d.fail(ErrTruncatedData)
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(d.remaining())
	if err != nil {
		d.fail(err)
		return 0
	}
	d.n += n
	return v
}

func (d *decoder) int64() int64 {
	if d.err != nil {
		return 0
	}
	if len(d.remaining()) == 0 {
		d.fail(ErrTruncatedData)
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(d.remaining())
	if err != nil {
		d.fail(err)
		return 0
	}
	d.n += n
	return v
}

// int reads a non-negative int.
func (d *decoder) int() int {
	v := d.uint64()
	if v > uint64(math.MaxInt) {
		d.fail(fmt.Errorf("value %d overflows int", v))
		return 0
	}
	return int(v)
}

// length reads an element count and rejects counts that cannot fit in the
// remaining input given the minimum encoded size of one element.
func (d *decoder) length(minElemSize int) int {
	count := d.uint64()
	if d.err != nil {
		return 0
	}
	if count > uint64(len(d.remaining())/minElemSize) {
		d.fail(fmt.Errorf("%w: %d elements declared, %d bytes left",
			ErrTruncatedData, count, len(d.remaining())))
		return 0
	}
	return int(count)
}

func (d *decoder) string() string {
	if d.err != nil {
		return ""
	}
	if len(d.remaining()) == 0 {
		d.fail(ErrTruncatedData)
		return ""
	}
	v, n, err := ord.String.Unmarshal(d.remaining())
	if err != nil {
		d.fail(err)
		return ""
	}
	d.n += n
	return v
}

func (d *decoder) float32() float32 {
	if d.err != nil {
		return 0
	}
	if len(d.remaining()) < raw.Float32.Size(0) {
		d.fail(ErrTruncatedData)
		return 0
	}
	v, n, err := raw.Float32.Unmarshal(d.remaining())
	if err != nil {
		d.fail(err)
		return 0
	}
	d.n += n
	return v
}

// finish reports the first decoding error, or trailing bytes after a
// complete record.
func (d *decoder) finish() error {
	if d.err != nil {
		return d.err
	}
	if d.n != len(d.bs) {
		return fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(d.bs)-d.n)
	}
	return nil
}
