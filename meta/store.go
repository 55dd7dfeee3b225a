// Copyright 2018 The CUE Authors
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

// Package meta is the content-addressed metadata facade the RainDocument
// parser consults to resolve imports. The store's transport (disk, network,
// a subgraph search) is an external collaborator reached only through the
// Store interface defined here; this package owns just the read-through
// contract and the consumability check over a decoded meta-item sequence.
package meta

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/opencontainers/go-digest"
)

// Magic identifies a single tagged item inside a meta blob. Only DotrainV1
// is meaningful to this core; the others name item kinds a blob may also
// carry. IsConsumable accepts any number of non-DotrainV1 items alongside at
// most one DotrainV1 item.
type Magic uint64

const (
	MagicDotrainV1                   Magic = 0xff13a2d3601f108d
	MagicInterpreterCallerMetaV1     Magic = 0xffe5ffb4a3ff2cde
	MagicExpressionDeployerV2Bytecode Magic = 0xffdb988a8cd54978
	MagicUnknown                     Magic = 0
)

// Item is one decoded tagged meta item.
type Item struct {
	Magic Magic
	Bytes []byte
}

// Decode parses a meta blob into its sequence of tagged items.
//
// No CBOR library exists anywhere in the retrieved dependency pack (see
// DESIGN.md), so this uses a small self-describing binary encoding (a
// length-prefixed sequence of (magic uint64, length uint32, bytes) records)
// built on encoding/binary rather than hand-rolling a CBOR reader — a
// documented stdlib exception. A real deployment wires a genuine CBOR
// decoder behind this same function signature.
func Decode(blob []byte) ([]Item, error) {
	var items []Item
	for len(blob) > 0 {
		if len(blob) < 12 {
			return nil, fmt.Errorf("corrupt meta: truncated record header")
		}
		magic := Magic(binary.BigEndian.Uint64(blob[:8]))
		length := binary.BigEndian.Uint32(blob[8:12])
		blob = blob[12:]
		if uint32(len(blob)) < length {
			return nil, fmt.Errorf("corrupt meta: truncated record body")
		}
		items = append(items, Item{Magic: magic, Bytes: blob[:length]})
		blob = blob[length:]
	}
	return items, nil
}

// Encode is Decode's inverse, used by tests to build synthetic meta blobs.
func Encode(items []Item) []byte {
	var out []byte
	for _, it := range items {
		var hdr [12]byte
		binary.BigEndian.PutUint64(hdr[:8], uint64(it.Magic))
		binary.BigEndian.PutUint32(hdr[8:], uint32(len(it.Bytes)))
		out = append(out, hdr[:]...)
		out = append(out, it.Bytes...)
	}
	return out
}

// IsConsumable reports whether a decoded item sequence is consumable for
// dotrain purposes: non-empty and containing at most one DotrainV1 item.
func IsConsumable(items []Item) bool {
	if len(items) == 0 {
		return false
	}
	dotrains := 0
	for _, it := range items {
		if it.Magic == MagicDotrainV1 {
			dotrains++
		}
	}
	return dotrains <= 1
}

// DotrainBytes returns the single DotrainV1 item's payload, if present.
func DotrainBytes(items []Item) ([]byte, bool) {
	for _, it := range items {
		if it.Magic == MagicDotrainV1 {
			return it.Bytes, true
		}
	}
	return nil, false
}

// Store is the contract the RainDocument parser consults for import
// resolution. Get is a cache-only, never-blocking lookup; Search performs a
// remote lookup, and the parser calls it whenever Get misses (there is no
// cache-only parse mode); UpdateWith installs a verified blob, typically the
// result of a successful Search.
type Store interface {
	Get(hash digest.Digest) ([]byte, bool)
	Search(ctx context.Context, hash digest.Digest, subgraphs []string) ([]byte, error)
	UpdateWith(hash digest.Digest, blob []byte)
}

// MemStore is a reader/writer-guarded in-memory Store: the reference
// implementation used by tests and by the CLI unless --local-data-only is
// set (that mode parses with no Store at all).
// Readers (Get) are expected to be frequent; writers (UpdateWith, typically
// following a successful Search) are rare, so the guard is a sync.RWMutex
// per this module's concurrency model.
type MemStore struct {
	mu   sync.RWMutex
	data map[digest.Digest][]byte
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[digest.Digest][]byte)}
}

func (s *MemStore) Get(hash digest.Digest) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[hash]
	return b, ok
}

// Search on MemStore never reaches a network; it just re-checks the cache,
// since a bare in-memory store has no remote to search.
func (s *MemStore) Search(ctx context.Context, hash digest.Digest, subgraphs []string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if b, ok := s.Get(hash); ok {
		return b, nil
	}
	return nil, fmt.Errorf("not found: %s", hash)
}

func (s *MemStore) UpdateWith(hash digest.Digest, blob []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[hash] = blob
}
