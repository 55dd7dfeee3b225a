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

package meta

import (
	"context"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/opencontainers/go-digest"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	items := []Item{
		{Magic: MagicDotrainV1, Bytes: []byte("hello")},
		{Magic: MagicInterpreterCallerMetaV1, Bytes: []byte("world")},
	}
	blob := Encode(items)
	got, err := Decode(blob)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, items))
}

func TestIsConsumable(t *testing.T) {
	qt.Assert(t, qt.IsFalse(IsConsumable(nil)))
	qt.Assert(t, qt.IsTrue(IsConsumable([]Item{{Magic: MagicDotrainV1}})))
	qt.Assert(t, qt.IsFalse(IsConsumable([]Item{{Magic: MagicDotrainV1}, {Magic: MagicDotrainV1}})))
	qt.Assert(t, qt.IsTrue(IsConsumable([]Item{{Magic: MagicDotrainV1}, {Magic: MagicInterpreterCallerMetaV1}})))
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	d := digest.FromBytes([]byte("payload"))
	_, ok := s.Get(d)
	qt.Assert(t, qt.IsFalse(ok))

	s.UpdateWith(d, []byte("payload"))
	got, ok := s.Get(d)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.DeepEquals(got, []byte("payload")))

	fetched, err := s.Search(context.Background(), d, nil)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(fetched, []byte("payload")))
}
