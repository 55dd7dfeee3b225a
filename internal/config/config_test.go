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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestLoadEmptyPath(t *testing.T) {
	s, err := Load("")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(s.Subgraphs, 0))
	qt.Assert(t, qt.HasLen(s.Words, 0))
	qt.Assert(t, qt.HasLen(s.LocalData, 0))
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rainconfig.yaml")
	content := "subgraphs:\n  - https://example.com/subgraph\nwords:\n  - add\n  - sub\nlocalData:\n  - ./meta.rain.meta\n"
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(content), 0o644)))

	s, err := Load(path)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(s.Subgraphs, []string{"https://example.com/subgraph"}))
	qt.Assert(t, qt.DeepEquals(s.Words, []string{"add", "sub"}))
	qt.Assert(t, qt.DeepEquals(s.LocalData, []string{"./meta.rain.meta"}))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	qt.Assert(t, qt.IsNotNil(err))
}
