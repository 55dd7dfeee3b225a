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

// Package config loads rainconfig settings (known words, subgraph
// endpoints, local meta files) from a YAML file layered under CLI flags,
// using koanf the way a multi-source settings loader composes providers.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Settings is the resolved rainconfig for one CLI invocation.
type Settings struct {
	Subgraphs []string `koanf:"subgraphs"`
	Words     []string `koanf:"words"`
	LocalData []string `koanf:"localData"`
}

// Load reads path (if non-empty) as YAML into a Settings, returning zero
// Settings and no error when path is empty (no rainconfig file given).
func Load(path string) (Settings, error) {
	var s Settings
	if path == "" {
		return s, nil
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return s, err
	}
	if err := k.Unmarshal("", &s); err != nil {
		return s, err
	}
	return s, nil
}
