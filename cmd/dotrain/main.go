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

// Command dotrain compiles dotrain source files: parsing a RainDocument
// and composing one or more of its bindings into final rainlang text.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(Main())
}

// Main runs the dotrain command tree and returns its process exit code,
// split out from main so TestMain can drive it as a testscript binary.
func Main() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
