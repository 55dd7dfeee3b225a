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

// Package diag formats diagnostics and structured debug dumps for the CLI:
// a correlation ID per invocation and a pretty-printer for ad-hoc
// inspection of parse trees when -v is passed.
package diag

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/kr/pretty"

	"github.com/rainlanguage/dotrain/errors"
)

// NewRunID returns a fresh correlation id for one CLI invocation. The CLI
// prints it once, under -v, when the run completes; FormatProblems can
// prefix problem lines with it so concurrent runs can be told apart.
func NewRunID() string {
	return uuid.New().String()
}

// Dump writes a kr/pretty rendering of v to w, prefixed by label. Used
// behind -v/--verbose; never part of the normal problem-reporting path.
func Dump(w io.Writer, label string, v any) {
	fmt.Fprintf(w, "%s:\n", label)
	fmt.Fprint(w, pretty.Sprint(v))
	fmt.Fprintln(w)
}

// FormatProblems renders a problem list as one line per problem, prefixed
// with the run id for log aggregation.
func FormatProblems(w io.Writer, runID string, problems errors.List) {
	for _, p := range problems {
		fmt.Fprintf(w, "[%s] %s\n", runID, p.Error())
	}
}
