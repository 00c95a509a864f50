// Copyright 2015 Google Inc. All Rights Reserved.
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

package mount

import (
	"strings"
)

// ParseOptions parse an option string in the format accepted by mount(8) and
// generated for its external mount helpers.
//
// It is assumed that option name and values do not contain commas, and that
// the first equals sign in an option is the name/value separator. There is no
// support for escaping.
//
// For example, if the input is
//
//	user,foo=bar=baz,qux
//
// then the following will be inserted into the map.
//
//	"user": "",
//	"foo": "bar=baz",
//	"qux": "",
func ParseOptions(m map[string]string, s string) {
	for _, p := range strings.Split(s, ",") {
		if p == "" {
			continue
		}

		var name string
		var value string

		// Split on the first equals sign.
		if equalsIndex := strings.IndexByte(p, '='); equalsIndex != -1 {
			name = p[:equalsIndex]
			value = p[equalsIndex+1:]
		} else {
			name = p
		}

		m[name] = value
	}
}

// ParseOptionList handles a repeated "-o" flag. Later occurrences of an
// option win.
func ParseOptionList(list []string) map[string]string {
	m := make(map[string]string)
	for _, o := range list {
		ParseOptions(m, o)
	}
	return m
}
