/*
Copyright 2026 The Tunebench Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"testing"
)

func TestStripCommentsLineAndBlock(t *testing.T) {
	src := []byte(`{
  // a line comment
  "name": "host-provision", /* trailing block */
  "url": "http://example.com", // not/*a block*/
  "note": "contains // not a comment and /* not a block */"
}`)
	stripped := StripComments(src)

	var out map[string]any
	if err := json.Unmarshal(stripped, &out); err != nil {
		t.Fatalf("stripped document did not parse as JSON: %v\n%s", err, stripped)
	}
	if out["name"] != "host-provision" {
		t.Fatalf("unexpected name: %v", out["name"])
	}
	if out["note"] != "contains // not a comment and /* not a block */" {
		t.Fatalf("string literal corrupted: %v", out["note"])
	}
}

func TestStripCommentsEscapedQuote(t *testing.T) {
	src := []byte(`{"note": "a \"quoted\" // word"}`)
	stripped := StripComments(src)
	var out map[string]string
	if err := json.Unmarshal(stripped, &out); err != nil {
		t.Fatalf("unexpected parse error: %v\n%s", err, stripped)
	}
	if out["note"] != `a "quoted" // word` {
		t.Fatalf("got %q", out["note"])
	}
}
