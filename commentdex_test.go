package commentdex

import (
	"encoding/json"
	"strings"
	"testing"
)

func decodeQuery(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal query: %v", err)
	}
	return out
}

// dig walks nested JSON objects and fails the test on a missing step.
func dig(t *testing.T, v any, path ...string) any {
	t.Helper()
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			t.Fatalf("dig %v: not an object at %q", path, key)
		}
		v, ok = m[key]
		if !ok {
			t.Fatalf("dig %v: key %q missing", path, key)
		}
	}
	return v
}

func TestTranslate_DefaultCascade(t *testing.T) {
	raw, err := New().Translate(map[string]any{"search": "pasta recipe"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := decodeQuery(t, raw)

	should, ok := dig(t, q, "query", "bool", "should").([]any)
	if !ok {
		t.Fatal("query.bool.should is not a list")
	}
	if len(should) != 3 {
		t.Fatalf("len(should) = %d, want 3", len(should))
	}

	if got := dig(t, should[0], "multi_match", "type"); got != "phrase" {
		t.Errorf("tier 0 type = %v, want phrase", got)
	}
	if got := dig(t, should[0], "multi_match", "boost"); got != float64(4) {
		t.Errorf("phrase boost = %v, want 4", got)
	}
	if got := dig(t, should[1], "multi_match", "boost"); got != float64(2) {
		t.Errorf("term boost = %v, want 2", got)
	}
	if got := dig(t, should[1], "multi_match", "operator"); got != "and" {
		t.Errorf("term operator = %v, want and", got)
	}
	if got := dig(t, should[2], "multi_match", "fuzziness"); got != float64(1) {
		t.Errorf("fuzziness = %v, want 1", got)
	}

	fields, _ := dig(t, should[0], "multi_match", "fields").([]any)
	found := false
	for _, f := range fields {
		if f == "comment_content" {
			found = true
		}
	}
	if !found {
		t.Errorf("fields = %v, want comment_content present", fields)
	}
}

func TestNew_Options(t *testing.T) {
	tr := New(
		WithSearchFields([]string{"comment_content"}),
		WithPhraseBoost(8),
		WithTermBoost(3),
		WithFuzziness(2),
		WithMaxResultWindow(500),
	)
	raw, err := tr.Translate(map[string]any{"search": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := decodeQuery(t, raw)

	if got := dig(t, q, "size"); got != float64(500) {
		t.Errorf("size = %v, want 500", got)
	}
	should := dig(t, q, "query", "bool", "should").([]any)
	if got := dig(t, should[0], "multi_match", "boost"); got != float64(8) {
		t.Errorf("phrase boost = %v, want 8", got)
	}
	if got := dig(t, should[1], "multi_match", "boost"); got != float64(3) {
		t.Errorf("term boost = %v, want 3", got)
	}
	if got := dig(t, should[2], "multi_match", "fuzziness"); got != float64(2) {
		t.Errorf("fuzziness = %v, want 2", got)
	}
	fields := dig(t, should[0], "multi_match", "fields").([]any)
	if len(fields) != 1 || fields[0] != "comment_content" {
		t.Errorf("fields = %v, want [comment_content]", fields)
	}
}

func TestTranslate_NoArgsIsMatchAll(t *testing.T) {
	raw, err := New().Translate(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := decodeQuery(t, raw)

	if got := dig(t, q, "query", "match_all", "boost"); got != float64(1) {
		t.Errorf("match_all boost = %v, want 1", got)
	}
	if got := dig(t, q, "size"); got != float64(10000) {
		t.Errorf("size = %v, want 10000", got)
	}
	if _, ok := q["post_filter"]; ok {
		t.Error("post_filter present without filters")
	}
}

func TestTranslate_FiltersLandInPostFilter(t *testing.T) {
	raw, err := New().Translate(map[string]any{
		"post_id": 7,
		"status":  "approve",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := decodeQuery(t, raw)

	must, ok := dig(t, q, "post_filter", "bool", "must").([]any)
	if !ok {
		t.Fatal("post_filter.bool.must is not a list")
	}
	if len(must) != 2 {
		t.Fatalf("len(must) = %d, want 2", len(must))
	}
	if got := dig(t, must[0], "term", "comment_post_ID"); got != float64(7) {
		t.Errorf("post filter = %v, want 7", got)
	}
	if got := dig(t, must[1], "term", "comment_approved"); got != float64(1) {
		t.Errorf("status filter = %v, want 1", got)
	}
}

func TestMapping_DefaultVersion(t *testing.T) {
	raw, err := Mapping("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(raw), `"settings"`) {
		t.Error("mapping body missing settings block")
	}
}

func TestMapping_UnknownVersion(t *testing.T) {
	_, err := Mapping("es99")
	if err == nil {
		t.Fatal("expected error for unknown version")
	}
	if !strings.HasPrefix(err.Error(), "commentdex: ") {
		t.Errorf("error = %q, want commentdex prefix", err)
	}
}

func TestMappingVersions(t *testing.T) {
	versions := MappingVersions()
	if len(versions) == 0 {
		t.Fatal("no mapping versions")
	}
	found := false
	for _, v := range versions {
		if v == "es7" {
			found = true
		}
	}
	if !found {
		t.Errorf("versions = %v, want es7 present", versions)
	}
}
