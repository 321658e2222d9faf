package schema

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestMapping_DefaultVersion(t *testing.T) {
	raw, err := Mapping("")
	if err != nil {
		t.Fatalf("Mapping(\"\"): %v", err)
	}
	def, err := Mapping(DefaultVersion)
	if err != nil {
		t.Fatalf("Mapping(%q): %v", DefaultVersion, err)
	}
	if string(raw) != string(def) {
		t.Fatal("empty version must serve the default artifact")
	}
}

func TestMapping_UnknownVersion(t *testing.T) {
	for _, version := range []string{"es2", "latest", "../schema"} {
		_, err := Mapping(version)
		if !errors.Is(err, ErrUnknownVersion) {
			t.Fatalf("Mapping(%q) error = %v, want ErrUnknownVersion", version, err)
		}
	}
}

func TestVersions(t *testing.T) {
	got := Versions()
	want := []string{"es5", "es7"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Versions() = %v, want %v", got, want)
	}
}

func TestMapping_DeclaresQueryTargets(t *testing.T) {
	raw, err := Mapping("es7")
	if err != nil {
		t.Fatalf("Mapping: %v", err)
	}

	var artifact struct {
		Mappings struct {
			DynamicTemplates []map[string]struct {
				PathMatch string `json:"path_match"`
			} `json:"dynamic_templates"`
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"mappings"`
	}
	if err := json.Unmarshal(raw, &artifact); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}

	for _, field := range []string{
		"comment_ID", "comment_post_ID", "comment_post_author_id",
		"comment_post_status", "comment_post_type", "comment_post_name",
		"comment_post_parent", "comment_author", "comment_author_email",
		"comment_author_url", "comment_author_IP", "comment_date",
		"comment_date_gmt", "comment_content", "comment_karma",
		"comment_approved", "comment_agent", "comment_type",
		"comment_parent", "user_id", "date_terms",
	} {
		if _, ok := artifact.Mappings.Properties[field]; !ok {
			t.Errorf("mapping lacks field %q", field)
		}
	}

	if len(artifact.Mappings.DynamicTemplates) != 1 {
		t.Fatalf("expected one dynamic template, got %d", len(artifact.Mappings.DynamicTemplates))
	}
	tmpl, ok := artifact.Mappings.DynamicTemplates[0]["meta_value_groups"]
	if !ok || tmpl.PathMatch != "meta.*" {
		t.Fatalf("meta dynamic template missing or mistargeted: %+v", artifact.Mappings.DynamicTemplates[0])
	}
}
