package comment

import (
	"strings"
	"testing"
	"time"
)

func sample() Comment {
	return Comment{
		ID:           42,
		PostID:       7,
		Author:       "Jane Doe",
		AuthorEmail:  "jane@example.com",
		AuthorURL:    "https://example.com",
		AuthorIP:     "203.0.113.9",
		Date:         time.Date(2024, 5, 2, 14, 30, 45, 0, time.UTC),
		DateGMT:      time.Date(2024, 5, 2, 12, 30, 45, 0, time.UTC),
		Content:      "Great post!",
		Karma:        3,
		Approved:     "1",
		Agent:        "Mozilla/5.0",
		Type:         "comment",
		Parent:       10,
		UserID:       5,
		PostStatus:   "publish",
		PostType:     "post",
		PostName:     "hello-world",
		PostParent:   0,
		PostAuthorID: 2,
	}
}

func TestDocument_FieldNames(t *testing.T) {
	doc := sample().Document(Policy{})

	checks := map[string]any{
		"comment_ID":             int64(42),
		"comment_post_ID":        int64(7),
		"comment_post_author_id": int64(2),
		"comment_post_status":    "publish",
		"comment_post_type":      "post",
		"comment_post_name":      "hello-world",
		"comment_post_parent":    int64(0),
		"comment_author":         "Jane Doe",
		"comment_author_email":   "jane@example.com",
		"comment_author_url":     "https://example.com",
		"comment_author_IP":      "203.0.113.9",
		"comment_date":           "2024-05-02 14:30:45",
		"comment_date_gmt":       "2024-05-02 12:30:45",
		"comment_content":        "Great post!",
		"comment_karma":          3,
		"comment_approved":       "1",
		"comment_agent":          "Mozilla/5.0",
		"comment_type":           "comment",
		"comment_parent":         int64(10),
		"user_id":                int64(5),
	}
	for field, want := range checks {
		if got, ok := doc[field]; !ok || got != want {
			t.Errorf("doc[%q] = %v (present=%v), want %v", field, got, ok, want)
		}
	}
	if _, ok := doc["meta"]; ok {
		t.Error("a comment without meta must not carry a meta key")
	}
}

func TestDocument_DateTerms(t *testing.T) {
	doc := sample().Document(Policy{})
	terms, ok := doc["date_terms"].(map[string]int)
	if !ok {
		t.Fatalf("date_terms missing or mistyped: %v", doc["date_terms"])
	}

	want := map[string]int{
		"year":          2024,
		"month":         5,
		"week":          18,
		"dayofyear":     123,
		"day":           2,
		"dayofweek":     4,
		"dayofweek_iso": 4,
		"hour":          14,
		"minute":        30,
		"second":        45,
	}
	for unit, expect := range want {
		if terms[unit] != expect {
			t.Errorf("date_terms[%q] = %d, want %d", unit, terms[unit], expect)
		}
	}
}

func TestDocument_SundayWeekdayEncoding(t *testing.T) {
	c := sample()
	c.Date = time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC) // a Sunday
	terms := c.Document(Policy{})["date_terms"].(map[string]int)

	if terms["dayofweek"] != 0 {
		t.Errorf("dayofweek = %d, want 0", terms["dayofweek"])
	}
	if terms["dayofweek_iso"] != 7 {
		t.Errorf("dayofweek_iso = %d, want 7", terms["dayofweek_iso"])
	}
}

func TestDocument_MetaValueGroups(t *testing.T) {
	c := sample()
	c.Meta = map[string][]string{
		"rating": {"42"},
		"score":  {"3.5"},
		"flag":   {"true"},
		"when":   {"2024-05-02 14:30:45"},
		"color":  {"blue", "green"},
	}
	meta, ok := c.Document(Policy{})["meta"].(map[string]map[string]any)
	if !ok {
		t.Fatal("meta groups missing")
	}

	rating := meta["rating"]
	if rating["value"] != "42" || rating["raw"] != "42" {
		t.Errorf("rating value/raw wrong: %v", rating)
	}
	if rating["long"] != int64(42) || rating["double"] != float64(42) {
		t.Errorf("rating numeric derivations wrong: %v", rating)
	}

	score := meta["score"]
	if _, hasLong := score["long"]; hasLong {
		t.Error("a fractional value must not derive a long")
	}
	if score["double"] != 3.5 {
		t.Errorf("score double = %v, want 3.5", score["double"])
	}

	if meta["flag"]["boolean"] != true {
		t.Errorf("flag boolean = %v, want true", meta["flag"]["boolean"])
	}
	if _, hasBool := meta["rating"]["boolean"]; hasBool {
		t.Error("a plain number must not derive a boolean")
	}

	when := meta["when"]
	if when["date"] != "2024-05-02" || when["datetime"] != "2024-05-02 14:30:45" || when["time"] != "14:30:45" {
		t.Errorf("timestamp derivations wrong: %v", when)
	}

	if meta["color"]["value"] != "blue" {
		t.Errorf("first meta value must win, got %v", meta["color"]["value"])
	}
}

func TestDocument_MetaPolicyFiltering(t *testing.T) {
	c := sample()
	c.Meta = map[string][]string{
		"color":      {"blue"},
		"_edit_lock": {"1714641045:1"},
		"secret":     {"hidden"},
	}
	meta := c.Document(Policy{Deny: []string{"secret"}})["meta"].(map[string]map[string]any)

	if _, ok := meta["color"]; !ok {
		t.Error("public key must survive")
	}
	if _, ok := meta["_edit_lock"]; ok {
		t.Error("protected key must drop by default")
	}
	if _, ok := meta["secret"]; ok {
		t.Error("denied key must drop")
	}
}

func TestPolicy_Allows(t *testing.T) {
	cases := []struct {
		name   string
		policy Policy
		key    string
		want   bool
	}{
		{name: "default allows public", policy: Policy{}, key: "color", want: true},
		{name: "default drops protected", policy: Policy{}, key: "_lock", want: false},
		{name: "index protected keeps underscore keys", policy: Policy{IndexProtected: true}, key: "_lock", want: true},
		{name: "allow list is exclusive", policy: Policy{Allow: []string{"color"}}, key: "size", want: false},
		{name: "allow list admits protected keys", policy: Policy{Allow: []string{"_lock"}}, key: "_lock", want: true},
		{name: "deny wins over allow", policy: Policy{Allow: []string{"color"}, Deny: []string{"color"}}, key: "color", want: false},
		{name: "empty key never survives", policy: Policy{}, key: "", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.policy.Allows(tc.key); got != tc.want {
				t.Fatalf("Allows(%q) = %v, want %v", tc.key, got, tc.want)
			}
		})
	}
}

func TestDocument_RawTruncation(t *testing.T) {
	c := sample()
	c.Meta = map[string][]string{"blob": {strings.Repeat("é", 8000)}}

	raw := c.Document(Policy{})["meta"].(map[string]map[string]any)["blob"]["raw"].(string)
	if len(raw) > maxRawBytes {
		t.Fatalf("raw is %d bytes, limit is %d", len(raw), maxRawBytes)
	}
	if !strings.HasPrefix(string([]rune(raw)), "é") {
		t.Fatal("truncation corrupted the leading rune")
	}
	value := c.Document(Policy{})["meta"].(map[string]map[string]any)["blob"]["value"].(string)
	if len(value) != 16000 {
		t.Fatalf("value must stay untruncated, got %d bytes", len(value))
	}
}
