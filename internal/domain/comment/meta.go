package comment

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// maxRawBytes caps the raw meta sub-field so worst-case UTF-8 stays
// inside the backend's keyword byte limit.
const maxRawBytes = 10922

// Policy decides which meta keys are indexed.
type Policy struct {
	// Allow, when non-empty, is the only set of keys that survive.
	Allow []string
	// Deny lists keys that are always removed.
	Deny []string
	// IndexProtected keeps leading-underscore keys that are not
	// explicitly allowed.
	IndexProtected bool
}

// Allows reports whether key survives meta filtering. Deny wins over
// Allow; leading-underscore keys drop unless explicitly allowed.
func (p Policy) Allows(key string) bool {
	if key == "" {
		return false
	}
	for _, denied := range p.Deny {
		if key == denied {
			return false
		}
	}
	if len(p.Allow) > 0 {
		for _, allowed := range p.Allow {
			if key == allowed {
				return true
			}
		}
		return false
	}
	if strings.HasPrefix(key, "_") {
		return p.IndexProtected
	}
	return true
}

// metaGroups builds the typed value group for each surviving meta key
// from its first value.
func metaGroups(meta map[string][]string, policy Policy) map[string]map[string]any {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]map[string]any)
	for key, values := range meta {
		if len(values) == 0 || !policy.Allows(key) {
			continue
		}
		out[key] = valueGroup(values[0])
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// valueGroup derives the per-type sub-fields for one meta value. Typed
// entries are best-effort and absent when the value does not parse.
func valueGroup(raw string) map[string]any {
	group := map[string]any{
		"value": raw,
		"raw":   truncate(raw, maxRawBytes),
	}

	trimmed := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		group["long"] = n
		group["double"] = float64(n)
	} else if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		group["double"] = f
	}

	if b, ok := parseBool(trimmed); ok {
		group["boolean"] = b
	}

	if ts, ok := parseTimestamp(trimmed); ok {
		group["date"] = ts.Format("2006-01-02")
		group["datetime"] = ts.Format(DateFormat)
		group["time"] = ts.Format("15:04:05")
	}
	return group
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "1", "true", "on", "yes":
		return true, true
	case "0", "false", "off", "no":
		return false, true
	}
	return false, false
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{DateFormat, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
