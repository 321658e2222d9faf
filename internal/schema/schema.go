// Package schema serves the version-keyed index mapping artifacts that
// compiled queries assume. The engine only hands these out; it never
// provisions an index itself.
package schema

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

//go:embed mappings/*.json
var mappings embed.FS

// DefaultVersion is the mapping served when no version is requested.
const DefaultVersion = "es7"

// ErrUnknownVersion marks a mapping version this build does not carry.
var ErrUnknownVersion = errors.New("unknown mapping version")

// Mapping returns the artifact for a backend major version. An empty
// version selects DefaultVersion.
func Mapping(version string) (json.RawMessage, error) {
	if version == "" {
		version = DefaultVersion
	}
	raw, err := mappings.ReadFile("mappings/" + version + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}
	return raw, nil
}

// Versions lists the embedded mapping versions in sorted order.
func Versions() []string {
	entries, err := mappings.ReadDir("mappings")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(out)
	return out
}
