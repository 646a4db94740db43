package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseTag parses a tag name as a semantic version. A single leading "v" is
// accepted; anything else must be strict semver.
func ParseTag(name string) (*semver.Version, error) {
	return semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(name), "v"))
}

// Latest returns the highest-precedence version among tags and the tag name
// it was parsed from. Tags that are not semver are skipped. Returns nil when
// no tag parses.
func Latest(tags []string) (*semver.Version, string) {
	var (
		latest *semver.Version
		name   string
	)
	for _, t := range tags {
		v, err := ParseTag(t)
		if err != nil {
			continue
		}
		if latest == nil || v.GreaterThan(latest) {
			latest = v
			name = t
		}
	}
	return latest, name
}

// FormatTag renders v as a tag name with the given prefix.
func FormatTag(prefix string, v *semver.Version) string {
	return prefix + v.String()
}

// SplitKeywords splits a comma-separated keyword list, trimming whitespace
// and dropping empty entries.
func SplitKeywords(csv string) []string {
	var out []string
	for _, k := range strings.Split(csv, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
