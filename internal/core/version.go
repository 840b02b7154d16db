package core

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	debversion "github.com/knqyf263/go-deb-version"
)

// dynamicMarkers identify Gradle version selectors that float instead of
// pinning: ranges, "latest.*" and trailing "+" prefixes.
var dynamicMarkers = []string{"[", "]", "(", ")", ",", "latest."}

// versionCache memoizes parsed versions. Semantic versions are tried
// first; versions that are not semver (e.g. "1.0.0.RELEASE") fall back
// to Debian ordering, which accepts any dotted alphanumeric string.
type versionCache struct {
	sem map[string]*semver.Version
	deb map[string]debversion.Version
}

func newVersionCache() *versionCache {
	return &versionCache{
		sem: map[string]*semver.Version{},
		deb: map[string]debversion.Version{},
	}
}

func (c *versionCache) semVersion(value string) (*semver.Version, error) {
	if parsed, ok := c.sem[value]; ok {
		return parsed, nil
	}
	parsed, err := semver.NewVersion(value)
	if err != nil {
		return nil, err
	}
	c.sem[value] = parsed
	return parsed, nil
}

func (c *versionCache) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := c.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.deb[value] = parsed
	return parsed, nil
}

// pinned reports whether value is a single concrete version.
func (c *versionCache) pinned(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasSuffix(value, "+") {
		return false
	}
	for _, marker := range dynamicMarkers {
		if strings.Contains(value, marker) {
			return false
		}
	}
	if _, err := c.semVersion(value); err == nil {
		return true
	}
	_, err := c.debVersion(value)
	return err == nil
}

// compare orders two versions. Ties between distinct spellings
// ("1.0" and "1.0.0") are broken lexically so sorting stays total.
func (c *versionCache) compare(a string, b string) int {
	if cmp := c.semanticCompare(a, b); cmp != 0 {
		return cmp
	}
	return strings.Compare(a, b)
}

func (c *versionCache) semanticCompare(a string, b string) int {
	sa, errA := c.semVersion(a)
	sb, errB := c.semVersion(b)
	if errA == nil && errB == nil {
		return sa.Compare(sb)
	}
	da, errA := c.debVersion(a)
	db, errB := c.debVersion(b)
	if errA == nil && errB == nil {
		return da.Compare(db)
	}
	return 0
}

func (c *versionCache) sorted(values []string) []string {
	out := append([]string(nil), values...)
	sort.SliceStable(out, func(i, j int) bool {
		return c.compare(out[i], out[j]) < 0
	})
	return out
}

// ValidVersion reports whether value is a concrete, parseable version.
func ValidVersion(value string) bool {
	return newVersionCache().pinned(value)
}

// SortVersions orders versions ascending.
func SortVersions(values []string) []string {
	return newVersionCache().sorted(values)
}
