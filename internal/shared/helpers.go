// Package shared provides common utility functions used across multiple
// packages in the buildplan codebase.
package shared

import (
	"fmt"
	"sort"
	"strings"

	"buildplan/internal/types"
)

// CatalogAlias turns an artifact id into a Gradle version catalog alias:
// lower case, with '.' and '_' replaced by '-'.
func CatalogAlias(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	replacer := strings.NewReplacer("_", "-", ".", "-")
	return replacer.Replace(lower)
}

// CatalogAliases assigns a unique alias to every identity. Artifacts whose
// ids collide across groups are prefixed with their group. Identities that
// still collide after prefixing get a numeric suffix in identity order.
func CatalogAliases(ids []types.Identity) map[types.Identity]string {
	sorted := append([]types.Identity(nil), ids...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	counts := map[string]int{}
	for _, id := range sorted {
		counts[CatalogAlias(id.ArtifactID)]++
	}
	candidates := make(map[types.Identity]string, len(sorted))
	taken := map[string]int{}
	for _, id := range sorted {
		alias := CatalogAlias(id.ArtifactID)
		if counts[alias] > 1 {
			alias = CatalogAlias(id.GroupID + "-" + id.ArtifactID)
		}
		candidates[id] = alias
		taken[alias]++
	}

	aliases := make(map[types.Identity]string, len(sorted))
	assigned := map[string]bool{}
	for _, id := range sorted {
		if _, done := aliases[id]; done {
			continue
		}
		alias := candidates[id]
		if assigned[alias] {
			base := alias
			for n := 2; ; n++ {
				alias = fmt.Sprintf("%s-%d", base, n)
				if taken[alias] == 0 && !assigned[alias] {
					break
				}
			}
		}
		assigned[alias] = true
		aliases[id] = alias
	}
	return aliases
}
