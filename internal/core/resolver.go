package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"buildplan/internal/policies"
	"buildplan/internal/types"
)

// DefaultDesugarNativeAPI is the platform level from which java.time and
// the other desugared library APIs ship with the runtime.
const DefaultDesugarNativeAPI = 26

// Resolver turns declared build inputs into a BuildPlan. It holds only
// settings, so one value can serve any number of concurrent calls.
type Resolver struct {
	DesugarNativeAPI int
}

func NewResolver() Resolver {
	return Resolver{DesugarNativeAPI: DefaultDesugarNativeAPI}
}

// pin collects everything declared for one identity.
type pin struct {
	versions       map[string]struct{}
	configurations map[string]struct{}
}

// Resolve validates the inputs and pins every dependency. Any failure is
// returned as a *types.ConflictReport and no plan is produced. Platform
// ordering fails fast; all other conflicts are collected so the caller
// sees them together.
func (r Resolver) Resolve(ctx context.Context, platform types.PlatformTarget, deps []types.DependencyRef, boms []types.BillOfMaterials, toggles types.ReleaseToggles) (types.BuildPlan, error) {
	logger := log.Ctx(ctx)
	if !platform.Ordered() {
		report := &types.ConflictReport{}
		report.Add(types.ErrorKindPlatformOrdering, fmt.Sprintf(
			"platform bounds out of order: min %d, target %d, compile %d",
			platform.MinVersion, platform.TargetVersion, platform.CompileVersion,
		))
		logger.Debug().Err(report).Msg("platform validation failed")
		return types.BuildPlan{}, report
	}

	report := &types.ConflictReport{}
	cache := newVersionCache()

	bomIndex, rejected := indexBoms(boms, cache, report)
	anchored, explicit := partitionDependencies(deps, cache, report)

	pins := map[types.Identity]*pin{}
	for _, dep := range explicit {
		addPin(pins, dep.Identity(), dep.Version, dep.Configuration)
	}
	var unresolved []types.DependencyRef
	for _, dep := range anchored {
		bom, ok := bomIndex[dep.BoundedBy]
		if !ok {
			if _, seen := rejected[dep.BoundedBy]; seen {
				continue
			}
			unresolved = append(unresolved, dep)
			continue
		}
		addPin(pins, dep.Identity(), bom.VersionFor(dep.Identity()), dep.Configuration)
	}
	sort.SliceStable(unresolved, func(i, j int) bool {
		return unresolved[i].Identity().Less(unresolved[j].Identity())
	})
	for _, dep := range unresolved {
		report.Add(types.ErrorKindUnresolvedBom,
			fmt.Sprintf("%s references unknown bom %s", dep.Identity(), dep.BoundedBy),
			dep.Identity().String(),
		)
	}

	identities := sortedIdentities(pins)
	for _, id := range identities {
		versions := cache.sorted(keys(pins[id].versions))
		if len(versions) > 1 {
			report.Add(types.ErrorKindVersionConflict,
				fmt.Sprintf("conflicting versions for %s: %s", id, strings.Join(versions, " vs ")),
				id.String(),
			)
		}
	}

	if conflict, failed := policies.CheckObfuscationRules(toggles); failed {
		report.Conflicts = append(report.Conflicts, conflict)
	}

	if !report.Empty() {
		logger.Debug().Int("conflicts", len(report.Conflicts)).Msg("resolution failed")
		return types.BuildPlan{}, report
	}

	warnings := policies.CheckDesugaring(platform, toggles, deps, r.nativeAPI())
	for _, warning := range warnings {
		logger.Warn().Str("kind", string(warning.Kind)).Msg(warning.Message)
	}

	resolved := make([]types.ResolvedDependency, 0, len(identities))
	for _, id := range identities {
		entry := pins[id]
		resolved = append(resolved, types.ResolvedDependency{
			GroupID:        id.GroupID,
			ArtifactID:     id.ArtifactID,
			Version:        keys(entry.versions)[0],
			Configurations: keys(entry.configurations),
		})
	}
	fingerprint := Fingerprint(platform, resolved, toggles, warnings)
	assert.NotEmpty(ctx, fingerprint, "plan fingerprint must be set")

	plan := types.NewBuildPlan(platform, resolved, toggles, warnings, fingerprint)
	logger.Debug().
		Int("resolved", len(resolved)).
		Int("warnings", len(warnings)).
		Str("fingerprint", fingerprint).
		Msg("resolver completed")
	return plan, nil
}

// ExplicitDependencies turns a plan's pins back into explicitly versioned
// refs. Resolving them with the plan's platform and toggles reproduces
// the plan.
func ExplicitDependencies(plan types.BuildPlan) []types.DependencyRef {
	var out []types.DependencyRef
	for _, dep := range plan.Dependencies() {
		configurations := dep.Configurations
		if len(configurations) == 0 {
			configurations = []string{types.ConfigurationImplementation}
		}
		for _, configuration := range configurations {
			out = append(out, types.DependencyRef{
				GroupID:       dep.GroupID,
				ArtifactID:    dep.ArtifactID,
				Version:       dep.Version,
				Configuration: configuration,
				Source:        "plan",
			})
		}
	}
	return out
}

func (r Resolver) nativeAPI() int {
	if r.DesugarNativeAPI <= 0 {
		return DefaultDesugarNativeAPI
	}
	return r.DesugarNativeAPI
}

// indexBoms maps BOMs by name. A BOM without a concrete version, or two
// BOMs sharing a name with different versions, are reported and returned
// as rejected so their dependents are not reported a second time.
func indexBoms(boms []types.BillOfMaterials, cache *versionCache, report *types.ConflictReport) (map[string]types.BillOfMaterials, map[string]struct{}) {
	byName := map[string][]types.BillOfMaterials{}
	rejected := map[string]struct{}{}
	for _, bom := range boms {
		name := strings.TrimSpace(bom.Name)
		if name == "" {
			report.Add(types.ErrorKindInvalidDependency, "bom name must not be empty", "bom:")
			continue
		}
		if !cache.pinned(bom.Version) {
			report.Add(types.ErrorKindInvalidDependency,
				fmt.Sprintf("bom %s has no concrete version: %q", name, bom.Version),
				"bom:"+name,
			)
			rejected[name] = struct{}{}
			continue
		}
		if invalid := invalidManagedPins(bom, cache); len(invalid) > 0 {
			for _, key := range invalid {
				report.Add(types.ErrorKindInvalidDependency,
					fmt.Sprintf("bom %s pins %s to a non-concrete version: %q", name, key, bom.Managed[key]),
					key,
				)
			}
			rejected[name] = struct{}{}
			continue
		}
		byName[name] = append(byName[name], bom)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	index := map[string]types.BillOfMaterials{}
	for _, name := range names {
		entries := byName[name]
		versions := map[string]struct{}{}
		for _, bom := range entries {
			versions[bom.Version] = struct{}{}
		}
		if len(versions) > 1 {
			report.Add(types.ErrorKindVersionConflict,
				fmt.Sprintf("conflicting versions for bom %s: %s", name, strings.Join(cache.sorted(keys(versions)), " vs ")),
				"bom:"+name,
			)
			rejected[name] = struct{}{}
			continue
		}
		index[name] = entries[0]
	}
	return index, rejected
}

func invalidManagedPins(bom types.BillOfMaterials, cache *versionCache) []string {
	var invalid []string
	for key, version := range bom.Managed {
		if !cache.pinned(version) {
			invalid = append(invalid, key)
		}
	}
	sort.Strings(invalid)
	return invalid
}

// partitionDependencies splits refs into BOM-anchored and explicitly
// versioned sets, reporting refs that are neither or both.
func partitionDependencies(deps []types.DependencyRef, cache *versionCache, report *types.ConflictReport) ([]types.DependencyRef, []types.DependencyRef) {
	var anchored, explicit []types.DependencyRef
	for _, dep := range deps {
		dep.GroupID = strings.TrimSpace(dep.GroupID)
		dep.ArtifactID = strings.TrimSpace(dep.ArtifactID)
		dep.Version = strings.TrimSpace(dep.Version)
		dep.BoundedBy = strings.TrimSpace(dep.BoundedBy)
		if strings.TrimSpace(dep.Configuration) == "" {
			dep.Configuration = types.ConfigurationImplementation
		}
		id := dep.Identity().String()
		switch {
		case dep.GroupID == "" || dep.ArtifactID == "":
			report.Add(types.ErrorKindInvalidDependency,
				fmt.Sprintf("dependency identity is incomplete: %q", id), id)
		case dep.Version != "" && dep.BoundedBy != "":
			report.Add(types.ErrorKindInvalidDependency,
				fmt.Sprintf("%s declares version %s and bom %s; a bom-anchored dependency must not carry its own version", id, dep.Version, dep.BoundedBy),
				id)
		case dep.Version == "" && dep.BoundedBy == "":
			report.Add(types.ErrorKindInvalidDependency,
				fmt.Sprintf("%s declares neither a version nor a bom", id), id)
		case dep.BoundedBy != "":
			anchored = append(anchored, dep)
		case !cache.pinned(dep.Version):
			report.Add(types.ErrorKindInvalidDependency,
				fmt.Sprintf("%s has no concrete version: %q", id, dep.Version), id)
		default:
			explicit = append(explicit, dep)
		}
	}
	return anchored, explicit
}

func addPin(pins map[types.Identity]*pin, id types.Identity, version string, configuration string) {
	entry, ok := pins[id]
	if !ok {
		entry = &pin{
			versions:       map[string]struct{}{},
			configurations: map[string]struct{}{},
		}
		pins[id] = entry
	}
	entry.versions[version] = struct{}{}
	entry.configurations[configuration] = struct{}{}
}

func sortedIdentities(pins map[types.Identity]*pin) []types.Identity {
	out := make([]types.Identity, 0, len(pins))
	for id := range pins {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})
	return out
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
