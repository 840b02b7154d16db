package types

import "sort"

// ResolvedDependency is one pinned entry of a BuildPlan.
type ResolvedDependency struct {
	GroupID        string   `yaml:"group" json:"group" toml:"group"`
	ArtifactID     string   `yaml:"artifact" json:"artifact" toml:"artifact"`
	Version        string   `yaml:"version" json:"version" toml:"version"`
	Configurations []string `yaml:"configurations" json:"configurations" toml:"configurations"`
}

func (d ResolvedDependency) Identity() Identity {
	return Identity{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

// BuildPlan is the output of a successful resolution. It is built once
// by NewBuildPlan and never changes afterwards: every accessor hands out
// copies. A changed input produces a new plan.
type BuildPlan struct {
	platform     PlatformTarget
	dependencies []ResolvedDependency
	toggles      ReleaseToggles
	warnings     []Warning
	fingerprint  string
}

// PlanDocument is the serializable form of a BuildPlan.
type PlanDocument struct {
	Platform     PlatformTarget       `yaml:"platform" json:"platform" toml:"platform"`
	Dependencies []ResolvedDependency `yaml:"resolved_dependencies" json:"resolved_dependencies" toml:"resolved_dependencies"`
	Toggles      ReleaseToggles       `yaml:"toggles" json:"toggles" toml:"toggles"`
	Warnings     []Warning            `yaml:"warnings" json:"warnings" toml:"warnings"`
	Fingerprint  string               `yaml:"fingerprint" json:"fingerprint" toml:"fingerprint"`
}

func NewBuildPlan(platform PlatformTarget, deps []ResolvedDependency, toggles ReleaseToggles, warnings []Warning, fingerprint string) BuildPlan {
	return BuildPlan{
		platform:     platform,
		dependencies: sortedDependencies(deps),
		toggles:      toggles.Clone(),
		warnings:     copyWarnings(warnings),
		fingerprint:  fingerprint,
	}
}

// PlanFromDocument rebuilds a plan from its serialized form. The
// fingerprint is taken as written; callers that need to trust it must
// recompute it.
func PlanFromDocument(doc PlanDocument) BuildPlan {
	return NewBuildPlan(doc.Platform, doc.Dependencies, doc.Toggles, doc.Warnings, doc.Fingerprint)
}

func (p BuildPlan) Platform() PlatformTarget {
	return p.platform
}

func (p BuildPlan) Dependencies() []ResolvedDependency {
	return sortedDependencies(p.dependencies)
}

// Resolved returns the identity to pinned version mapping.
func (p BuildPlan) Resolved() map[Identity]string {
	out := make(map[Identity]string, len(p.dependencies))
	for _, dep := range p.dependencies {
		out[dep.Identity()] = dep.Version
	}
	return out
}

func (p BuildPlan) Version(id Identity) (string, bool) {
	for _, dep := range p.dependencies {
		if dep.Identity() == id {
			return dep.Version, true
		}
	}
	return "", false
}

func (p BuildPlan) Toggles() ReleaseToggles {
	return p.toggles.Clone()
}

func (p BuildPlan) Warnings() []Warning {
	return copyWarnings(p.warnings)
}

func (p BuildPlan) Fingerprint() string {
	return p.fingerprint
}

func (p BuildPlan) Document() PlanDocument {
	return PlanDocument{
		Platform:     p.platform,
		Dependencies: p.Dependencies(),
		Toggles:      p.Toggles(),
		Warnings:     p.Warnings(),
		Fingerprint:  p.fingerprint,
	}
}

func sortedDependencies(deps []ResolvedDependency) []ResolvedDependency {
	out := make([]ResolvedDependency, 0, len(deps))
	for _, dep := range deps {
		configs := append([]string{}, dep.Configurations...)
		sort.Strings(configs)
		dep.Configurations = configs
		out = append(out, dep)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Identity().Less(out[j].Identity())
	})
	return out
}

func copyWarnings(warnings []Warning) []Warning {
	out := make([]Warning, 0, len(warnings))
	for _, warning := range warnings {
		warning.Identities = append([]string(nil), warning.Identities...)
		out = append(out, warning)
	}
	return out
}
