package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"buildplan/internal/types"
)

// Fingerprint hashes the canonical form of a plan. Dependencies must
// already be in identity order, which is how the resolver produces them.
func Fingerprint(platform types.PlatformTarget, deps []types.ResolvedDependency, toggles types.ReleaseToggles, warnings []types.Warning) string {
	digest := xxhash.New()
	write := func(parts ...string) {
		_, _ = digest.WriteString(strings.Join(parts, "\x1f"))
		_, _ = digest.WriteString("\n")
	}
	write("platform",
		strconv.Itoa(platform.MinVersion),
		strconv.Itoa(platform.TargetVersion),
		strconv.Itoa(platform.CompileVersion),
	)
	for _, dep := range deps {
		write("dependency", dep.GroupID, dep.ArtifactID, dep.Version, strings.Join(dep.Configurations, ","))
	}
	write("minify", strconv.FormatBool(toggles.Minify))
	write("desugaring", strconv.FormatBool(toggles.Desugaring))
	for _, rule := range toggles.ProguardRuleFiles {
		write("rule", rule)
	}
	for _, warning := range warnings {
		write("warning", string(warning.Kind), warning.Message, strings.Join(warning.Identities, ","))
	}
	return fmt.Sprintf("%016x", digest.Sum64())
}

// PlanFingerprint recomputes the fingerprint of an existing plan.
func PlanFingerprint(plan types.BuildPlan) string {
	return Fingerprint(plan.Platform(), plan.Dependencies(), plan.Toggles(), plan.Warnings())
}
