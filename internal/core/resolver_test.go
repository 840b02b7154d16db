package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildplan/internal/types"
)

var firebaseAuth = types.Identity{GroupID: "com.google.firebase", ArtifactID: "firebase-auth"}

func firebaseBom() types.BillOfMaterials {
	return types.BillOfMaterials{
		Name:       "firebase-bom",
		GroupID:    "com.google.firebase",
		ArtifactID: "firebase-bom",
		Version:    "33.13.0",
	}
}

func explicitDep(group, artifact, version string) types.DependencyRef {
	return types.DependencyRef{GroupID: group, ArtifactID: artifact, Version: version}
}

func bomDep(group, artifact, bom string) types.DependencyRef {
	return types.DependencyRef{GroupID: group, ArtifactID: artifact, BoundedBy: bom}
}

func requireReport(t *testing.T, err error) *types.ConflictReport {
	t.Helper()
	require.Error(t, err)
	var report *types.ConflictReport
	require.True(t, errors.As(err, &report), "expected conflict report, got %T", err)
	return report
}

func TestResolveEmptyDependencySet(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	plan, err := NewResolver().Resolve(t.Context(), platform, nil, nil, types.ReleaseToggles{})
	require.NoError(t, err)
	assert.Empty(t, plan.Dependencies())
	assert.Empty(t, plan.Warnings())
	assert.Equal(t, platform, plan.Platform())
	assert.NotEmpty(t, plan.Fingerprint())
}

func TestResolveBomAnchoredDependency(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 36}
	deps := []types.DependencyRef{bomDep("com.google.firebase", "firebase-auth", "firebase-bom")}

	plan, err := NewResolver().Resolve(t.Context(), platform, deps, []types.BillOfMaterials{firebaseBom()}, types.ReleaseToggles{})
	require.NoError(t, err)

	version, ok := plan.Version(firebaseAuth)
	require.True(t, ok)
	assert.Equal(t, "33.13.0", version)

	want := []types.ResolvedDependency{{
		GroupID:        "com.google.firebase",
		ArtifactID:     "firebase-auth",
		Version:        "33.13.0",
		Configurations: []string{types.ConfigurationImplementation},
	}}
	if diff := cmp.Diff(want, plan.Dependencies()); diff != "" {
		t.Fatalf("unexpected dependencies (-want +got):\n%s", diff)
	}
}

func TestResolveMinifyWithoutRules(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 36}
	deps := []types.DependencyRef{bomDep("com.google.firebase", "firebase-auth", "firebase-bom")}

	_, err := NewResolver().Resolve(t.Context(), platform, deps, []types.BillOfMaterials{firebaseBom()},
		types.ReleaseToggles{Minify: true, ProguardRuleFiles: []string{}})
	report := requireReport(t, err)
	assert.Equal(t, []types.ErrorKind{types.ErrorKindMissingObfuscationRules}, report.Kinds())
}

func TestResolveExplicitVersionConflict(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	deps := []types.DependencyRef{
		explicitDep("g", "a", "2.0.0"),
		explicitDep("g", "a", "1.0.0"),
	}

	_, err := NewResolver().Resolve(t.Context(), platform, deps, nil, types.ReleaseToggles{})
	report := requireReport(t, err)
	require.Len(t, report.Conflicts, 1)
	conflict := report.Conflicts[0]
	assert.Equal(t, types.ErrorKindVersionConflict, conflict.Kind)
	assert.Equal(t, "conflicting versions for g:a: 1.0.0 vs 2.0.0", conflict.Message)
	assert.Equal(t, []string{"g:a"}, conflict.Identities)
}

func TestResolvePlatformOrdering(t *testing.T) {
	tests := []struct {
		name     string
		platform types.PlatformTarget
	}{
		{name: "min above target", platform: types.PlatformTarget{MinVersion: 36, TargetVersion: 35, CompileVersion: 36}},
		{name: "target above compile", platform: types.PlatformTarget{MinVersion: 30, TargetVersion: 36, CompileVersion: 35}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := []types.DependencyRef{
				explicitDep("g", "a", "1.0.0"),
				explicitDep("g", "a", "2.0.0"),
			}
			_, err := NewResolver().Resolve(t.Context(), tt.platform, deps, nil, types.ReleaseToggles{Minify: true})
			report := requireReport(t, err)
			assert.Equal(t, []types.ErrorKind{types.ErrorKindPlatformOrdering}, report.Kinds(),
				"platform ordering must fail before other checks run")
		})
	}
}

func TestResolveEqualPlatformBounds(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 35, TargetVersion: 35, CompileVersion: 35}
	_, err := NewResolver().Resolve(t.Context(), platform, nil, nil, types.ReleaseToggles{})
	require.NoError(t, err)
}

func TestResolveUnresolvedBom(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	deps := []types.DependencyRef{
		bomDep("com.google.firebase", "firebase-firestore", "firebase-bom"),
		bomDep("androidx.compose.ui", "ui", "compose-bom"),
	}
	_, err := NewResolver().Resolve(t.Context(), platform, deps, []types.BillOfMaterials{firebaseBom()}, types.ReleaseToggles{})
	report := requireReport(t, err)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, types.ErrorKindUnresolvedBom, report.Conflicts[0].Kind)
	assert.Equal(t, []string{"androidx.compose.ui:ui"}, report.Conflicts[0].Identities)
}

func TestResolveBomManagedVersions(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	bom := firebaseBom()
	bom.Managed = map[string]string{firebaseAuth.String(): "23.2.0"}
	deps := []types.DependencyRef{
		bomDep("com.google.firebase", "firebase-auth", "firebase-bom"),
		bomDep("com.google.firebase", "firebase-firestore", "firebase-bom"),
	}

	plan, err := NewResolver().Resolve(t.Context(), platform, deps, []types.BillOfMaterials{bom}, types.ReleaseToggles{})
	require.NoError(t, err)
	want := map[types.Identity]string{
		firebaseAuth: "23.2.0",
		{GroupID: "com.google.firebase", ArtifactID: "firebase-firestore"}: "33.13.0",
	}
	if diff := cmp.Diff(want, plan.Resolved()); diff != "" {
		t.Fatalf("unexpected pins (-want +got):\n%s", diff)
	}
}

func TestResolveBomAndExplicitDisagree(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	deps := []types.DependencyRef{
		bomDep("com.google.firebase", "firebase-auth", "firebase-bom"),
		explicitDep("com.google.firebase", "firebase-auth", "22.0.0"),
	}
	_, err := NewResolver().Resolve(t.Context(), platform, deps, []types.BillOfMaterials{firebaseBom()}, types.ReleaseToggles{})
	report := requireReport(t, err)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "conflicting versions for com.google.firebase:firebase-auth: 22.0.0 vs 33.13.0", report.Conflicts[0].Message)
}

func TestResolveInvalidDependencies(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	tests := []struct {
		name string
		dep  types.DependencyRef
	}{
		{name: "version and bom", dep: types.DependencyRef{GroupID: "g", ArtifactID: "a", Version: "1.0.0", BoundedBy: "firebase-bom"}},
		{name: "neither version nor bom", dep: types.DependencyRef{GroupID: "g", ArtifactID: "a"}},
		{name: "missing artifact", dep: types.DependencyRef{GroupID: "g", Version: "1.0.0"}},
		{name: "dynamic plus", dep: explicitDep("g", "a", "1.+")},
		{name: "latest selector", dep: explicitDep("g", "a", "latest.release")},
		{name: "range", dep: explicitDep("g", "a", "[1.0,2.0)")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver().Resolve(t.Context(), platform, []types.DependencyRef{tt.dep},
				[]types.BillOfMaterials{firebaseBom()}, types.ReleaseToggles{})
			report := requireReport(t, err)
			assert.Equal(t, []types.ErrorKind{types.ErrorKindInvalidDependency}, report.Kinds())
		})
	}
}

func TestResolveDuplicateBomNames(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	newer := firebaseBom()
	newer.Version = "34.0.0"
	deps := []types.DependencyRef{bomDep("com.google.firebase", "firebase-auth", "firebase-bom")}

	_, err := NewResolver().Resolve(t.Context(), platform, deps, []types.BillOfMaterials{firebaseBom(), newer}, types.ReleaseToggles{})
	report := requireReport(t, err)
	require.True(t, report.Has(types.ErrorKindVersionConflict))
	assert.Equal(t, []string{"bom:firebase-bom"}, report.Conflicts[0].Identities)
	assert.False(t, report.Has(types.ErrorKindUnresolvedBom), "dependents of a rejected bom are not reported again")
}

func TestResolveCollectsConflictsInOrder(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	deps := []types.DependencyRef{
		explicitDep("z", "z", "1.0.0"),
		explicitDep("z", "z", "1.1.0"),
		bomDep("a", "a", "missing-bom"),
		{GroupID: "b", ArtifactID: "b"},
	}
	_, err := NewResolver().Resolve(t.Context(), platform, deps, nil, types.ReleaseToggles{Minify: true})
	report := requireReport(t, err)
	want := []types.ErrorKind{
		types.ErrorKindInvalidDependency,
		types.ErrorKindUnresolvedBom,
		types.ErrorKindVersionConflict,
		types.ErrorKindMissingObfuscationRules,
	}
	assert.Equal(t, want, report.Kinds())
}

func TestResolveDesugaringWarnings(t *testing.T) {
	desugarLib := types.DependencyRef{
		GroupID:       "com.android.tools",
		ArtifactID:    "desugar_jdk_libs",
		Version:       "2.1.5",
		Configuration: types.ConfigurationDesugaring,
	}
	tests := []struct {
		name     string
		min      int
		deps     []types.DependencyRef
		expected []types.ErrorKind
	}{
		{name: "native support", min: 30, deps: []types.DependencyRef{desugarLib}, expected: []types.ErrorKind{types.ErrorKindRedundantToggle}},
		{name: "at threshold", min: 26, deps: []types.DependencyRef{desugarLib}, expected: []types.ErrorKind{types.ErrorKindRedundantToggle}},
		{name: "needed with library", min: 21, deps: []types.DependencyRef{desugarLib}, expected: nil},
		{name: "needed without library", min: 21, expected: []types.ErrorKind{types.ErrorKindMissingDesugarLibrary}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := types.PlatformTarget{MinVersion: tt.min, TargetVersion: 35, CompileVersion: 35}
			plan, err := NewResolver().Resolve(t.Context(), platform, tt.deps, nil, types.ReleaseToggles{Desugaring: true})
			require.NoError(t, err, "warnings must not fail resolution")
			var kinds []types.ErrorKind
			for _, warning := range plan.Warnings() {
				kinds = append(kinds, warning.Kind)
			}
			assert.Equal(t, tt.expected, kinds)
		})
	}
}

func TestResolveCustomDesugarThreshold(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	resolver := Resolver{DesugarNativeAPI: 33}
	deps := []types.DependencyRef{{
		GroupID: "com.android.tools", ArtifactID: "desugar_jdk_libs", Version: "2.1.5",
		Configuration: types.ConfigurationDesugaring,
	}}
	plan, err := resolver.Resolve(t.Context(), platform, deps, nil, types.ReleaseToggles{Desugaring: true})
	require.NoError(t, err)
	assert.Empty(t, plan.Warnings())
}

func TestResolveMergesConfigurations(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	deps := []types.DependencyRef{
		{GroupID: "g", ArtifactID: "a", Version: "1.0.0", Configuration: "testImplementation"},
		explicitDep("g", "a", "1.0.0"),
	}
	plan, err := NewResolver().Resolve(t.Context(), platform, deps, nil, types.ReleaseToggles{})
	require.NoError(t, err)
	require.Len(t, plan.Dependencies(), 1)
	assert.Equal(t, []string{"implementation", "testImplementation"}, plan.Dependencies()[0].Configurations)
}

func TestResolveDeterministic(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 24, TargetVersion: 35, CompileVersion: 36}
	deps := []types.DependencyRef{
		explicitDep("org.tensorflow", "tensorflow-lite", "2.16.1"),
		bomDep("com.google.firebase", "firebase-auth", "firebase-bom"),
		explicitDep("androidx.core", "core-ktx", "1.16.0"),
	}
	reversed := []types.DependencyRef{deps[2], deps[1], deps[0]}
	toggles := types.ReleaseToggles{Minify: true, Desugaring: true, ProguardRuleFiles: []string{"proguard-rules.pro"}}
	boms := []types.BillOfMaterials{firebaseBom()}

	first, err := NewResolver().Resolve(t.Context(), platform, deps, boms, toggles)
	require.NoError(t, err)
	second, err := NewResolver().Resolve(t.Context(), platform, reversed, boms, toggles)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Document(), second.Document()); diff != "" {
		t.Fatalf("plans differ (-first +second):\n%s", diff)
	}
}

func TestResolveIdempotent(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 24, TargetVersion: 35, CompileVersion: 36}
	deps := []types.DependencyRef{
		bomDep("com.google.firebase", "firebase-auth", "firebase-bom"),
		{GroupID: "com.android.tools", ArtifactID: "desugar_jdk_libs", Version: "2.1.5", Configuration: types.ConfigurationDesugaring},
	}
	toggles := types.ReleaseToggles{Minify: true, Desugaring: true, ProguardRuleFiles: []string{"default:proguard-android-optimize.txt"}}

	resolver := NewResolver()
	plan, err := resolver.Resolve(t.Context(), platform, deps, []types.BillOfMaterials{firebaseBom()}, toggles)
	require.NoError(t, err)

	again, err := resolver.Resolve(t.Context(), plan.Platform(), ExplicitDependencies(plan), nil, plan.Toggles())
	require.NoError(t, err)
	assert.Equal(t, plan.Fingerprint(), again.Fingerprint())
	if diff := cmp.Diff(plan.Document(), again.Document()); diff != "" {
		t.Fatalf("re-resolved plan differs (-want +got):\n%s", diff)
	}
}

func TestResolveDoesNotRetainInputs(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	toggles := types.ReleaseToggles{Minify: true, ProguardRuleFiles: []string{"proguard-rules.pro"}}
	deps := []types.DependencyRef{explicitDep("g", "a", "1.0.0")}

	plan, err := NewResolver().Resolve(t.Context(), platform, deps, nil, toggles)
	require.NoError(t, err)
	toggles.ProguardRuleFiles[0] = "changed.pro"
	deps[0].Version = "9.9.9"

	assert.Equal(t, []string{"proguard-rules.pro"}, plan.Toggles().ProguardRuleFiles)
	version, _ := plan.Version(types.Identity{GroupID: "g", ArtifactID: "a"})
	assert.Equal(t, "1.0.0", version)

	exposed := plan.Dependencies()
	exposed[0].Version = "0.0.1"
	version, _ = plan.Version(types.Identity{GroupID: "g", ArtifactID: "a"})
	assert.Equal(t, "1.0.0", version)
}

func TestResolveConcurrentCallers(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	deps := []types.DependencyRef{
		bomDep("com.google.firebase", "firebase-auth", "firebase-bom"),
		explicitDep("androidx.core", "core-ktx", "1.16.0"),
	}
	resolver := NewResolver()
	reference, err := resolver.Resolve(t.Context(), platform, deps, []types.BillOfMaterials{firebaseBom()}, types.ReleaseToggles{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	fingerprints := make([]string, 16)
	for i := range fingerprints {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plan, err := resolver.Resolve(t.Context(), platform, deps, []types.BillOfMaterials{firebaseBom()}, types.ReleaseToggles{})
			if err == nil {
				fingerprints[i] = plan.Fingerprint()
			}
		}()
	}
	wg.Wait()
	for _, fingerprint := range fingerprints {
		assert.Equal(t, reference.Fingerprint(), fingerprint)
	}
}

func TestResolveRejectsDynamicManagedPin(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	bom := firebaseBom()
	bom.Managed = map[string]string{firebaseAuth.String(): "23.+"}
	deps := []types.DependencyRef{bomDep("com.google.firebase", "firebase-auth", "firebase-bom")}

	_, err := NewResolver().Resolve(t.Context(), platform, deps, []types.BillOfMaterials{bom}, types.ReleaseToggles{})
	report := requireReport(t, err)
	assert.Equal(t, []types.ErrorKind{types.ErrorKindInvalidDependency}, report.Kinds())
}

func TestResolveSkipsDependentsOfRejectedBom(t *testing.T) {
	platform := types.PlatformTarget{MinVersion: 30, TargetVersion: 35, CompileVersion: 35}
	bom := firebaseBom()
	bom.Version = "33.+"
	deps := []types.DependencyRef{
		bomDep("com.google.firebase", "firebase-auth", "firebase-bom"),
		bomDep("com.google.firebase", "firebase-firestore", "firebase-bom"),
		bomDep("androidx.compose.ui", "ui", "compose-bom"),
	}

	_, err := NewResolver().Resolve(t.Context(), platform, deps, []types.BillOfMaterials{bom}, types.ReleaseToggles{})
	report := requireReport(t, err)
	assert.Equal(t, []types.ErrorKind{types.ErrorKindInvalidDependency, types.ErrorKindUnresolvedBom}, report.Kinds())
	assert.Equal(t, []string{"bom:firebase-bom"}, report.Conflicts[0].Identities)
	assert.Equal(t, []string{"androidx.compose.ui:ui"}, report.Conflicts[1].Identities)
}
