package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildplan/internal/adapters"
	"buildplan/internal/types"
)

func TestResolveApp(t *testing.T) {
	dir := t.TempDir()
	config := writeAppConfig(t, dir, "fypproject")
	outDir := filepath.Join(dir, "out")

	service := NewService()
	result, err := service.Resolve(t.Context(), ResolveRequest{
		ConfigPaths: []string{config},
		OutputDir:   outDir,
	})
	require.NoError(t, err)
	require.Len(t, result.Configs, 1)

	resolved := result.Configs[0]
	assert.Equal(t, "fypproject", resolved.Name)
	assert.Equal(t, outDir, resolved.OutputDir)
	assert.Equal(t, filepath.Join(outDir, "build-plan.yaml"), resolved.PlanPath)
	assert.Equal(t, 3, resolved.Dependencies)
	require.Len(t, resolved.Warnings, 1)
	assert.Equal(t, types.ErrorKindRedundantToggle, resolved.Warnings[0].Kind)

	lock, err := os.ReadFile(filepath.Join(outDir, adapters.DependencyLockFile))
	require.NoError(t, err)
	want := "androidx.core:core-ktx:1.16.0\n" +
		"com.android.tools:desugar_jdk_libs:2.1.5\n" +
		"com.google.firebase:firebase-auth:33.13.0\n"
	if diff := cmp.Diff(want, string(lock)); diff != "" {
		t.Fatalf("unexpected dependencies.lock (-want +got):\n%s", diff)
	}
	assert.NoFileExists(t, filepath.Join(outDir, adapters.ConflictReportFile))
	assert.NoFileExists(t, filepath.Join(outDir, adapters.VersionCatalogFile))
	assert.NoFileExists(t, filepath.Join(outDir, adapters.SBOMFile))
}

func TestResolveAppOptionalOutputs(t *testing.T) {
	dir := t.TempDir()
	config := writeAppConfig(t, dir, "fypproject")
	outDir := filepath.Join(dir, "out")

	service := NewService()
	service.Clock = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }
	result, err := service.Resolve(t.Context(), ResolveRequest{
		ConfigPaths:        []string{config},
		OutputDir:          outDir,
		Format:             types.OutputFormatJSON,
		EmitVersionCatalog: true,
		EmitSBOM:           true,
		SBOMCreatedAt:      "1750000000",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "build-plan.json"), result.Configs[0].PlanPath)
	assert.FileExists(t, filepath.Join(outDir, adapters.VersionCatalogFile))

	sbom, err := os.ReadFile(filepath.Join(outDir, adapters.SBOMFile))
	require.NoError(t, err)
	assert.Contains(t, string(sbom), `"created": "2025-06-15T15:06:40Z"`)
}

func TestResolveAppMultipleConfigs(t *testing.T) {
	dir := t.TempDir()
	first := writeAppConfig(t, dir, "fypproject")
	second := writeAppConfig(t, dir, "fypproject-ml")
	outDir := filepath.Join(dir, "out")

	result, err := NewService().Resolve(t.Context(), ResolveRequest{
		ConfigPaths: []string{first, second},
		OutputDir:   outDir,
	})
	require.NoError(t, err)
	require.Len(t, result.Configs, 2)
	assert.Equal(t, "fypproject", result.Configs[0].Name)
	assert.Equal(t, "fypproject-ml", result.Configs[1].Name)
	assert.FileExists(t, filepath.Join(outDir, "fypproject", "build-plan.yaml"))
	assert.FileExists(t, filepath.Join(outDir, "fypproject-ml", "build-plan.yaml"))
	assert.NoFileExists(t, filepath.Join(outDir, "build-plan.yaml"), "configs are never merged into one plan")
}

func TestResolveAppDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	first := writeAppConfig(t, dir, "fypproject")
	second := writeRawConfig(t, dir, "copy.yaml", mustRead(t, first))

	_, err := NewService().Resolve(t.Context(), ResolveRequest{
		ConfigPaths: []string{first, second},
		OutputDir:   filepath.Join(dir, "out"),
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeAlreadyExists, errbuilder.CodeOf(err))
}

func TestResolveAppRejectsNameOutsideOutputDir(t *testing.T) {
	dir := t.TempDir()
	first := writeAppConfig(t, dir, "fypproject")
	escaped := writeRawConfig(t, dir, "escaped.yaml", strings.Replace(appConfigTemplate, "NAME", "../../escaped", 1))
	outDir := filepath.Join(dir, "nested", "out")

	_, err := NewService().Resolve(t.Context(), ResolveRequest{
		ConfigPaths: []string{first, escaped},
		OutputDir:   outDir,
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.NoFileExists(t, filepath.Join(dir, "escaped", "build-plan.yaml"))
	assert.NoDirExists(t, outDir, "nothing is written when any config is invalid")
}

func TestResolveAppConflictReport(t *testing.T) {
	dir := t.TempDir()
	config := writeRawConfig(t, dir, "conflicting.yaml", conflictingConfig)
	outDir := filepath.Join(dir, "out")

	_, err := NewService().Resolve(t.Context(), ResolveRequest{
		ConfigPaths: []string{config},
		OutputDir:   outDir,
	})
	var report *types.ConflictReport
	require.True(t, errors.As(err, &report))
	assert.Equal(t, []types.ErrorKind{
		types.ErrorKindVersionConflict,
		types.ErrorKindMissingObfuscationRules,
	}, report.Kinds())

	assert.FileExists(t, filepath.Join(outDir, adapters.ConflictReportFile))
	assert.NoFileExists(t, filepath.Join(outDir, "build-plan.yaml"))
	assert.NoFileExists(t, filepath.Join(outDir, adapters.DependencyLockFile))
}

func TestResolveAppClearsStaleConflicts(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, adapters.ConflictReportFile), []byte("conflicts: []\n"), 0644))

	_, err := NewService().Resolve(t.Context(), ResolveRequest{
		ConfigPaths: []string{writeAppConfig(t, dir, "fypproject")},
		OutputDir:   outDir,
	})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(outDir, adapters.ConflictReportFile))
}

func TestResolveAppConflictRemovesEarlierPlan(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	service := NewService()
	_, err := service.Resolve(t.Context(), ResolveRequest{
		ConfigPaths:        []string{writeAppConfig(t, dir, "fypproject")},
		OutputDir:          outDir,
		EmitVersionCatalog: true,
		EmitSBOM:           true,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "build-plan.json"), []byte("{}\n"), 0644))

	_, err = service.Resolve(t.Context(), ResolveRequest{
		ConfigPaths: []string{writeRawConfig(t, dir, "conflicting.yaml", conflictingConfig)},
		OutputDir:   outDir,
	})
	var report *types.ConflictReport
	require.True(t, errors.As(err, &report))

	assert.FileExists(t, filepath.Join(outDir, adapters.ConflictReportFile))
	for _, name := range []string{
		"build-plan.yaml",
		"build-plan.json",
		adapters.DependencyLockFile,
		adapters.VersionCatalogFile,
		adapters.SBOMFile,
	} {
		assert.NoFileExists(t, filepath.Join(outDir, name))
	}

	result, err := service.Inspect(InspectRequest{OutputDir: outDir})
	require.NoError(t, err)
	assert.Empty(t, result.Fingerprint)
	assert.Len(t, result.Conflicts, 2)
}

func TestResolveAppRequestValidation(t *testing.T) {
	dir := t.TempDir()
	config := writeAppConfig(t, dir, "fypproject")
	tests := []struct {
		name string
		req  ResolveRequest
		code errbuilder.ErrCode
	}{
		{name: "no configs", req: ResolveRequest{ConfigPaths: []string{" "}, OutputDir: dir}, code: errbuilder.CodeInvalidArgument},
		{name: "no output", req: ResolveRequest{ConfigPaths: []string{config}}, code: errbuilder.CodeInvalidArgument},
		{name: "bad format", req: ResolveRequest{ConfigPaths: []string{config}, OutputDir: dir, Format: "xml"}, code: errbuilder.CodeInvalidArgument},
		{name: "bad timestamp", req: ResolveRequest{ConfigPaths: []string{config}, OutputDir: dir, SBOMCreatedAt: "soon"}, code: errbuilder.CodeInvalidArgument},
		{name: "missing config", req: ResolveRequest{ConfigPaths: []string{filepath.Join(dir, "nope.yaml")}, OutputDir: dir}, code: errbuilder.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService().Resolve(t.Context(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, errbuilder.CodeOf(err))
		})
	}
}

func TestResolveAppDesugarThresholdOverride(t *testing.T) {
	dir := t.TempDir()
	result, err := NewService().Resolve(t.Context(), ResolveRequest{
		ConfigPaths:      []string{writeAppConfig(t, dir, "fypproject")},
		OutputDir:        filepath.Join(dir, "out"),
		DesugarNativeAPI: 33,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Configs[0].Warnings)
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
