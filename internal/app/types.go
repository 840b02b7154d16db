package app

import "buildplan/internal/types"

type ValidateRequest struct {
	ConfigPaths      []string
	DesugarNativeAPI int
}

type ValidatedConfig struct {
	Name     string
	Path     string
	Warnings []types.Warning
}

type ValidateResult struct {
	Configs []ValidatedConfig
}

type ResolveRequest struct {
	ConfigPaths        []string
	OutputDir          string
	Format             types.OutputFormat
	DesugarNativeAPI   int
	EmitVersionCatalog bool
	EmitSBOM           bool
	// SBOMCreatedAt fixes the SBOM creation time (RFC 3339 or Unix
	// seconds). Empty means the service clock.
	SBOMCreatedAt string
}

type ResolvedConfig struct {
	Name         string
	ConfigPath   string
	OutputDir    string
	PlanPath     string
	Fingerprint  string
	Dependencies int
	Warnings     []types.Warning
}

type ResolveResult struct {
	Configs []ResolvedConfig
}

type InspectRequest struct {
	OutputDir string
	Format    types.OutputFormat
}

type InspectConfigurationSummary struct {
	Name      string
	Count     int
	Artifacts []string
}

type InspectResult struct {
	Name           string
	Revision       string
	Platform       types.PlatformTarget
	Fingerprint    string
	Dependencies   []types.ResolvedDependency
	Configurations []InspectConfigurationSummary
	Warnings       []types.Warning
	LockCount      int
	LockMatches    bool
	Conflicts      []types.Conflict
}

type VerifyRequest struct {
	PlanPath         string
	DesugarNativeAPI int
}

type VerifyResult struct {
	Name        string
	Fingerprint string
}
