package types

type ConfigKind string

const (
	ConfigKindBuild ConfigKind = "build-config"
)

// ErrorKind names a resolution outcome. Kinds ending in "Error" are
// fatal; kinds ending in "Warning" are advisory.
type ErrorKind string

const (
	ErrorKindPlatformOrdering        ErrorKind = "PlatformOrderingError"
	ErrorKindUnresolvedBom           ErrorKind = "UnresolvedBomError"
	ErrorKindVersionConflict         ErrorKind = "VersionConflictError"
	ErrorKindMissingObfuscationRules ErrorKind = "MissingObfuscationRulesError"
	ErrorKindInvalidDependency       ErrorKind = "InvalidDependencyError"
	ErrorKindRedundantToggle         ErrorKind = "RedundantToggleWarning"
	ErrorKindMissingDesugarLibrary   ErrorKind = "MissingDesugarLibraryWarning"
)

type OutputFormat string

const (
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatTOML OutputFormat = "toml"
)

const (
	ConfigurationImplementation = "implementation"
	ConfigurationDesugaring     = "coreLibraryDesugaring"
)
