package types

type Metadata struct {
	Name        string   `yaml:"name" json:"name" toml:"name"`
	Revision    string   `yaml:"revision" json:"revision" toml:"revision"`
	Owners      []string `yaml:"owners,omitempty" json:"owners,omitempty" toml:"owners,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
}

type Application struct {
	Namespace     string `yaml:"namespace" json:"namespace" toml:"namespace"`
	ApplicationID string `yaml:"application_id" json:"application_id" toml:"application_id"`
	VersionCode   int    `yaml:"version_code" json:"version_code" toml:"version_code"`
	VersionName   string `yaml:"version_name" json:"version_name" toml:"version_name"`
}

// JavaCompatibility mirrors the compileOptions/kotlinOptions blocks of an
// Android module. Values are Java release numbers such as "11" or "17".
type JavaCompatibility struct {
	SourceCompatibility string `yaml:"source_compatibility,omitempty" json:"source_compatibility,omitempty" toml:"source_compatibility,omitempty"`
	TargetCompatibility string `yaml:"target_compatibility,omitempty" json:"target_compatibility,omitempty" toml:"target_compatibility,omitempty"`
	JvmTarget           string `yaml:"jvm_target,omitempty" json:"jvm_target,omitempty" toml:"jvm_target,omitempty"`
}

type BomEntry struct {
	Name       string            `yaml:"name" json:"name" toml:"name"`
	Coordinate string            `yaml:"coordinate" json:"coordinate" toml:"coordinate"`
	Managed    map[string]string `yaml:"managed,omitempty" json:"managed,omitempty" toml:"managed,omitempty"`
}

type DependencyEntry struct {
	Coordinate    string `yaml:"coordinate" json:"coordinate" toml:"coordinate"`
	Bom           string `yaml:"bom,omitempty" json:"bom,omitempty" toml:"bom,omitempty"`
	Configuration string `yaml:"configuration,omitempty" json:"configuration,omitempty" toml:"configuration,omitempty"`
}

// BuildConfig is the versioned configuration document fed to the
// resolver. One document describes one build; documents are never
// merged with each other.
type BuildConfig struct {
	APIVersion   string            `yaml:"api_version" json:"api_version" toml:"api_version"`
	Kind         ConfigKind        `yaml:"kind" json:"kind" toml:"kind"`
	Metadata     Metadata          `yaml:"metadata" json:"metadata" toml:"metadata"`
	Application  Application       `yaml:"application" json:"application" toml:"application"`
	Java         JavaCompatibility `yaml:"java,omitempty" json:"java,omitempty" toml:"java,omitempty"`
	Platform     PlatformTarget    `yaml:"platform" json:"platform" toml:"platform"`
	Boms         []BomEntry        `yaml:"boms,omitempty" json:"boms,omitempty" toml:"boms,omitempty"`
	Dependencies []DependencyEntry `yaml:"dependencies,omitempty" json:"dependencies,omitempty" toml:"dependencies,omitempty"`
	Release      ReleaseToggles    `yaml:"release" json:"release" toml:"release"`
}
