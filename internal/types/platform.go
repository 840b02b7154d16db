package types

// PlatformTarget holds the Android SDK bounds of a build. A valid target
// satisfies MinVersion <= TargetVersion <= CompileVersion.
type PlatformTarget struct {
	MinVersion     int `yaml:"min_sdk" json:"min_sdk" toml:"min_sdk"`
	TargetVersion  int `yaml:"target_sdk" json:"target_sdk" toml:"target_sdk"`
	CompileVersion int `yaml:"compile_sdk" json:"compile_sdk" toml:"compile_sdk"`
}

func (p PlatformTarget) Ordered() bool {
	return p.MinVersion <= p.TargetVersion && p.TargetVersion <= p.CompileVersion
}
