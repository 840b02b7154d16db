package types

const PlanKind = "build-plan"

// PlanFile is what gets written to build-plan.<format>: the plan plus the
// identifying parts of the configuration it came from.
type PlanFile struct {
	APIVersion  string            `yaml:"api_version" json:"api_version" toml:"api_version"`
	Kind        string            `yaml:"kind" json:"kind" toml:"kind"`
	Metadata    Metadata          `yaml:"metadata" json:"metadata" toml:"metadata"`
	Application Application       `yaml:"application" json:"application" toml:"application"`
	Java        JavaCompatibility `yaml:"java,omitempty" json:"java,omitempty" toml:"java,omitempty"`
	Plan        PlanDocument      `yaml:"plan" json:"plan" toml:"plan"`
}

type LockEntry struct {
	Identity Identity
	Version  string
}
