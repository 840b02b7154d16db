package types

// ReleaseToggles are the release build switches. ProguardRuleFiles is
// ordered; rule files are applied in declaration order.
type ReleaseToggles struct {
	Minify            bool     `yaml:"minify" json:"minify" toml:"minify"`
	Desugaring        bool     `yaml:"desugaring" json:"desugaring" toml:"desugaring"`
	ProguardRuleFiles []string `yaml:"proguard_rule_files" json:"proguard_rule_files" toml:"proguard_rule_files"`
}

func (t ReleaseToggles) Clone() ReleaseToggles {
	out := t
	if t.ProguardRuleFiles != nil {
		out.ProguardRuleFiles = append([]string{}, t.ProguardRuleFiles...)
	}
	return out
}
