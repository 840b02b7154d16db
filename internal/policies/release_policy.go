package policies

import (
	"fmt"
	"path"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"buildplan/internal/types"
)

// DefaultRulePrefix marks a rule file shipped with the Android SDK, the
// equivalent of getDefaultProguardFile(...) in a Gradle script.
const DefaultRulePrefix = "default:"

var defaultRuleFiles = map[string]struct{}{
	"proguard-android.txt":          {},
	"proguard-android-optimize.txt": {},
}

var ruleFileExtensions = map[string]struct{}{
	".pro": {},
	".txt": {},
	".cfg": {},
}

// CheckObfuscationRules refuses minification without retention rules:
// the shrinker would strip reflectively accessed symbols.
func CheckObfuscationRules(toggles types.ReleaseToggles) (types.Conflict, bool) {
	if !toggles.Minify || len(toggles.ProguardRuleFiles) > 0 {
		return types.Conflict{}, false
	}
	return types.Conflict{
		Kind:       types.ErrorKindMissingObfuscationRules,
		Message:    "minify is enabled but no proguard rule files are declared",
		Identities: []string{},
	}, true
}

// CheckDesugaring returns advisory warnings for the desugaring toggle.
// nativeAPI is the first platform level that supports the desugared
// library APIs natively.
func CheckDesugaring(platform types.PlatformTarget, toggles types.ReleaseToggles, deps []types.DependencyRef, nativeAPI int) []types.Warning {
	if !toggles.Desugaring {
		return nil
	}
	if platform.MinVersion >= nativeAPI {
		return []types.Warning{{
			Kind: types.ErrorKindRedundantToggle,
			Message: fmt.Sprintf(
				"desugaring is enabled but min sdk %d already supports the required APIs natively (threshold %d)",
				platform.MinVersion, nativeAPI,
			),
		}}
	}
	for _, dep := range deps {
		if dep.Configuration == types.ConfigurationDesugaring {
			return nil
		}
	}
	return []types.Warning{{
		Kind:    types.ErrorKindMissingDesugarLibrary,
		Message: fmt.Sprintf("desugaring is enabled but no %s dependency is declared", types.ConfigurationDesugaring),
	}}
}

// ValidateRuleFile accepts project rule files by extension and SDK
// defaults by name.
func ValidateRuleFile(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("proguard rule file must not be empty")
	}
	if strings.HasPrefix(trimmed, DefaultRulePrefix) {
		name := strings.TrimPrefix(trimmed, DefaultRulePrefix)
		if _, ok := defaultRuleFiles[name]; !ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unknown default proguard file: %s", name))
		}
		return nil
	}
	if _, ok := ruleFileExtensions[strings.ToLower(path.Ext(trimmed))]; !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported proguard rule file: %s", trimmed))
	}
	return nil
}
