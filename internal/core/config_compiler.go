package core

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"buildplan/internal/policies"
	"buildplan/internal/types"
)

const SupportedAPIVersion = "v1"

var javaPackagePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)+$`)

// ResolveInputs are the four arguments of Resolver.Resolve, extracted
// from one configuration document.
type ResolveInputs struct {
	Platform     types.PlatformTarget
	Dependencies []types.DependencyRef
	Boms         []types.BillOfMaterials
	Toggles      types.ReleaseToggles
}

type ConfigCompiler struct{}

func NewConfigCompiler() ConfigCompiler {
	return ConfigCompiler{}
}

// ValidateConfig checks the document-level fields. Dependency and BOM
// consistency is left to the resolver, which reports it as conflicts.
func (c ConfigCompiler) ValidateConfig(ctx context.Context, cfg types.BuildConfig) error {
	if strings.TrimSpace(cfg.APIVersion) != SupportedAPIVersion {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported api_version: %q", cfg.APIVersion))
	}
	if cfg.Kind != types.ConfigKindBuild {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("config kind must be %s", types.ConfigKindBuild))
	}
	if err := validateName(cfg.Metadata.Name); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Metadata.Revision) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("metadata.revision must be set")
	}
	if err := validatePlatformBounds(cfg.Platform); err != nil {
		return err
	}
	if err := validateApplication(cfg.Application); err != nil {
		return err
	}
	if err := validateJava(cfg.Java); err != nil {
		return err
	}
	for _, rule := range cfg.Release.ProguardRuleFiles {
		if err := policies.ValidateRuleFile(rule); err != nil {
			return err
		}
	}
	log.Ctx(ctx).Debug().Str("config", cfg.Metadata.Name).Msg("config validated")
	return nil
}

// validateName requires metadata.name to be usable as a single directory
// name, since multi-config runs write each plan under it.
func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("metadata.name must be set")
	}
	if trimmed == "." || trimmed == ".." || strings.ContainsAny(trimmed, `/\`) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("metadata.name must be a single path segment: %q", name))
	}
	return nil
}

// Inputs converts the document into resolver inputs. Only coordinate
// syntax is checked here.
func (c ConfigCompiler) Inputs(cfg types.BuildConfig) (ResolveInputs, error) {
	inputs := ResolveInputs{
		Platform: cfg.Platform,
		Toggles:  cfg.Release.Clone(),
	}
	for i, entry := range cfg.Boms {
		coord, err := ParseCoordinate(entry.Coordinate, fmt.Sprintf("boms[%d]", i))
		if err != nil {
			return ResolveInputs{}, err
		}
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = coord.ArtifactID
		}
		managed := make(map[string]string, len(entry.Managed))
		for key, version := range entry.Managed {
			id, ok := types.ParseIdentity(key)
			if !ok {
				return ResolveInputs{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("bom %s manages invalid identity: %s", name, key))
			}
			managed[id.String()] = strings.TrimSpace(version)
		}
		inputs.Boms = append(inputs.Boms, types.BillOfMaterials{
			Name:       name,
			GroupID:    coord.GroupID,
			ArtifactID: coord.ArtifactID,
			Version:    coord.Version,
			Managed:    managed,
		})
	}
	for i, entry := range cfg.Dependencies {
		source := fmt.Sprintf("dependencies[%d]", i)
		coord, err := ParseCoordinate(entry.Coordinate, source)
		if err != nil {
			return ResolveInputs{}, err
		}
		configuration := strings.TrimSpace(entry.Configuration)
		if configuration == "" {
			configuration = types.ConfigurationImplementation
		}
		inputs.Dependencies = append(inputs.Dependencies, types.DependencyRef{
			GroupID:       coord.GroupID,
			ArtifactID:    coord.ArtifactID,
			Version:       coord.Version,
			BoundedBy:     strings.TrimSpace(entry.Bom),
			Configuration: configuration,
			Source:        fmt.Sprintf("%s:%s", cfg.Metadata.Name, source),
		})
	}
	return inputs, nil
}

func validatePlatformBounds(platform types.PlatformTarget) error {
	if platform.MinVersion < 1 || platform.TargetVersion < 1 || platform.CompileVersion < 1 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("platform min_sdk, target_sdk and compile_sdk must be positive")
	}
	return nil
}

func validateApplication(application types.Application) error {
	if strings.TrimSpace(application.Namespace) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("application.namespace must be set")
	}
	if !javaPackagePattern.MatchString(application.Namespace) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("application.namespace is not a package name: %s", application.Namespace))
	}
	if application.VersionCode < 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("application.version_code must not be negative")
	}
	if application.ApplicationID == "" {
		return nil
	}
	if !javaPackagePattern.MatchString(application.ApplicationID) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("application.application_id is not a package name: %s", application.ApplicationID))
	}
	if application.VersionCode < 1 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("application.version_code must be at least 1 for an application")
	}
	if !ValidVersion(application.VersionName) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("application.version_name is not a version: %q", application.VersionName))
	}
	return nil
}

func validateJava(java types.JavaCompatibility) error {
	source, err := javaRelease(java.SourceCompatibility, "source_compatibility")
	if err != nil {
		return err
	}
	target, err := javaRelease(java.TargetCompatibility, "target_compatibility")
	if err != nil {
		return err
	}
	jvm, err := javaRelease(java.JvmTarget, "jvm_target")
	if err != nil {
		return err
	}
	if source > 0 && target > 0 && source > target {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("java.source_compatibility %d is newer than target_compatibility %d", source, target))
	}
	if jvm > 0 && target > 0 && jvm != target {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("java.jvm_target %d does not match target_compatibility %d", jvm, target))
	}
	return nil
}

// javaRelease parses "11", "VERSION_11" or the legacy "1.8" form. An
// empty value yields 0.
func javaRelease(value string, field string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	trimmed = strings.TrimPrefix(strings.ToUpper(trimmed), "VERSION_")
	trimmed = strings.ReplaceAll(trimmed, "_", ".")
	trimmed = strings.TrimPrefix(trimmed, "1.")
	release, err := strconv.Atoi(trimmed)
	if err != nil || release < 1 {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("java.%s is not a java release: %q", field, value))
	}
	return release, nil
}
