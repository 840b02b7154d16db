package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"buildplan/internal/adapters"
	"buildplan/internal/core"
	"buildplan/internal/types"
)

// loadedConfig pairs a configuration document with where it came from
// and where its outputs go.
type loadedConfig struct {
	path      string
	outputDir string
	config    types.BuildConfig
}

// Resolve resolves every requested configuration independently. With
// more than one configuration each gets its own subdirectory named after
// metadata.name; configurations are never merged.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	paths := trimmedPaths(req.ConfigPaths)
	if len(paths) == 0 {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one build config is required")
	}
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	format, err := normalizeFormat(req.Format)
	if err != nil {
		return ResolveResult{}, err
	}

	createdAt, err := adapters.ParseTimestamp(req.SBOMCreatedAt)
	if err != nil {
		return ResolveResult{}, err
	}
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	loaded, err := s.loadConfigs(ctx, paths, outputDir)
	if err != nil {
		return ResolveResult{}, err
	}

	resolver := s.resolver(req.DesugarNativeAPI)
	results := make([]ResolvedConfig, len(loaded))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, item := range loaded {
		group.Go(func() error {
			result, err := s.resolveOne(groupCtx, resolver, item, format, req, createdAt)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return ResolveResult{}, err
	}
	return ResolveResult{Configs: results}, nil
}

func (s Service) loadConfigs(ctx context.Context, paths []string, outputDir string) ([]loadedConfig, error) {
	compiler := core.NewConfigCompiler()
	seen := map[string]string{}
	loaded := make([]loadedConfig, 0, len(paths))
	for _, path := range paths {
		cfg, err := s.ConfigLoader.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		if err := compiler.ValidateConfig(ctx, cfg); err != nil {
			return nil, err
		}
		dir := outputDir
		if len(paths) > 1 {
			name := strings.TrimSpace(cfg.Metadata.Name)
			if previous, ok := seen[name]; ok {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeAlreadyExists).
					WithMsg(fmt.Sprintf("configs %s and %s share metadata.name %q", previous, path, name))
			}
			seen[name] = path
			dir = filepath.Join(outputDir, name)
		}
		loaded = append(loaded, loadedConfig{path: path, outputDir: dir, config: cfg})
	}
	return loaded, nil
}

func (s Service) resolveOne(ctx context.Context, resolver core.Resolver, item loadedConfig, format types.OutputFormat, req ResolveRequest, createdAt time.Time) (ResolvedConfig, error) {
	cfg := item.config
	logger := log.Ctx(ctx).With().Str("config", cfg.Metadata.Name).Logger()
	ctx = logger.WithContext(ctx)

	inputs, err := core.NewConfigCompiler().Inputs(cfg)
	if err != nil {
		return ResolvedConfig{}, err
	}

	output := s.Outputs(item.outputDir)
	plan, err := resolver.Resolve(ctx, inputs.Platform, inputs.Dependencies, inputs.Boms, inputs.Toggles)
	if err != nil {
		var report *types.ConflictReport
		if errors.As(err, &report) {
			if removeErr := output.RemovePlanOutputs(); removeErr != nil {
				return ResolvedConfig{}, removeErr
			}
			if writeErr := output.WriteConflictReport(report); writeErr != nil {
				return ResolvedConfig{}, writeErr
			}
			logger.Error().Int("conflicts", len(report.Conflicts)).Msg("resolution failed")
		}
		return ResolvedConfig{}, err
	}

	file := buildPlanFile(cfg, plan)
	planPath, err := output.WritePlan(file, format)
	if err != nil {
		return ResolvedConfig{}, err
	}
	if err := output.WriteDependencyLock(plan); err != nil {
		return ResolvedConfig{}, err
	}
	if err := output.ClearConflictReport(); err != nil {
		return ResolvedConfig{}, err
	}
	if req.EmitVersionCatalog {
		catalog := s.Catalogs(item.outputDir)
		if err := catalog.WriteVersionCatalog(plan); err != nil {
			return ResolvedConfig{}, err
		}
	}
	if req.EmitSBOM {
		if err := s.SBOMWriter.WriteSBOM(item.outputDir, file, createdAt.UTC().Format(time.RFC3339)); err != nil {
			return ResolvedConfig{}, err
		}
	}
	logger.Info().
		Str("fingerprint", plan.Fingerprint()).
		Int("dependencies", len(plan.Dependencies())).
		Msg("build plan written")
	return ResolvedConfig{
		Name:         cfg.Metadata.Name,
		ConfigPath:   item.path,
		OutputDir:    item.outputDir,
		PlanPath:     planPath,
		Fingerprint:  plan.Fingerprint(),
		Dependencies: len(plan.Dependencies()),
		Warnings:     plan.Warnings(),
	}, nil
}

func buildPlanFile(cfg types.BuildConfig, plan types.BuildPlan) types.PlanFile {
	return types.PlanFile{
		APIVersion:  core.SupportedAPIVersion,
		Kind:        types.PlanKind,
		Metadata:    cfg.Metadata,
		Application: cfg.Application,
		Java:        cfg.Java,
		Plan:        plan.Document(),
	}
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func normalizeFormat(format types.OutputFormat) (types.OutputFormat, error) {
	switch types.OutputFormat(strings.ToLower(strings.TrimSpace(string(format)))) {
	case "", types.OutputFormatYAML:
		return types.OutputFormatYAML, nil
	case types.OutputFormatJSON:
		return types.OutputFormatJSON, nil
	case types.OutputFormatTOML:
		return types.OutputFormatTOML, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported output format: %s", format))
	}
}

func trimmedPaths(paths []string) []string {
	var out []string
	for _, path := range paths {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
