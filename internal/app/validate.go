package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"buildplan/internal/core"
)

// Validate checks each configuration document and dry-runs the resolver
// on it without writing anything.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	paths := trimmedPaths(req.ConfigPaths)
	if len(paths) == 0 {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one build config is required")
	}
	compiler := core.NewConfigCompiler()
	resolver := s.resolver(req.DesugarNativeAPI)
	result := ValidateResult{}
	for _, path := range paths {
		cfg, err := s.ConfigLoader.LoadConfig(path)
		if err != nil {
			return ValidateResult{}, err
		}
		if err := compiler.ValidateConfig(ctx, cfg); err != nil {
			return ValidateResult{}, err
		}
		inputs, err := compiler.Inputs(cfg)
		if err != nil {
			return ValidateResult{}, err
		}
		plan, err := resolver.Resolve(ctx, inputs.Platform, inputs.Dependencies, inputs.Boms, inputs.Toggles)
		if err != nil {
			return ValidateResult{}, err
		}
		result.Configs = append(result.Configs, ValidatedConfig{
			Name:     cfg.Metadata.Name,
			Path:     path,
			Warnings: plan.Warnings(),
		})
	}
	return result, nil
}
