package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"buildplan/internal/app"
	"buildplan/internal/types"
)

type resolveOptions struct {
	BuildConfigs       []string
	OutputDir          string
	Format             string
	DesugarNativeAPI   int
	EmitVersionCatalog bool
	EmitSBOM           bool
	SBOMCreatedAt      string
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve build configs into pinned build plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}
	bindResolveFlags(cmd, &opts)

	_ = viper.BindPFlag("build_configs", cmd.Flags().Lookup("build-config"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("desugar_native_api", cmd.Flags().Lookup("desugar-native-api"))
	_ = viper.BindPFlag("version_catalog", cmd.Flags().Lookup("version-catalog"))
	_ = viper.BindPFlag("sbom", cmd.Flags().Lookup("sbom"))
	_ = viper.BindPFlag("sbom_created_at", cmd.Flags().Lookup("sbom-created-at"))
	_ = viper.BindEnv("sbom_created_at", envPrefix+"_SBOM_CREATED_AT", "SOURCE_DATE_EPOCH")
	return cmd
}

func bindResolveFlags(cmd *cobra.Command, opts *resolveOptions) {
	cmd.Flags().StringSliceVar(&opts.BuildConfigs, "build-config", nil, "Build config document(s)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().StringVar(&opts.Format, "format", string(types.OutputFormatYAML), "Plan format (yaml, json, toml)")
	cmd.Flags().IntVar(&opts.DesugarNativeAPI, "desugar-native-api", 0, "Platform level with native support for desugared APIs")
	cmd.Flags().BoolVar(&opts.EmitVersionCatalog, "version-catalog", false, "Emit a Gradle version catalog")
	cmd.Flags().BoolVar(&opts.EmitSBOM, "sbom", false, "Emit an SPDX SBOM of resolved dependencies")
	cmd.Flags().StringVar(&opts.SBOMCreatedAt, "sbom-created-at", "", "Fixed SBOM creation time (RFC 3339 or Unix seconds)")
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service := newAppService()
	result, err := service.Resolve(ctx, app.ResolveRequest{
		ConfigPaths:        resolveStrings(cmd, opts.BuildConfigs, "build_configs", "build-config"),
		OutputDir:          resolveString(cmd, opts.OutputDir, "output", "output"),
		Format:             types.OutputFormat(resolveString(cmd, opts.Format, "format", "format")),
		DesugarNativeAPI:   resolveInt(cmd, opts.DesugarNativeAPI, "desugar_native_api", "desugar-native-api"),
		EmitVersionCatalog: resolveBool(cmd, opts.EmitVersionCatalog, "version_catalog", "version-catalog"),
		EmitSBOM:           resolveBool(cmd, opts.EmitSBOM, "sbom", "sbom"),
		SBOMCreatedAt:      resolveString(cmd, opts.SBOMCreatedAt, "sbom_created_at", "sbom-created-at"),
	})
	if err != nil {
		return err
	}
	for _, resolved := range result.Configs {
		fmt.Printf("resolved: %s (%d dependencies, fingerprint %s) -> %s\n",
			resolved.Name, resolved.Dependencies, resolved.Fingerprint, resolved.PlanPath)
		for _, warning := range resolved.Warnings {
			fmt.Printf("  warning: %s: %s\n", warning.Kind, warning.Message)
		}
	}
	return nil
}
