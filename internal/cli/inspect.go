package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"buildplan/internal/app"
	"buildplan/internal/types"
)

type inspectOptions struct {
	OutputDir string
	Format    string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect a resolved output directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().StringVar(&opts.Format, "format", string(types.OutputFormatYAML), "Plan format (yaml, json, toml)")
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
		Format:    types.OutputFormat(resolveString(cmd, opts.Format, "format", "format")),
	})
	if err != nil {
		return err
	}
	if len(result.Conflicts) > 0 {
		fmt.Printf("conflicts.yaml entries: %d\n", len(result.Conflicts))
		for _, conflict := range result.Conflicts {
			fmt.Printf("- %s: %s [%s]\n", conflict.Kind, conflict.Message, strings.Join(conflict.Identities, ", "))
		}
		return nil
	}

	fmt.Printf("plan: %s (revision %s)\n", result.Name, result.Revision)
	fmt.Printf("platform: min %d, target %d, compile %d\n",
		result.Platform.MinVersion, result.Platform.TargetVersion, result.Platform.CompileVersion)
	fmt.Printf("fingerprint: %s\n", result.Fingerprint)
	fmt.Printf("dependencies.lock entries: %d (matches plan: %t)\n", result.LockCount, result.LockMatches)
	fmt.Println("configurations:")
	for _, summary := range result.Configurations {
		fmt.Printf("- %s: %d artifacts\n", summary.Name, summary.Count)
		if len(summary.Artifacts) > 0 {
			fmt.Printf("  %s\n", strings.Join(summary.Artifacts, ", "))
		}
	}
	fmt.Printf("warnings: %d\n", len(result.Warnings))
	for _, warning := range result.Warnings {
		fmt.Printf("- %s: %s\n", warning.Kind, warning.Message)
	}
	return nil
}
