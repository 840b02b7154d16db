package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"buildplan/internal/app"
)

type verifyOptions struct {
	Plan             string
	DesugarNativeAPI int
}

func newVerifyCommand() *cobra.Command {
	opts := verifyOptions{}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that a written build plan is intact and reproducible",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Plan, "plan", "out/build-plan.yaml", "Build plan file")
	cmd.Flags().IntVar(&opts.DesugarNativeAPI, "desugar-native-api", 0, "Platform level with native support for desugared APIs")
	return cmd
}

func runVerify(ctx context.Context, cmd *cobra.Command, opts verifyOptions) error {
	service := newAppService()
	result, err := service.Verify(ctx, app.VerifyRequest{
		PlanPath:         opts.Plan,
		DesugarNativeAPI: resolveInt(cmd, opts.DesugarNativeAPI, "desugar_native_api", "desugar-native-api"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("verified: %s (fingerprint %s)\n", result.Name, result.Fingerprint)
	return nil
}
