package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"buildplan/internal/core"
	"buildplan/internal/types"
)

// Verify checks that a written plan is intact and reproducible: its
// fingerprint matches its content, and resolving its own pins as
// explicit versions yields the same plan.
func (s Service) Verify(ctx context.Context, req VerifyRequest) (VerifyResult, error) {
	planPath := strings.TrimSpace(req.PlanPath)
	if planPath == "" {
		return VerifyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("plan path is required")
	}
	file, err := s.OutputReader.ReadPlan(planPath)
	if err != nil {
		return VerifyResult{}, err
	}
	plan := types.PlanFromDocument(file.Plan)
	if recomputed := core.PlanFingerprint(plan); recomputed != plan.Fingerprint() {
		return VerifyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("plan fingerprint mismatch: recorded %s, content %s", plan.Fingerprint(), recomputed))
	}

	resolver := s.resolver(req.DesugarNativeAPI)
	reresolved, err := resolver.Resolve(ctx, plan.Platform(), core.ExplicitDependencies(plan), nil, plan.Toggles())
	if err != nil {
		return VerifyResult{}, err
	}
	if reresolved.Fingerprint() != plan.Fingerprint() {
		return VerifyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("plan is not reproducible: recorded %s, re-resolved %s", plan.Fingerprint(), reresolved.Fingerprint()))
	}
	log.Ctx(ctx).Debug().Str("plan", planPath).Msg("plan verified")
	return VerifyResult{Name: file.Metadata.Name, Fingerprint: plan.Fingerprint()}, nil
}
