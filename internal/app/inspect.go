package app

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"buildplan/internal/adapters"
	"buildplan/internal/types"
)

// Inspect summarizes a resolved output directory. A conflict report takes
// precedence over any plan found next to it.
func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	format, err := normalizeFormat(req.Format)
	if err != nil {
		return InspectResult{}, err
	}
	report, err := s.OutputReader.ReadConflictReport(filepath.Join(outputDir, adapters.ConflictReportFile))
	if err == nil {
		return InspectResult{Conflicts: report.Conflicts}, nil
	}
	if errbuilder.CodeOf(err) != errbuilder.CodeNotFound {
		return InspectResult{}, err
	}
	file, err := s.OutputReader.ReadPlan(filepath.Join(outputDir, adapters.PlanFileName(format)))
	if err != nil {
		return InspectResult{}, err
	}
	locks, err := s.OutputReader.ReadDependencyLock(filepath.Join(outputDir, adapters.DependencyLockFile))
	if err != nil {
		return InspectResult{}, err
	}

	plan := types.PlanFromDocument(file.Plan)
	return InspectResult{
		Name:           file.Metadata.Name,
		Revision:       file.Metadata.Revision,
		Platform:       plan.Platform(),
		Fingerprint:    plan.Fingerprint(),
		Dependencies:   plan.Dependencies(),
		Configurations: summarizeConfigurations(plan.Dependencies()),
		Warnings:       plan.Warnings(),
		LockCount:      len(locks),
		LockMatches:    lockMatchesPlan(locks, plan),
	}, nil
}

func summarizeConfigurations(deps []types.ResolvedDependency) []InspectConfigurationSummary {
	artifacts := map[string][]string{}
	for _, dep := range deps {
		for _, configuration := range dep.Configurations {
			artifacts[configuration] = append(artifacts[configuration], dep.Identity().String())
		}
	}
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	summaries := make([]InspectConfigurationSummary, 0, len(names))
	for _, name := range names {
		members := artifacts[name]
		sort.Strings(members)
		summaries = append(summaries, InspectConfigurationSummary{
			Name:      name,
			Count:     len(members),
			Artifacts: members,
		})
	}
	return summaries
}

func lockMatchesPlan(locks []types.LockEntry, plan types.BuildPlan) bool {
	resolved := plan.Resolved()
	if len(locks) != len(resolved) {
		return false
	}
	for _, entry := range locks {
		version, ok := resolved[entry.Identity]
		if !ok || version != entry.Version {
			return false
		}
	}
	return true
}
