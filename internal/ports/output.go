package ports

import "buildplan/internal/types"

type OutputPort interface {
	WritePlan(file types.PlanFile, format types.OutputFormat) (string, error)
	WriteDependencyLock(plan types.BuildPlan) error
	WriteConflictReport(report *types.ConflictReport) error
	ClearConflictReport() error
	RemovePlanOutputs() error
}
