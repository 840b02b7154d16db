package ports

import "buildplan/internal/types"

type OutputReaderPort interface {
	ReadPlan(path string) (types.PlanFile, error)
	ReadDependencyLock(path string) ([]types.LockEntry, error)
	ReadConflictReport(path string) (*types.ConflictReport, error)
}
