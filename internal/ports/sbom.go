package ports

import "buildplan/internal/types"

type SBOMPort interface {
	WriteSBOM(dir string, file types.PlanFile, createdAt string) error
}
