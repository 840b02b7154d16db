package ports

import "buildplan/internal/types"

// CatalogPort emits artifacts for tools that consume a plan in their own
// format.
type CatalogPort interface {
	WriteVersionCatalog(plan types.BuildPlan) error
}
