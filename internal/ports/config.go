package ports

import "buildplan/internal/types"

type ConfigLoaderPort interface {
	LoadConfig(path string) (types.BuildConfig, error)
}
