package adapters

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"

	"buildplan/internal/ports"
	"buildplan/internal/shared"
	"buildplan/internal/types"
)

const VersionCatalogFile = "libs.versions.toml"

type catalogLibrary struct {
	Module  string `toml:"module"`
	Version string `toml:"version"`
}

type versionCatalog struct {
	Versions  map[string]string         `toml:"versions"`
	Libraries map[string]catalogLibrary `toml:"libraries"`
}

// CatalogOutputAdapter writes a Gradle version catalog so a build script
// can consume the plan's pins through libs.* accessors.
type CatalogOutputAdapter struct {
	Dir string
}

func NewCatalogOutputAdapter(dir string) CatalogOutputAdapter {
	return CatalogOutputAdapter{Dir: dir}
}

func (a CatalogOutputAdapter) WriteVersionCatalog(plan types.BuildPlan) error {
	platform := plan.Platform()
	catalog := versionCatalog{
		Versions: map[string]string{
			"min-sdk":     strconv.Itoa(platform.MinVersion),
			"target-sdk":  strconv.Itoa(platform.TargetVersion),
			"compile-sdk": strconv.Itoa(platform.CompileVersion),
		},
		Libraries: map[string]catalogLibrary{},
	}
	deps := plan.Dependencies()
	identities := make([]types.Identity, 0, len(deps))
	for _, dep := range deps {
		identities = append(identities, dep.Identity())
	}
	aliases := shared.CatalogAliases(identities)
	for _, dep := range deps {
		catalog.Libraries[aliases[dep.Identity()]] = catalogLibrary{
			Module:  dep.Identity().String(),
			Version: dep.Version,
		}
	}
	data, err := toml.Marshal(catalog)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode version catalog").
			WithCause(err)
	}
	if a.Dir == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	if err := os.WriteFile(filepath.Join(a.Dir, VersionCatalogFile), data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write version catalog").
			WithCause(err)
	}
	return nil
}

var _ ports.CatalogPort = CatalogOutputAdapter{}
