package adapters

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"buildplan/internal/ports"
	"buildplan/internal/types"
)

const (
	PlanFileBase       = "build-plan"
	DependencyLockFile = "dependencies.lock"
	ConflictReportFile = "conflicts.yaml"
)

type OutputFileAdapter struct {
	Dir string
}

func NewOutputFileAdapter(dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir}
}

// PlanFileName returns the file name a plan is written to for format.
func PlanFileName(format types.OutputFormat) string {
	return PlanFileBase + "." + string(format)
}

func (a OutputFileAdapter) WritePlan(file types.PlanFile, format types.OutputFormat) (string, error) {
	if format == "" {
		format = types.OutputFormatYAML
	}
	data, err := encodeDocument(file, format)
	if err != nil {
		return "", err
	}
	path, err := a.ensurePath(PlanFileName(format))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write build plan").
			WithCause(err)
	}
	return path, nil
}

// WriteDependencyLock writes one "group:artifact:version" line per pin,
// in identity order.
func (a OutputFileAdapter) WriteDependencyLock(plan types.BuildPlan) error {
	path, err := a.ensurePath(DependencyLockFile)
	if err != nil {
		return err
	}
	var lines []string
	for _, dep := range plan.Dependencies() {
		lines = append(lines, fmt.Sprintf("%s:%s", dep.Identity(), dep.Version))
	}
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write dependency lock").
			WithCause(err)
	}
	return nil
}

func (a OutputFileAdapter) WriteConflictReport(report *types.ConflictReport) error {
	if report == nil {
		report = &types.ConflictReport{}
	}
	path, err := a.ensurePath(ConflictReportFile)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode conflict report").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write conflict report").
			WithCause(err)
	}
	return nil
}

// ClearConflictReport removes a report left behind by an earlier failed
// resolution into the same directory.
func (a OutputFileAdapter) ClearConflictReport() error {
	if a.Dir == "" {
		return nil
	}
	err := os.Remove(filepath.Join(a.Dir, ConflictReportFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove stale conflict report").
			WithCause(err)
	}
	return nil
}

// RemovePlanOutputs deletes every artifact of an earlier successful
// resolution so a failed run leaves only its conflict report behind.
func (a OutputFileAdapter) RemovePlanOutputs() error {
	if a.Dir == "" {
		return nil
	}
	names := []string{DependencyLockFile, VersionCatalogFile, SBOMFile}
	for _, format := range []types.OutputFormat{types.OutputFormatYAML, types.OutputFormatJSON, types.OutputFormatTOML} {
		names = append(names, PlanFileName(format))
	}
	for _, name := range names {
		err := os.Remove(filepath.Join(a.Dir, name))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to remove stale %s", name)).
				WithCause(err)
		}
	}
	return nil
}

func (a OutputFileAdapter) ensurePath(filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, filename), nil
}

func encodeDocument(value any, format types.OutputFormat) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case types.OutputFormatYAML:
		data, err = yaml.Marshal(value)
	case types.OutputFormatJSON:
		data, err = json.MarshalIndent(value, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case types.OutputFormatTOML:
		data, err = toml.Marshal(value)
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported output format: %s", format))
	}
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to encode %s document", format)).
			WithCause(err)
	}
	return data, nil
}

var _ ports.OutputPort = OutputFileAdapter{}
