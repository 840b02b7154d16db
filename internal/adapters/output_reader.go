package adapters

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"buildplan/internal/ports"
	"buildplan/internal/types"
)

type OutputReaderAdapter struct{}

func NewOutputReaderAdapter() OutputReaderAdapter {
	return OutputReaderAdapter{}
}

func (a OutputReaderAdapter) ReadPlan(path string) (types.PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PlanFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("build plan not found: %s", path)).
			WithCause(err)
	}
	format, err := formatForPath(path)
	if err != nil {
		return types.PlanFile{}, err
	}
	var file types.PlanFile
	if err := decodeStrict(data, format, &file); err != nil {
		return types.PlanFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid build plan format").
			WithCause(err)
	}
	if file.Kind != types.PlanKind {
		return types.PlanFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("document kind is not %s", types.PlanKind))
	}
	return file, nil
}

func (a OutputReaderAdapter) ReadDependencyLock(path string) ([]types.LockEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("dependencies.lock not found").
			WithCause(err)
	}
	var entries []types.LockEntry
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid dependencies.lock line: %s", line))
		}
		entries = append(entries, types.LockEntry{
			Identity: types.Identity{GroupID: parts[0], ArtifactID: parts[1]},
			Version:  parts[2],
		})
	}
	return entries, nil
}

func (a OutputReaderAdapter) ReadConflictReport(path string) (*types.ConflictReport, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("conflicts.yaml not found").
			WithCause(err)
	}
	report := &types.ConflictReport{}
	if err := yaml.Unmarshal(content, report); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid conflicts.yaml format").
			WithCause(err)
	}
	return report, nil
}

var _ ports.OutputReaderPort = OutputReaderAdapter{}
