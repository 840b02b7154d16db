package adapters

import (
	"bytes"
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

// ConfigFileAdapter loads build configuration documents. The format is
// picked from the file extension; unknown fields are rejected so typos
// in toggle names cannot silently disable a check.
type ConfigFileAdapter struct{}

func NewConfigFileAdapter() ConfigFileAdapter {
	return ConfigFileAdapter{}
}

func (a ConfigFileAdapter) LoadConfig(path string) (types.BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.BuildConfig{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("build config not found: %s", path)).
				WithCause(err)
		}
		return types.BuildConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read build config: %s", path)).
			WithCause(err)
	}
	format, err := formatForPath(path)
	if err != nil {
		return types.BuildConfig{}, err
	}
	var cfg types.BuildConfig
	if err := decodeStrict(data, format, &cfg); err != nil {
		return types.BuildConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse build config %s", format)).
			WithCause(err)
	}
	return cfg, nil
}

func decodeStrict(data []byte, format types.OutputFormat, out any) error {
	switch format {
	case types.OutputFormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		return decoder.Decode(out)
	case types.OutputFormatTOML:
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		return decoder.Decode(out)
	case types.OutputFormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		return decoder.Decode(out)
	default:
		return fmt.Errorf("unsupported format %s", format)
	}
}

func formatForPath(path string) (types.OutputFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return types.OutputFormatYAML, nil
	case ".toml":
		return types.OutputFormatTOML, nil
	case ".json":
		return types.OutputFormatJSON, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported document extension: %s", path))
	}
}

var _ ports.ConfigLoaderPort = ConfigFileAdapter{}
