package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Coordinate is a parsed Maven coordinate. Version is empty when the
// coordinate defers to a BOM.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// ParseCoordinate splits "group:artifact" or "group:artifact:version".
// source is only used to make error messages point at the declaration.
func ParseCoordinate(raw string, source string) (Coordinate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Coordinate{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("empty coordinate (%s)", source))
	}
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Coordinate{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid coordinate: %s (%s)", raw, source))
	}
	coord := Coordinate{
		GroupID:    strings.TrimSpace(parts[0]),
		ArtifactID: strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		coord.Version = strings.TrimSpace(parts[2])
		if coord.Version == "" {
			return Coordinate{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid coordinate: %s (%s)", raw, source))
		}
	}
	if coord.GroupID == "" || coord.ArtifactID == "" {
		return Coordinate{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid coordinate: %s (%s)", raw, source))
	}
	return coord, nil
}

func (c Coordinate) String() string {
	if c.Version == "" {
		return c.GroupID + ":" + c.ArtifactID
	}
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}
