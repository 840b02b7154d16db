package types

import "strings"

// Identity is the (groupId, artifactId) pair that names an artifact
// independently of its version.
type Identity struct {
	GroupID    string
	ArtifactID string
}

func (i Identity) String() string {
	return i.GroupID + ":" + i.ArtifactID
}

func (i Identity) Less(other Identity) bool {
	if i.GroupID != other.GroupID {
		return i.GroupID < other.GroupID
	}
	return i.ArtifactID < other.ArtifactID
}

// ParseIdentity splits "group:artifact". It returns false when either
// part is missing.
func ParseIdentity(value string) (Identity, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return Identity{}, false
	}
	id := Identity{GroupID: strings.TrimSpace(parts[0]), ArtifactID: strings.TrimSpace(parts[1])}
	if id.GroupID == "" || id.ArtifactID == "" {
		return Identity{}, false
	}
	return id, true
}

// DependencyRef declares one artifact. Exactly one of Version and
// BoundedBy must be set.
type DependencyRef struct {
	GroupID       string
	ArtifactID    string
	Version       string
	BoundedBy     string
	Configuration string
	Source        string
}

func (d DependencyRef) Identity() Identity {
	return Identity{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
}

// BillOfMaterials anchors a family of artifacts to one version. Managed
// optionally pins individual members ("group:artifact" -> version).
type BillOfMaterials struct {
	Name       string
	GroupID    string
	ArtifactID string
	Version    string
	Managed    map[string]string
}

// VersionFor returns the version a BOM assigns to id: the managed pin
// when one exists, the BOM version otherwise.
func (b BillOfMaterials) VersionFor(id Identity) string {
	if pinned, ok := b.Managed[id.String()]; ok && strings.TrimSpace(pinned) != "" {
		return strings.TrimSpace(pinned)
	}
	return b.Version
}
