package bbmod

import (
	"fmt"
	"strings"

	"github.com/binzume/bbmod/scene"
)

// VertexFormat is the set of attributes every vertex of a model carries.
type VertexFormat struct {
	Vertices      bool
	Normals       bool
	TextureCoords bool
	Colors        bool
	// tangent and bitangent sign
	TangentW bool
	Bones    bool
	IDs      bool
}

// ResolveVertexFormat decides the attributes of the model from its first mesh.
// Bones is left false; it is set once the skeleton is known.
func ResolveVertexFormat(first *scene.Mesh, conf *Config) *VertexFormat {
	return &VertexFormat{
		Vertices:      true,
		Normals:       first.HasNormals() && !conf.DisableNormals,
		TextureCoords: first.HasTexCoords() && !conf.DisableTextureCoords,
		Colors:        first.HasColors() && !conf.DisableVertexColors,
		TangentW:      first.HasTangents() && !(conf.DisableNormals || conf.DisableTangentW),
	}
}

// Mismatches lists the attributes whose presence in mesh differs from the format.
func (vf *VertexFormat) Mismatches(mesh *scene.Mesh, conf *Config) []string {
	var diff []string
	check := func(name string, enabled, has, disabled bool) {
		if enabled && !has {
			diff = append(diff, "missing "+name)
		} else if !enabled && has && !disabled {
			diff = append(diff, "dropped "+name)
		}
	}
	check("normals", vf.Normals, mesh.HasNormals(), conf.DisableNormals)
	check("texcoords", vf.TextureCoords, mesh.HasTexCoords(), conf.DisableTextureCoords)
	check("colors", vf.Colors, mesh.HasColors(), conf.DisableVertexColors)
	check("tangents", vf.TangentW, mesh.HasTangents(), conf.DisableNormals || conf.DisableTangentW)
	return diff
}

// flags returns the format in serialization order.
func (vf *VertexFormat) flags() [7]bool {
	return [7]bool{vf.Vertices, vf.Normals, vf.TextureCoords, vf.Colors, vf.TangentW, vf.Bones, vf.IDs}
}

// VertexFormatError reports a mesh whose attributes differ from the model's format.
type VertexFormatError struct {
	Mesh      string
	MeshIndex int
	Diff      []string
}

func (e *VertexFormatError) Error() string {
	return fmt.Sprintf("mesh %d %q: vertex format differs from first mesh (%s)", e.MeshIndex, e.Mesh, strings.Join(e.Diff, ", "))
}
