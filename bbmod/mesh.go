package bbmod

import (
	"fmt"
	"math"

	"github.com/binzume/bbmod/geom"
	"github.com/binzume/bbmod/scene"
)

// MaxInfluences is the number of bone influences a vertex can hold.
const MaxInfluences = 4

var white = geom.NewVector4(1, 1, 1, 1)

type Vertex struct {
	Position      geom.Vector3
	Normal        geom.Vector3
	TexCoord      geom.Vector2
	Color         uint32
	Tangent       geom.Vector3
	BitangentSign float32
	Bones         [MaxInfluences]float32
	Weights       [MaxInfluences]float32
	ID            int32
}

// Mesh is a non-indexed triangle list. Every three vertices form a triangle.
type Mesh struct {
	MaterialIndex int
	Vertices      []*Vertex
	Format        *VertexFormat

	// influences that didn't fit into a vertex
	DroppedInfluences int
}

// TopologyError reports a face that is not a triangle.
type TopologyError struct {
	Mesh      string
	MeshIndex int
	Face      int
	Indices   int
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("mesh %d %q: face %d has %d vertices, only triangles are supported", e.MeshIndex, e.Mesh, e.Face, e.Indices)
}

func toByte(v float32) uint32 {
	return uint32(math.Round(float64(geom.Clamp(v, 0, 1)) * 255))
}

// EncodeColor packs an RGBA color as (A<<24)|(B<<16)|(G<<8)|R.
func EncodeColor(c geom.Vector4) uint32 {
	return toByte(c.W)<<24 | toByte(c.Z)<<16 | toByte(c.Y)<<8 | toByte(c.X)
}

func DecodeColor(c uint32) geom.Vector4 {
	return geom.Vector4{
		X: float32(c&0xff) / 255,
		Y: float32(c>>8&0xff) / 255,
		Z: float32(c>>16&0xff) / 255,
		W: float32(c>>24&0xff) / 255,
	}
}

// BitangentSign returns -1 if (n x t) points away from b, otherwise 1.
func BitangentSign(n, t, b geom.Vector3) float32 {
	if n.Cross(t).Dot(b) < 0 {
		return -1
	}
	return 1
}

type influence struct {
	bone   float32
	weight float32
}

// gatherInfluences maps source vertex ids to their influences in bone order.
func gatherInfluences(src *scene.Mesh, skel *Skeleton) map[int][]influence {
	influences := map[int][]influence{}
	for _, b := range src.Bones {
		bone := skel.FindByName(b.Name)
		if bone == nil {
			continue
		}
		for _, w := range b.Weights {
			influences[w.VertexID] = append(influences[w.VertexID], influence{float32(bone.Index), w.Weight})
		}
	}
	return influences
}

// FlattenMesh expands the indexed faces of src into one vertex per triangle corner.
func FlattenMesh(src *scene.Mesh, meshIndex int, vf *VertexFormat, skel *Skeleton, conf *Config) (*Mesh, error) {
	mesh := &Mesh{
		MaterialIndex: src.MaterialIndex,
		Format:        vf,
		Vertices:      make([]*Vertex, 0, len(src.Faces)*3),
	}

	var influences map[int][]influence
	if vf.Bones {
		influences = gatherInfluences(src, skel)
		for _, inf := range influences {
			if len(inf) > MaxInfluences {
				mesh.DroppedInfluences += len(inf) - MaxInfluences
			}
		}
	}

	corners := [3]int{0, 1, 2}
	if conf.InvertWinding {
		corners = [3]int{2, 1, 0}
	}

	for fi, face := range src.Faces {
		if len(face) != 3 {
			return nil, &TopologyError{Mesh: src.Name, MeshIndex: meshIndex, Face: fi, Indices: len(face)}
		}
		for _, c := range corners {
			idx := face[c]
			if idx < 0 || idx >= len(src.Positions) {
				return nil, fmt.Errorf("mesh %d %q: face %d: vertex index %d out of range", meshIndex, src.Name, fi, idx)
			}
			mesh.Vertices = append(mesh.Vertices, flattenVertex(src, idx, vf, influences, conf))
		}
	}
	return mesh, nil
}

func flattenVertex(src *scene.Mesh, idx int, vf *VertexFormat, influences map[int][]influence, conf *Config) *Vertex {
	v := &Vertex{Position: conf.Transform.Transform(src.Positions[idx], 1)}

	var normal geom.Vector3
	if idx < len(src.Normals) {
		normal = src.Normals[idx]
		if conf.FlipNormals {
			normal = normal.Neg()
		}
		normal = conf.Transform.Transform(normal, 0)
	}
	if vf.Normals {
		v.Normal = normal
	}

	if vf.TextureCoords {
		if idx < len(src.TexCoords) {
			v.TexCoord = src.TexCoords[idx]
		}
		if conf.FlipTextureHorizontally {
			v.TexCoord.X = 1 - v.TexCoord.X
		}
		if conf.FlipTextureVertically {
			v.TexCoord.Y = 1 - v.TexCoord.Y
		}
	}

	if vf.Colors {
		color := white
		if idx < len(src.Colors) {
			color = src.Colors[idx]
		}
		v.Color = EncodeColor(color)
	}

	if vf.TangentW {
		v.BitangentSign = 1
		if idx < len(src.Tangents) && idx < len(src.Bitangents) {
			v.Tangent = conf.Transform.Transform(src.Tangents[idx], 0)
			bitangent := conf.Transform.Transform(src.Bitangents[idx], 0)
			v.BitangentSign = BitangentSign(normal, v.Tangent, bitangent)
		}
	}

	if vf.Bones {
		for i, inf := range influences[idx] {
			if i >= MaxInfluences {
				break
			}
			v.Bones[i] = inf.bone
			v.Weights[i] = inf.weight
		}
	}
	return v
}
