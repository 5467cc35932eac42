// Package scene defines the in-memory scene handed over by model importers:
// indexed meshes, bones, the node hierarchy and animation clips.
package scene

import (
	"errors"
	"fmt"

	"github.com/binzume/bbmod/geom"
)

var (
	ErrNoRoot   = errors.New("scene has no root node")
	ErrNoMeshes = errors.New("scene has no meshes")
)

type Scene struct {
	Meshes     []*Mesh
	Materials  []string
	Root       *Node
	Animations []*Animation
}

// Face holds vertex indices of a polygon.
type Face []int

type Mesh struct {
	Name      string
	Positions []geom.Vector3
	Normals   []geom.Vector3
	// texture coordinate channel 0
	TexCoords []geom.Vector2
	// vertex color channel 0 (RGBA)
	Colors     []geom.Vector4
	Tangents   []geom.Vector3
	Bitangents []geom.Vector3
	Faces      []Face
	Bones      []*Bone

	MaterialIndex int
}

func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0
}

func (m *Mesh) HasTexCoords() bool {
	return len(m.TexCoords) > 0
}

func (m *Mesh) HasColors() bool {
	return len(m.Colors) > 0
}

func (m *Mesh) HasTangents() bool {
	return len(m.Tangents) > 0 && len(m.Bitangents) > 0
}

func (m *Mesh) HasBones() bool {
	return len(m.Bones) > 0
}

type VertexWeight struct {
	VertexID int
	Weight   float32
}

type Bone struct {
	Name    string
	Weights []VertexWeight
	// mesh space to bone space in bind pose
	Offset geom.Matrix4
}

type Node struct {
	Name      string
	Transform geom.Matrix4
	Meshes    []int
	Children  []*Node
}

func NewNode(name string) *Node {
	return &Node{Name: name, Transform: geom.IdentityMatrix4()}
}

// Walk visits the node and its descendants in pre-order.
func (n *Node) Walk(fn func(n *Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

func (n *Node) FindByName(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

type VectorKey struct {
	Time  float64
	Value geom.Vector3
}

type QuatKey struct {
	Time  float64
	Value geom.Quaternion
}

type Channel struct {
	NodeName     string
	PositionKeys []VectorKey
	RotationKeys []QuatKey
}

type Animation struct {
	Name           string
	Duration       float64
	TicksPerSecond float64
	Channels       []*Channel
}

// Validate checks the references an importer must keep consistent.
func (s *Scene) Validate() error {
	if s.Root == nil {
		return ErrNoRoot
	}
	if len(s.Meshes) == 0 {
		return ErrNoMeshes
	}
	for i, m := range s.Meshes {
		if m.MaterialIndex < 0 || m.MaterialIndex >= len(s.Materials) {
			return fmt.Errorf("mesh %d %q: material index %d out of range (%d materials)", i, m.Name, m.MaterialIndex, len(s.Materials))
		}
	}
	var err error
	s.Root.Walk(func(n *Node) {
		for _, mi := range n.Meshes {
			if err == nil && (mi < 0 || mi >= len(s.Meshes)) {
				err = fmt.Errorf("node %q: mesh index %d out of range", n.Name, mi)
			}
		}
	})
	return err
}
