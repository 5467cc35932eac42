package scene

import (
	"testing"

	"github.com/binzume/bbmod/geom"
)

func triangleMesh() *Mesh {
	return &Mesh{
		Name: "tri",
		Positions: []geom.Vector3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		TexCoords: []geom.Vector2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
		Faces:     []Face{{0, 1, 2}},
		Bones: []*Bone{
			{Name: "b", Weights: []VertexWeight{{VertexID: 1, Weight: 1}}, Offset: geom.IdentityMatrix4()},
		},
	}
}

func TestValidate(t *testing.T) {
	if err := (&Scene{}).Validate(); err != ErrNoRoot {
		t.Error("expected ErrNoRoot, got", err)
	}
	if err := (&Scene{Root: NewNode("root")}).Validate(); err != ErrNoMeshes {
		t.Error("expected ErrNoMeshes, got", err)
	}

	s := &Scene{Root: NewNode("root"), Meshes: []*Mesh{triangleMesh()}, Materials: []string{"m"}}
	if err := s.Validate(); err != nil {
		t.Error(err)
	}
	s.Root.Meshes = []int{3}
	if err := s.Validate(); err == nil {
		t.Error("mesh index out of range should fail")
	}
	s.Root.Meshes = nil
	s.Meshes[0].MaterialIndex = 1
	if err := s.Validate(); err == nil {
		t.Error("material index out of range should fail")
	}
}

func TestGenerateNormals(t *testing.T) {
	for _, mode := range []NormalsMode{NormalsFlat, NormalsSmooth} {
		s := &Scene{Meshes: []*Mesh{triangleMesh()}}
		if n := s.GenerateNormals(mode); n != 1 {
			t.Fatalf("%v: expected 1 mesh changed, got %d", mode, n)
		}
		m := s.Meshes[0]
		if len(m.Normals) != len(m.Positions) {
			t.Fatalf("%v: normals %d != positions %d", mode, len(m.Normals), len(m.Positions))
		}
		for _, n := range m.Normals {
			if n != geom.NewVector3(0, 0, 1) {
				t.Errorf("%v: unexpected normal %v", mode, n)
			}
		}
		if len(m.Bones[0].Weights) != 1 {
			t.Errorf("%v: bone weights should survive: %v", mode, m.Bones[0].Weights)
		}
	}

	s := &Scene{Meshes: []*Mesh{triangleMesh()}}
	if s.GenerateNormals(NormalsNone) != 0 || s.Meshes[0].HasNormals() {
		t.Error("NormalsNone should not generate normals")
	}
}

func TestGenerateFlatNormalsShortAttributes(t *testing.T) {
	m := triangleMesh()
	m.TexCoords = m.TexCoords[:1]
	m.Colors = []geom.Vector4{{X: 1, Y: 0, Z: 0, W: 1}}
	m.Tangents = []geom.Vector3{{X: 1}}
	m.Bitangents = []geom.Vector3{{Y: 1}}
	s := &Scene{Meshes: []*Mesh{m}}
	if s.GenerateNormals(NormalsFlat) != 1 {
		t.Fatal("normals should be generated")
	}
	if len(m.TexCoords) != 3 || len(m.Colors) != 3 || len(m.Tangents) != 3 || len(m.Bitangents) != 3 {
		t.Fatalf("attributes not expanded: uv=%d color=%d tangent=%d bitangent=%d",
			len(m.TexCoords), len(m.Colors), len(m.Tangents), len(m.Bitangents))
	}
	if m.TexCoords[1] != (geom.Vector2{}) {
		t.Error("missing texcoord should be zero:", m.TexCoords[1])
	}
	if m.Colors[0] != geom.NewVector4(1, 0, 0, 1) || m.Colors[2] != geom.NewVector4(1, 1, 1, 1) {
		t.Error("unexpected colors:", m.Colors)
	}
	if m.Tangents[0] != geom.NewVector3(1, 0, 0) || m.Tangents[1] != (geom.Vector3{}) {
		t.Error("unexpected tangents:", m.Tangents)
	}
}

func TestCalcTangents(t *testing.T) {
	m := triangleMesh()
	m.Normals = []geom.Vector3{{Z: 1}, {Z: 1}, {Z: 1}}
	s := &Scene{Meshes: []*Mesh{m}}
	if s.CalcTangents() != 1 {
		t.Fatal("tangents should be generated")
	}
	for i := range m.Positions {
		if m.Tangents[i] != geom.NewVector3(1, 0, 0) {
			t.Error("tangent", i, m.Tangents[i])
		}
		if m.Bitangents[i] != geom.NewVector3(0, 1, 0) {
			t.Error("bitangent", i, m.Bitangents[i])
		}
	}
	if s.CalcTangents() != 0 {
		t.Error("existing tangents should be kept")
	}
}

func TestMakeLeftHanded(t *testing.T) {
	root := NewNode("root")
	root.Transform = geom.NewTranslateMatrix4(1, 2, 3)
	s := &Scene{
		Meshes: []*Mesh{triangleMesh()},
		Root:   root,
		Animations: []*Animation{{
			Channels: []*Channel{{
				NodeName:     "root",
				PositionKeys: []VectorKey{{Value: geom.NewVector3(1, 2, 3)}},
				RotationKeys: []QuatKey{{Value: geom.NewVector4(0.1, 0.2, 0.3, 0.9)}},
			}},
		}},
	}
	s.Meshes[0].Positions[0] = geom.NewVector3(0, 0, 5)
	s.MakeLeftHanded()

	m := s.Meshes[0]
	if m.Positions[0] != geom.NewVector3(0, 0, -5) {
		t.Error("position", m.Positions[0])
	}
	if f := m.Faces[0]; f[0] != 2 || f[1] != 1 || f[2] != 0 {
		t.Error("winding should be reversed", f)
	}
	if root.Transform.Translation() != geom.NewVector3(1, 2, -3) {
		t.Error("node transform", root.Transform)
	}
	ch := s.Animations[0].Channels[0]
	if ch.PositionKeys[0].Value != geom.NewVector3(1, 2, -3) {
		t.Error("position key", ch.PositionKeys[0].Value)
	}
	if ch.RotationKeys[0].Value != geom.NewVector4(-0.1, -0.2, 0.3, 0.9) {
		t.Error("rotation key", ch.RotationKeys[0].Value)
	}
}
