package bbmod

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"testing"

	"github.com/binzume/bbmod/geom"
	"github.com/binzume/bbmod/scene"
)

// triangleScene returns a scene with one triangle referenced by the root node.
func triangleScene() *scene.Scene {
	root := scene.NewNode("root")
	root.Meshes = []int{0}
	return &scene.Scene{
		Meshes: []*scene.Mesh{{
			Name: "tri",
			Positions: []geom.Vector3{
				{X: 0, Y: 0, Z: 0},
				{X: 1, Y: 0, Z: 0},
				{X: 0, Y: 1, Z: 0},
			},
			Normals:   []geom.Vector3{{Z: 1}, {Z: 1}, {Z: 1}},
			TexCoords: []geom.Vector2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
			Faces:     []scene.Face{{0, 1, 2}},
		}},
		Materials: []string{"mat"},
		Root:      root,
	}
}

// skinnedScene returns a scene with two bones and the node hierarchy
// root -> armature -> {bone0 -> bone1, mesh}.
func skinnedScene() *scene.Scene {
	sc := triangleScene()
	sc.Meshes[0].Bones = []*scene.Bone{
		{Name: "bone0", Offset: geom.NewTranslateMatrix4(0, -1, 0), Weights: []scene.VertexWeight{{VertexID: 0, Weight: 1}, {VertexID: 1, Weight: 0.5}}},
		{Name: "bone1", Offset: geom.NewTranslateMatrix4(0, -2, 0), Weights: []scene.VertexWeight{{VertexID: 1, Weight: 0.5}, {VertexID: 2, Weight: 1}}},
	}
	root := scene.NewNode("root")
	armature := scene.NewNode("armature")
	bone0 := scene.NewNode("bone0")
	bone1 := scene.NewNode("bone1")
	mesh := scene.NewNode("mesh")
	mesh.Meshes = []int{0}
	bone0.Children = []*scene.Node{bone1}
	armature.Children = []*scene.Node{bone0, mesh}
	root.Children = []*scene.Node{armature}
	sc.Root = root
	return sc
}

// decoder reads back values written by baseWriter.
type decoder struct {
	t *testing.T
	r *bytes.Reader
}

func newDecoder(t *testing.T, data []byte) *decoder {
	return &decoder{t: t, r: bytes.NewReader(data)}
}

func (d *decoder) read(v interface{}) {
	d.t.Helper()
	if err := binary.Read(d.r, binary.NativeEndian, v); err != nil {
		d.t.Fatalf("read failed: %v", err)
	}
}

func (d *decoder) word() int {
	d.t.Helper()
	if strconv.IntSize == 32 {
		var v uint32
		d.read(&v)
		return int(v)
	}
	var v uint64
	d.read(&v)
	return int(v)
}

func (d *decoder) float() float32 {
	d.t.Helper()
	var v float32
	d.read(&v)
	return v
}

func (d *decoder) double() float64 {
	d.t.Helper()
	var v float64
	d.read(&v)
	return v
}

func (d *decoder) bool() bool {
	d.t.Helper()
	var v bool
	d.read(&v)
	return v
}

func (d *decoder) byte() byte {
	d.t.Helper()
	b, err := d.r.ReadByte()
	if err != nil {
		d.t.Fatalf("read failed: %v", err)
	}
	return b
}

func (d *decoder) string() string {
	d.t.Helper()
	var s []byte
	for {
		b := d.byte()
		if b == 0 {
			return string(s)
		}
		s = append(s, b)
	}
}

func (d *decoder) floats(n int) []float32 {
	d.t.Helper()
	v := make([]float32, n)
	d.read(v)
	return v
}

func (d *decoder) matrix() geom.Matrix4 {
	d.t.Helper()
	var m geom.Matrix4
	d.read(&m)
	return m
}

func (d *decoder) done() {
	d.t.Helper()
	if d.r.Len() != 0 {
		d.t.Errorf("%d trailing bytes", d.r.Len())
	}
}
