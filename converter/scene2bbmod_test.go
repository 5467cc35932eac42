package converter

import (
	"errors"
	"testing"

	"github.com/binzume/bbmod/bbmod"
	"github.com/binzume/bbmod/geom"
	"github.com/binzume/bbmod/scene"
)

func TestSceneToBBMOD(t *testing.T) {
	sc, err := NewGLTFToSceneConverter(nil).Convert(skinnedDocument())
	if err != nil {
		t.Fatal(err)
	}
	sc.Meshes[0].Normals = nil
	sc.Animations = append(sc.Animations, &scene.Animation{
		Name:     "broken",
		Channels: []*scene.Channel{{NodeName: "tail"}},
	})

	conv := NewSceneToBBMODConverter(nil)
	model, err := conv.ConvertModel(sc)
	if err != nil {
		t.Fatal(err)
	}
	vf := model.VertexFormat
	if !vf.Normals || !vf.TextureCoords || !vf.TangentW || !vf.Bones || vf.Colors {
		t.Errorf("vertex format %+v", *vf)
	}
	if len(model.Meshes[0].Vertices) != 6 {
		t.Errorf("vertices %d", len(model.Meshes[0].Vertices))
	}
	// generated normals face +Z and are mirrored to -Z
	if n := model.Meshes[0].Vertices[0].Normal; n != geom.NewVector3(0, 0, -1) {
		t.Errorf("normal %v", n)
	}
	if model.Skeleton.Len() != 2 || model.NodeCount != 4 {
		t.Errorf("bones %d nodes %d", model.Skeleton.Len(), model.NodeCount)
	}

	anims, errs := conv.ConvertAnimations(model, sc)
	if len(anims) != 2 || anims[0] == nil || anims[1] != nil {
		t.Fatalf("animations %v", anims)
	}
	var nf *bbmod.NodeNotFoundError
	if !errors.As(errs[1], &nf) || len(errs) != 1 {
		t.Errorf("errors %v", errs)
	}
	if anims[0].Nodes[0].Index != 0 {
		t.Errorf("hips should keep its bone index: %d", anims[0].Nodes[0].Index)
	}
}

func TestSceneToBBMODDisableBones(t *testing.T) {
	sc, err := NewGLTFToSceneConverter(nil).Convert(skinnedDocument())
	if err != nil {
		t.Fatal(err)
	}
	conf := bbmod.DefaultConfig()
	conf.DisableBones = true
	conf.LeftHanded = false
	conv := NewSceneToBBMODConverter(conf)
	model, err := conv.ConvertModel(sc)
	if err != nil {
		t.Fatal(err)
	}
	if model.VertexFormat.Bones {
		t.Error("bones should be disabled")
	}
	if n := model.Meshes[0].Vertices[0].Normal; n != geom.NewVector3(0, 0, 1) {
		t.Errorf("normal %v", n)
	}
	if anims, _ := conv.ConvertAnimations(model, sc); len(anims) != 0 {
		t.Error("no animations without bones")
	}
}

func TestSceneToBBMODInvalid(t *testing.T) {
	if _, err := NewSceneToBBMODConverter(nil).ConvertModel(&scene.Scene{}); !errors.Is(err, scene.ErrNoRoot) {
		t.Error("expected ErrNoRoot, got", err)
	}
}
