package converter

import (
	"testing"

	"github.com/binzume/bbmod/geom"
	"github.com/binzume/bbmod/mmd"
	"github.com/binzume/bbmod/scene"
)

func TestVMDToScene(t *testing.T) {
	root := scene.NewNode("root")
	center := scene.NewNode("センター")
	center.Transform = geom.NewTranslateMatrix4(0, 1, 0)
	root.Children = []*scene.Node{center}
	sc := &scene.Scene{Root: root}

	motion := &mmd.Animation{
		Name: "model",
		Bone: []*mmd.AnimationBoneSample{
			{Target: "センター", Frame: 30, Position: mmd.Vector3{X: 10, Y: 0, Z: 10}, Rotation: mmd.Vector4{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9}},
			{Target: "センター", Frame: 0, Rotation: mmd.Vector4{W: 1}},
			{Target: "右足IK", Frame: 60, Rotation: mmd.Vector4{W: 1}},
		},
	}

	anim := NewVMDToSceneConverter(&VMDToSceneOption{Scale: 0.1}).Convert(motion, sc)
	if anim.Name != "model" || anim.TicksPerSecond != 30 || anim.Duration != 60 {
		t.Errorf("animation %+v", anim)
	}
	if len(anim.Channels) != 1 {
		t.Fatalf("bones without nodes should be skipped: %d channels", len(anim.Channels))
	}
	ch := anim.Channels[0]
	if ch.NodeName != "センター" || len(ch.PositionKeys) != 2 || len(ch.RotationKeys) != 2 {
		t.Fatalf("channel %+v", ch)
	}
	if ch.PositionKeys[0].Time != 0 || ch.PositionKeys[0].Value != geom.NewVector3(0, 1, 0) {
		t.Errorf("first key %+v", ch.PositionKeys[0])
	}
	if k := ch.PositionKeys[1]; k.Time != 30 || k.Value != geom.NewVector3(1, 1, -1) {
		t.Errorf("second key %+v", k)
	}
	if r := ch.RotationKeys[1].Value; r != geom.NewVector4(-0.1, -0.2, 0.3, 0.9) {
		t.Errorf("rotation %v", r)
	}
}
