package converter

import (
	"github.com/binzume/bbmod/geom"
	"github.com/binzume/bbmod/internal/logger"
	"github.com/binzume/bbmod/mmd"
	"github.com/binzume/bbmod/scene"
	"go.uber.org/zap"
)

// VMD frames per second
const vmdFrameRate = 30

type VMDToSceneOption struct {
	// Scale of positions. Default: 0.08
	Scale float32
	// Name of the converted animation. Default: the model name in the file.
	Name string
}

type vmdToScene struct {
	options *VMDToSceneOption
}

func NewVMDToSceneConverter(options *VMDToSceneOption) *vmdToScene {
	if options == nil {
		options = &VMDToSceneOption{}
	}
	if options.Scale == 0 {
		options.Scale = 0.08
	}
	return &vmdToScene{
		options: options,
	}
}

// Convert maps the bone channels of a VMD motion to the nodes of sc.
// Bones without a node of the same name are skipped.
func (c *vmdToScene) Convert(src *mmd.Animation, sc *scene.Scene) *scene.Animation {
	anim := &scene.Animation{
		Name:           c.options.Name,
		Duration:       float64(src.LastFrame()),
		TicksPerSecond: vmdFrameRate,
	}
	if anim.Name == "" {
		anim.Name = src.Name
	}

	scale := c.options.Scale
	for _, bc := range src.GetBoneChannels() {
		var node *scene.Node
		if sc.Root != nil {
			node = sc.Root.FindByName(bc.Target)
		}
		if node == nil {
			logger.Log.Debug("skip bone without node", zap.String("bone", bc.Target))
			continue
		}
		base := node.Transform.Translation()
		ch := &scene.Channel{NodeName: bc.Target}
		for i, f := range bc.Frames {
			t := float64(f)
			p := bc.Positions[i]
			r := bc.Rotations[i]
			// VMD is left-handed
			offset := geom.NewVector3(p.X*scale, p.Y*scale, -p.Z*scale)
			ch.PositionKeys = append(ch.PositionKeys, scene.VectorKey{Time: t, Value: base.Add(offset)})
			ch.RotationKeys = append(ch.RotationKeys, scene.QuatKey{Time: t, Value: geom.NewVector4(-r.X, -r.Y, r.Z, r.W)})
		}
		anim.Channels = append(anim.Channels, ch)
	}
	return anim
}
