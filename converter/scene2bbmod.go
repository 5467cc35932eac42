package converter

import (
	"github.com/binzume/bbmod/bbmod"
	"github.com/binzume/bbmod/internal/logger"
	"github.com/binzume/bbmod/scene"
	"go.uber.org/zap"
)

type sceneToBBMOD struct {
	conf *bbmod.Config
}

func NewSceneToBBMODConverter(conf *bbmod.Config) *sceneToBBMOD {
	if conf == nil {
		conf = bbmod.DefaultConfig()
	}
	return &sceneToBBMOD{conf: conf}
}

// ConvertModel post-processes sc in place and builds the model.
// Animations of sc are converted to the same coordinate system, so they
// must be added before calling this.
func (c *sceneToBBMOD) ConvertModel(sc *scene.Scene) (*bbmod.Model, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	conf := c.conf
	if !conf.DisableNormals {
		if n := sc.GenerateNormals(conf.GenNormals); n > 0 {
			logger.Log.Info("generated normals", zap.Int("meshes", n), zap.Stringer("mode", conf.GenNormals))
		}
		if !conf.DisableTangentW {
			if n := sc.CalcTangents(); n > 0 {
				logger.Log.Info("generated tangents", zap.Int("meshes", n))
			}
		}
	}
	if conf.LeftHanded {
		sc.MakeLeftHanded()
	}

	model, err := bbmod.NewModel(sc, conf)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("converted model",
		zap.Int("meshes", len(model.Meshes)),
		zap.Int("vertices", model.VertexCount()),
		zap.Int("bones", model.Skeleton.Len()),
		zap.Int("nodes", model.NodeCount),
		zap.Int("materials", len(model.Materials)))
	return model, nil
}

// ConvertAnimation maps a clip of the scene passed to ConvertModel onto model.
func (c *sceneToBBMOD) ConvertAnimation(model *bbmod.Model, clip *scene.Animation) (*bbmod.Animation, error) {
	anim, err := bbmod.NewAnimation(clip, model)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("converted animation",
		zap.String("name", anim.Name),
		zap.Int("nodes", len(anim.Nodes)),
		zap.Float64("duration", anim.Duration),
		zap.Float64("tps", anim.TicksPerSecond))
	return anim, nil
}

// ConvertAnimations converts every clip of sc. The result is indexed like
// sc.Animations and holds nil for the clips listed in the error map.
func (c *sceneToBBMOD) ConvertAnimations(model *bbmod.Model, sc *scene.Scene) ([]*bbmod.Animation, map[int]error) {
	if c.conf.DisableBones {
		return nil, nil
	}
	var anims []*bbmod.Animation
	errs := map[int]error{}
	for i, clip := range sc.Animations {
		anim, err := c.ConvertAnimation(model, clip)
		if err != nil {
			logger.Log.Error("animation failed", zap.Int("index", i), zap.String("name", clip.Name), zap.Error(err))
			errs[i] = err
			anims = append(anims, nil)
			continue
		}
		anims = append(anims, anim)
	}
	return anims, errs
}
