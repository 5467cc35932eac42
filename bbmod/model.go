// Package bbmod converts scenes into the BBMOD model and animation formats.
package bbmod

import (
	"fmt"

	"github.com/binzume/bbmod/geom"
	"github.com/binzume/bbmod/internal/logger"
	"github.com/binzume/bbmod/scene"
	"go.uber.org/zap"
)

// Version of the binary formats written by this package.
const Version uint8 = 1

type Model struct {
	Version      uint8
	VertexFormat *VertexFormat
	Meshes       []*Mesh
	// inverse of the root node transform
	InverseTransform geom.Matrix4
	NodeCount        int
	Root             *Node
	Skeleton         *Skeleton
	Materials        []string
}

// NewModel builds a model from sc. The scene is not modified.
func NewModel(sc *scene.Scene, conf *Config) (*Model, error) {
	if len(sc.Meshes) == 0 {
		return nil, scene.ErrNoMeshes
	}
	if sc.Root == nil {
		return nil, scene.ErrNoRoot
	}

	model := &Model{
		Version:      Version,
		VertexFormat: ResolveVertexFormat(sc.Meshes[0], conf),
		Skeleton:     &Skeleton{},
		Materials:    append([]string(nil), sc.Materials...),
	}

	if !conf.DisableBones {
		model.Skeleton = ExtractSkeleton(sc.Meshes)
		model.VertexFormat.Bones = model.Skeleton.Len() > 0
	}

	for i, m := range sc.Meshes {
		if i > 0 {
			if diff := model.VertexFormat.Mismatches(m, conf); len(diff) > 0 {
				err := &VertexFormatError{Mesh: m.Name, MeshIndex: i, Diff: diff}
				if conf.StrictVertexFormat {
					return nil, err
				}
				logger.Log.Warn("vertex format mismatch, using defaults", zap.Error(err))
			}
		}
		mesh, err := FlattenMesh(m, i, model.VertexFormat, model.Skeleton, conf)
		if err != nil {
			return nil, err
		}
		if mesh.DroppedInfluences > 0 {
			logger.Log.Warn("bone influences dropped",
				zap.String("mesh", m.Name), zap.Int("count", mesh.DroppedInfluences), zap.Int("max", MaxInfluences))
		}
		model.Meshes = append(model.Meshes, mesh)
	}

	model.Root, model.NodeCount = BuildNodeTree(sc.Root, model.Skeleton, model.Skeleton.Len())

	inv, ok := model.Root.Transform.Inverse()
	if !ok {
		return nil, fmt.Errorf("root node %q: transform is not invertible", model.Root.Name)
	}
	model.InverseTransform = inv
	return model, nil
}

func (m *Model) FindNodeByName(name string) *Node {
	return m.Root.FindByName(name)
}

func (m *Model) VertexCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += len(mesh.Vertices)
	}
	return n
}
