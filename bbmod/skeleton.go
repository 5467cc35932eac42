package bbmod

import (
	"github.com/binzume/bbmod/geom"
	"github.com/binzume/bbmod/scene"
)

type Bone struct {
	Name  string
	Index int
	// bind pose offset
	Offset geom.Matrix4
}

// Skeleton holds the bones of a model in index order.
type Skeleton struct {
	Bones []*Bone
}

// ExtractSkeleton collects the bones of all meshes. Bones are unique by name
// and indexed in the order they are first found.
func ExtractSkeleton(meshes []*scene.Mesh) *Skeleton {
	skel := &Skeleton{}
	for _, m := range meshes {
		for _, b := range m.Bones {
			if skel.FindByName(b.Name) != nil {
				continue
			}
			skel.Bones = append(skel.Bones, &Bone{Name: b.Name, Index: len(skel.Bones), Offset: b.Offset})
		}
	}
	return skel
}

func (s *Skeleton) FindByName(name string) *Bone {
	for _, b := range s.Bones {
		if b.Name == name {
			return b
		}
	}
	return nil
}

func (s *Skeleton) FindByIndex(index int) *Bone {
	for _, b := range s.Bones {
		if b.Index == index {
			return b
		}
	}
	return nil
}

func (s *Skeleton) Len() int {
	return len(s.Bones)
}
