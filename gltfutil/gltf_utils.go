package gltfutil

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/binzume/bbmod/geom"
	"github.com/qmuntal/gltf"
)

func Load(path string) (*gltf.Document, error) {
	return gltf.Open(path)
}

// NodeMatrix returns the local transform of the node.
func NodeMatrix(n *gltf.Node) geom.Matrix4 {
	if n.Matrix != gltf.DefaultMatrix && n.Matrix != [16]float32{} {
		return geom.Matrix4(n.MatrixOrDefault())
	}
	return geom.NewTRSMatrix4(
		geom.NewVector3FromArray(n.Translation),
		geom.NewQuaternionFromArray(n.RotationOrDefault()),
		geom.NewVector3FromArray(n.ScaleOrDefault()))
}

// NodeName returns the node name or a generated one for unnamed nodes.
func NodeName(doc *gltf.Document, index uint32) string {
	if int(index) < len(doc.Nodes) && doc.Nodes[index].Name != "" {
		return doc.Nodes[index].Name
	}
	return fmt.Sprintf("node_%d", index)
}

// Accessor returns the accessor at index or an error when it does not exist.
func Accessor(doc *gltf.Document, index uint32) (*gltf.Accessor, error) {
	if int(index) >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d not found", index)
	}
	return doc.Accessors[index], nil
}

func components(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorScalar:
		return 1
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4, gltf.AccessorMat2:
		return 4
	case gltf.AccessorMat3:
		return 9
	case gltf.AccessorMat4:
		return 16
	}
	return 0
}

// ReadFloats reads a float accessor as a flat slice of components.
func ReadFloats(doc *gltf.Document, acr *gltf.Accessor) ([]float32, error) {
	if acr.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type %v", acr.ComponentType)
	}
	if acr.BufferView == nil {
		return nil, fmt.Errorf("accessor without buffer view")
	}
	if int(*acr.BufferView) >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d not found", *acr.BufferView)
	}
	n := components(acr.Type)
	bufferView := doc.BufferViews[*acr.BufferView]
	if int(bufferView.Buffer) >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d not found", bufferView.Buffer)
	}
	data := doc.Buffers[bufferView.Buffer].Data
	stride := int(bufferView.ByteStride)
	if stride == 0 {
		stride = n * 4
	}

	offset := int(bufferView.ByteOffset + acr.ByteOffset)
	count := int(acr.Count)
	if count > 0 && offset+(count-1)*stride+n*4 > len(data) {
		return nil, fmt.Errorf("accessor out of buffer range")
	}
	values := make([]float32, 0, count*n)
	for i := 0; i < count; i++ {
		p := offset + i*stride
		for c := 0; c < n; c++ {
			values = append(values, math.Float32frombits(binary.LittleEndian.Uint32(data[p+c*4:])))
		}
	}
	return values, nil
}

// InverseBindMatrices returns a matrix for each joint of the skin.
// Skins without matrices use identity.
func InverseBindMatrices(doc *gltf.Document, skin *gltf.Skin) ([]geom.Matrix4, error) {
	mats := make([]geom.Matrix4, len(skin.Joints))
	for i := range mats {
		mats[i] = geom.IdentityMatrix4()
	}
	if skin.InverseBindMatrices == nil {
		return mats, nil
	}
	acr, err := Accessor(doc, *skin.InverseBindMatrices)
	if err != nil {
		return nil, fmt.Errorf("skin %q: %w", skin.Name, err)
	}
	if acr.Type != gltf.AccessorMat4 {
		return nil, fmt.Errorf("skin %q: inverse bind matrices are %v", skin.Name, acr.Type)
	}
	values, err := ReadFloats(doc, acr)
	if err != nil {
		return nil, fmt.Errorf("skin %q: %w", skin.Name, err)
	}
	for i := range mats {
		if (i+1)*16 > len(values) {
			break
		}
		mats[i] = geom.NewMatrix4FromSlice(values[i*16 : (i+1)*16])
	}
	return mats, nil
}
