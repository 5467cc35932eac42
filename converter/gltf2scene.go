package converter

import (
	"fmt"

	"github.com/binzume/bbmod/geom"
	"github.com/binzume/bbmod/gltfutil"
	"github.com/binzume/bbmod/internal/logger"
	"github.com/binzume/bbmod/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

const defaultMaterialName = "DefaultMaterial"

type GLTFToSceneOption struct {
	// Scene to convert. The document's default scene when nil.
	Scene *uint32
}

type gltfToScene struct {
	options *GLTFToSceneOption

	src           *gltf.Document
	dst           *scene.Scene
	meshes        map[meshKey][]int
	defaultMatIdx int
	inverseBinds  map[uint32][]geom.Matrix4
	// nodes on the current conversion path
	visiting map[uint32]bool
}

type meshKey struct {
	mesh uint32
	skin int
}

func NewGLTFToSceneConverter(options *GLTFToSceneOption) *gltfToScene {
	if options == nil {
		options = &GLTFToSceneOption{}
	}
	return &gltfToScene{
		options: options,
	}
}

func (c *gltfToScene) Convert(src *gltf.Document) (*scene.Scene, error) {
	c.src = src
	c.dst = &scene.Scene{}
	c.meshes = map[meshKey][]int{}
	c.inverseBinds = map[uint32][]geom.Matrix4{}
	c.visiting = map[uint32]bool{}
	c.defaultMatIdx = -1

	for i, m := range src.Materials {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("material_%d", i)
		}
		c.dst.Materials = append(c.dst.Materials, name)
	}

	roots, err := c.rootNodes()
	if err != nil {
		return nil, err
	}
	var children []*scene.Node
	for _, n := range roots {
		node, err := c.convertNode(n)
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
	if len(children) == 1 {
		c.dst.Root = children[0]
	} else {
		c.dst.Root = scene.NewNode("Root")
		c.dst.Root.Children = children
	}

	for i, a := range src.Animations {
		anim, err := c.convertAnimation(i, a)
		if err != nil {
			return nil, err
		}
		c.dst.Animations = append(c.dst.Animations, anim)
	}
	return c.dst, nil
}

func (c *gltfToScene) rootNodes() ([]uint32, error) {
	if len(c.src.Scenes) == 0 {
		// no scene: every node without a parent is a root
		isChild := map[uint32]bool{}
		for _, n := range c.src.Nodes {
			for _, ch := range n.Children {
				isChild[ch] = true
			}
		}
		var roots []uint32
		for i := range c.src.Nodes {
			if !isChild[uint32(i)] {
				roots = append(roots, uint32(i))
			}
		}
		return roots, nil
	}
	index := uint32(0)
	if c.options.Scene != nil {
		index = *c.options.Scene
	} else if c.src.Scene != nil {
		index = *c.src.Scene
	}
	if int(index) >= len(c.src.Scenes) {
		return nil, fmt.Errorf("scene %d not found", index)
	}
	return c.src.Scenes[index].Nodes, nil
}

func (c *gltfToScene) convertNode(index uint32) (*scene.Node, error) {
	if int(index) >= len(c.src.Nodes) {
		return nil, fmt.Errorf("node %d not found", index)
	}
	if c.visiting[index] {
		return nil, fmt.Errorf("node %d: cyclic children", index)
	}
	c.visiting[index] = true
	defer delete(c.visiting, index)
	n := c.src.Nodes[index]
	node := scene.NewNode(gltfutil.NodeName(c.src, index))
	node.Transform = gltfutil.NodeMatrix(n)

	if n.Mesh != nil {
		meshes, err := c.meshIndices(*n.Mesh, n.Skin)
		if err != nil {
			return nil, err
		}
		node.Meshes = meshes
	}
	for _, child := range n.Children {
		ch, err := c.convertNode(child)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, ch)
	}
	return node, nil
}

// meshIndices converts each primitive of a mesh once per skin.
func (c *gltfToScene) meshIndices(mesh uint32, skin *uint32) ([]int, error) {
	key := meshKey{mesh: mesh, skin: -1}
	if skin != nil {
		key.skin = int(*skin)
	}
	if indices, ok := c.meshes[key]; ok {
		return indices, nil
	}
	if int(mesh) >= len(c.src.Meshes) {
		return nil, fmt.Errorf("mesh %d not found", mesh)
	}
	m := c.src.Meshes[mesh]
	var indices []int
	for pi, p := range m.Primitives {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("mesh_%d", mesh)
		}
		if len(m.Primitives) > 1 {
			name = fmt.Sprintf("%s_%d", name, pi)
		}
		sm, err := c.convertPrimitive(name, p, skin)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", name, err)
		}
		indices = append(indices, len(c.dst.Meshes))
		c.dst.Meshes = append(c.dst.Meshes, sm)
	}
	c.meshes[key] = indices
	return indices, nil
}

func (c *gltfToScene) materialIndex(p *gltf.Primitive) int {
	if p.Material != nil && int(*p.Material) < len(c.dst.Materials) {
		return int(*p.Material)
	}
	if c.defaultMatIdx < 0 {
		c.defaultMatIdx = len(c.dst.Materials)
		c.dst.Materials = append(c.dst.Materials, defaultMaterialName)
	}
	return c.defaultMatIdx
}

func (c *gltfToScene) accessor(p *gltf.Primitive, attr string) *gltf.Accessor {
	if a, ok := p.Attributes[attr]; ok && int(a) < len(c.src.Accessors) {
		return c.src.Accessors[a]
	}
	return nil
}

func (c *gltfToScene) convertPrimitive(name string, p *gltf.Primitive, skin *uint32) (*scene.Mesh, error) {
	src := c.src
	mesh := &scene.Mesh{Name: name, MaterialIndex: c.materialIndex(p)}

	acr := c.accessor(p, "POSITION")
	if acr == nil {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	pos, err := modeler.ReadPosition(src, acr, [][3]float32{})
	if err != nil {
		return nil, err
	}
	for _, v := range pos {
		mesh.Positions = append(mesh.Positions, geom.NewVector3FromArray(v))
	}

	if acr := c.accessor(p, "NORMAL"); acr != nil {
		normals, err := modeler.ReadNormal(src, acr, [][3]float32{})
		if err != nil {
			return nil, err
		}
		for _, v := range normals {
			mesh.Normals = append(mesh.Normals, geom.NewVector3FromArray(v))
		}
	}

	if acr := c.accessor(p, "TEXCOORD_0"); acr != nil {
		uv, err := modeler.ReadTextureCoord(src, acr, [][2]float32{})
		if err != nil {
			return nil, err
		}
		for _, v := range uv {
			mesh.TexCoords = append(mesh.TexCoords, geom.NewVector2(v[0], v[1]))
		}
	}

	if acr := c.accessor(p, "COLOR_0"); acr != nil {
		colors, err := modeler.ReadColor(src, acr, [][4]uint8{})
		if err != nil {
			return nil, err
		}
		for _, v := range colors {
			mesh.Colors = append(mesh.Colors, geom.NewVector4(float32(v[0])/255, float32(v[1])/255, float32(v[2])/255, float32(v[3])/255))
		}
	}

	if acr := c.accessor(p, "TANGENT"); acr != nil && mesh.HasNormals() {
		tangents, err := modeler.ReadTangent(src, acr, [][4]float32{})
		if err != nil {
			return nil, err
		}
		for i, v := range tangents {
			t := geom.NewVector3(v[0], v[1], v[2])
			var b geom.Vector3
			if i < len(mesh.Normals) {
				b = mesh.Normals[i].Cross(t).Scale(v[3])
			}
			mesh.Tangents = append(mesh.Tangents, t)
			mesh.Bitangents = append(mesh.Bitangents, b)
		}
	}

	if skin != nil {
		if err := c.convertWeights(mesh, p, *skin); err != nil {
			return nil, err
		}
	}

	var indices []uint32
	if p.Indices != nil {
		acr, err := gltfutil.Accessor(src, *p.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(src, acr, []uint32{})
		if err != nil {
			return nil, err
		}
	} else {
		indices = make([]uint32, len(pos))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	mesh.Faces = buildFaces(p.Mode, indices)
	return mesh, nil
}

func buildFaces(mode gltf.PrimitiveMode, indices []uint32) []scene.Face {
	var faces []scene.Face
	face := func(idx ...uint32) {
		f := make(scene.Face, len(idx))
		for i, v := range idx {
			f[i] = int(v)
		}
		faces = append(faces, f)
	}
	switch mode {
	case gltf.PrimitivePoints:
		for _, i := range indices {
			face(i)
		}
	case gltf.PrimitiveLines:
		for i := 0; i+1 < len(indices); i += 2 {
			face(indices[i], indices[i+1])
		}
	case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		for i := 0; i+1 < len(indices); i++ {
			face(indices[i], indices[i+1])
		}
		if mode == gltf.PrimitiveLineLoop && len(indices) > 2 {
			face(indices[len(indices)-1], indices[0])
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			if i%2 == 0 {
				face(indices[i], indices[i+1], indices[i+2])
			} else {
				face(indices[i+1], indices[i], indices[i+2])
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			face(indices[0], indices[i], indices[i+1])
		}
	default:
		for i := 0; i+2 < len(indices); i += 3 {
			face(indices[i], indices[i+1], indices[i+2])
		}
	}
	return faces
}

// convertWeights adds a bone for every joint of the skin that influences the mesh.
func (c *gltfToScene) convertWeights(mesh *scene.Mesh, p *gltf.Primitive, skinIndex uint32) error {
	src := c.src
	jacr, wacr := c.accessor(p, "JOINTS_0"), c.accessor(p, "WEIGHTS_0")
	if jacr == nil || wacr == nil || int(skinIndex) >= len(src.Skins) {
		return nil
	}
	skin := src.Skins[skinIndex]
	joints, err := modeler.ReadJoints(src, jacr, [][4]uint16{})
	if err != nil {
		return err
	}
	weights, err := modeler.ReadWeights(src, wacr, [][4]float32{})
	if err != nil {
		return err
	}
	ibm, ok := c.inverseBinds[skinIndex]
	if !ok {
		ibm, err = gltfutil.InverseBindMatrices(src, skin)
		if err != nil {
			return err
		}
		c.inverseBinds[skinIndex] = ibm
	}

	bones := make([]*scene.Bone, len(skin.Joints))
	for v := range joints {
		if v >= len(weights) {
			break
		}
		for k, j := range joints[v] {
			w := weights[v][k]
			if w == 0 || int(j) >= len(skin.Joints) {
				continue
			}
			if bones[j] == nil {
				bones[j] = &scene.Bone{Name: gltfutil.NodeName(src, skin.Joints[j]), Offset: ibm[j]}
			}
			bones[j].Weights = append(bones[j].Weights, scene.VertexWeight{VertexID: v, Weight: w})
		}
	}
	for _, b := range bones {
		if b != nil {
			mesh.Bones = append(mesh.Bones, b)
		}
	}
	return nil
}

// convertAnimation converts translation and rotation channels. Times are in milliseconds.
func (c *gltfToScene) convertAnimation(index int, a *gltf.Animation) (*scene.Animation, error) {
	src := c.src
	anim := &scene.Animation{Name: a.Name, TicksPerSecond: 1000}
	if anim.Name == "" {
		anim.Name = fmt.Sprintf("animation_%d", index)
	}
	channels := map[uint32]*scene.Channel{}

	for _, ch := range a.Channels {
		if ch.Sampler == nil || ch.Target.Node == nil || int(*ch.Sampler) >= len(a.Samplers) {
			continue
		}
		sampler := a.Samplers[*ch.Sampler]
		if sampler.Input == nil || sampler.Output == nil {
			continue
		}
		if ch.Target.Path != gltf.TRSTranslation && ch.Target.Path != gltf.TRSRotation {
			logger.Log.Debug("skip animation channel", zap.String("animation", anim.Name), zap.Any("path", ch.Target.Path))
			continue
		}
		input, err := gltfutil.Accessor(src, *sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("animation %q: input: %w", anim.Name, err)
		}
		output, err := gltfutil.Accessor(src, *sampler.Output)
		if err != nil {
			return nil, fmt.Errorf("animation %q: output: %w", anim.Name, err)
		}
		times, err := gltfutil.ReadFloats(src, input)
		if err != nil {
			return nil, fmt.Errorf("animation %q: input: %w", anim.Name, err)
		}
		values, err := gltfutil.ReadFloats(src, output)
		if err != nil {
			return nil, fmt.Errorf("animation %q: output: %w", anim.Name, err)
		}

		node := *ch.Target.Node
		target, ok := channels[node]
		if !ok {
			target = &scene.Channel{NodeName: gltfutil.NodeName(src, node)}
			channels[node] = target
			anim.Channels = append(anim.Channels, target)
		}

		n := 3
		if ch.Target.Path == gltf.TRSRotation {
			n = 4
		}
		// cubic spline samplers store in-tangent, value, out-tangent
		elements, offset := 1, 0
		if sampler.Interpolation == gltf.InterpolationCubicSpline {
			elements, offset = 3, 1
		}
		for i, t := range times {
			p := (i*elements + offset) * n
			if p+n > len(values) {
				break
			}
			time := float64(t) * 1000
			if time > anim.Duration {
				anim.Duration = time
			}
			if n == 3 {
				target.PositionKeys = append(target.PositionKeys, scene.VectorKey{Time: time, Value: geom.NewVector3(values[p], values[p+1], values[p+2])})
			} else {
				target.RotationKeys = append(target.RotationKeys, scene.QuatKey{Time: time, Value: geom.NewVector4(values[p], values[p+1], values[p+2], values[p+3])})
			}
		}
	}
	return anim, nil
}
