package bbmod

import (
	"bufio"
	"io"
)

const ModelMagic = "bbmod"

type modelWriter struct {
	baseWriter
	vf *VertexFormat
}

func (m *Model) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	mw := &modelWriter{baseWriter: baseWriter{w: bw}, vf: m.VertexFormat}
	mw.writeModel(m)
	if mw.err != nil {
		return mw.err
	}
	return bw.Flush()
}

// Save writes the model to path. The file is replaced only when
// the whole model has been written.
func (m *Model) Save(path string) error {
	return saveFile(path, m.Write)
}

func (p *modelWriter) writeModel(m *Model) {
	p.writeMagic(ModelMagic)
	p.write(m.Version)
	for _, f := range p.vf.flags() {
		p.writeBool(f)
	}

	p.writeWord(len(m.Meshes))
	for _, mesh := range m.Meshes {
		p.writeMesh(mesh)
	}

	p.writeMatrix(m.InverseTransform)
	p.writeWord(m.NodeCount)
	p.writeNode(m.Root)

	p.writeWord(m.Skeleton.Len())
	for _, b := range m.Skeleton.Bones {
		p.writeIndex(b.Index)
		p.writeMatrix(b.Offset)
	}

	p.writeWord(len(m.Materials))
	for _, name := range m.Materials {
		p.writeString(name)
	}
}

func (p *modelWriter) writeMesh(mesh *Mesh) {
	p.writeWord(mesh.MaterialIndex)
	p.writeWord(len(mesh.Vertices))
	for _, v := range mesh.Vertices {
		p.writeVertex(v)
	}
}

func (p *modelWriter) writeVertex(v *Vertex) {
	if p.vf.Vertices {
		p.writeVec3(v.Position)
	}
	if p.vf.Normals {
		p.writeVec3(v.Normal)
	}
	if p.vf.TextureCoords {
		p.write([2]float32{v.TexCoord.X, v.TexCoord.Y})
	}
	if p.vf.Colors {
		p.write(v.Color)
	}
	if p.vf.TangentW {
		p.writeVec3(v.Tangent)
		p.writeFloat(v.BitangentSign)
	}
	if p.vf.Bones {
		p.write(v.Bones)
		p.write(v.Weights)
	}
	if p.vf.IDs {
		p.write(v.ID)
	}
}

func (p *modelWriter) writeNode(n *Node) {
	p.writeString(n.Name)
	p.writeIndex(n.Index)
	p.writeBool(n.IsBone)
	p.writeMatrix(n.Transform)
	p.writeWord(len(n.Meshes))
	for _, mi := range n.Meshes {
		p.writeWord(mi)
	}
	p.writeWord(len(n.Children))
	for _, c := range n.Children {
		p.writeNode(c)
	}
}
