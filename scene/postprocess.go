package scene

import (
	"github.com/binzume/bbmod/geom"
)

type NormalsMode int

const (
	NormalsNone NormalsMode = iota
	NormalsFlat
	NormalsSmooth
)

func (m NormalsMode) String() string {
	switch m {
	case NormalsNone:
		return "none"
	case NormalsFlat:
		return "flat"
	case NormalsSmooth:
		return "smooth"
	}
	return "unknown"
}

// faceNormal returns the area weighted normal of a polygon (Newell's method).
func faceNormal(positions []geom.Vector3, f Face) geom.Vector3 {
	var n geom.Vector3
	if len(f) < 3 {
		return n
	}
	for i := range f {
		a, b := f[i], f[(i+1)%len(f)]
		if a < 0 || a >= len(positions) || b < 0 || b >= len(positions) {
			return geom.Vector3{}
		}
		p, q := positions[a], positions[b]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// GenerateNormals adds normals to every mesh that has none.
// Returns the number of meshes changed.
func (s *Scene) GenerateNormals(mode NormalsMode) int {
	if mode == NormalsNone {
		return 0
	}
	count := 0
	for _, m := range s.Meshes {
		if m.HasNormals() || len(m.Positions) == 0 {
			continue
		}
		if mode == NormalsFlat {
			m.generateFlatNormals()
		} else {
			m.generateSmoothNormals()
		}
		count++
	}
	return count
}

func (m *Mesh) generateSmoothNormals() {
	normals := make([]geom.Vector3, len(m.Positions))
	for _, f := range m.Faces {
		n := faceNormal(m.Positions, f)
		if n.IsZero() {
			continue
		}
		for _, idx := range f {
			normals[idx] = normals[idx].Add(n)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	m.Normals = normals
}

// generateFlatNormals splits vertices so that every face corner owns a vertex.
func (m *Mesh) generateFlatNormals() {
	src := *m
	var remap = map[int][]int{}
	m.Positions = nil
	m.TexCoords = nil
	m.Colors = nil
	m.Tangents = nil
	m.Bitangents = nil
	m.Faces = make([]Face, len(src.Faces))

	for fi, f := range src.Faces {
		n := faceNormal(src.Positions, f).Normalize()
		face := make(Face, len(f))
		for i, idx := range f {
			if idx < 0 || idx >= len(src.Positions) {
				// stays invalid for the mesh flattener to report
				face[i] = -1
				continue
			}
			newIdx := len(m.Positions)
			face[i] = newIdx
			remap[idx] = append(remap[idx], newIdx)
			m.Positions = append(m.Positions, src.Positions[idx])
			m.Normals = append(m.Normals, n)
			// short attribute arrays get the defaults the mesh flattener uses
			if src.HasTexCoords() {
				var uv geom.Vector2
				if idx < len(src.TexCoords) {
					uv = src.TexCoords[idx]
				}
				m.TexCoords = append(m.TexCoords, uv)
			}
			if src.HasColors() {
				c := geom.NewVector4(1, 1, 1, 1)
				if idx < len(src.Colors) {
					c = src.Colors[idx]
				}
				m.Colors = append(m.Colors, c)
			}
			if src.HasTangents() {
				var t, b geom.Vector3
				if idx < len(src.Tangents) {
					t = src.Tangents[idx]
				}
				if idx < len(src.Bitangents) {
					b = src.Bitangents[idx]
				}
				m.Tangents = append(m.Tangents, t)
				m.Bitangents = append(m.Bitangents, b)
			}
		}
		m.Faces[fi] = face
	}

	for _, b := range m.Bones {
		var weights []VertexWeight
		for _, w := range b.Weights {
			for _, idx := range remap[w.VertexID] {
				weights = append(weights, VertexWeight{VertexID: idx, Weight: w.Weight})
			}
		}
		b.Weights = weights
	}
}

// CalcTangents computes tangents and bitangents from texture coordinates for
// meshes that have normals and texcoords but no tangents.
// Returns the number of meshes changed.
func (s *Scene) CalcTangents() int {
	count := 0
	for _, m := range s.Meshes {
		if m.HasTangents() || !m.HasNormals() || !m.HasTexCoords() {
			continue
		}
		m.calcTangents()
		count++
	}
	return count
}

func (m *Mesh) calcTangents() {
	tangents := make([]geom.Vector3, len(m.Positions))
	bitangents := make([]geom.Vector3, len(m.Positions))
	inRange := func(f Face) bool {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Positions) || idx >= len(m.TexCoords) {
				return false
			}
		}
		return true
	}

	for _, f := range m.Faces {
		if len(f) != 3 || !inRange(f) {
			continue
		}
		p0, p1, p2 := m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]]
		uv0, uv1, uv2 := m.TexCoords[f[0]], m.TexCoords[f[1]], m.TexCoords[f[2]]
		e1, e2 := p1.Sub(p0), p2.Sub(p0)
		d1, d2 := uv1.Sub(uv0), uv2.Sub(uv0)
		det := d1.X*d2.Y - d2.X*d1.Y
		if det == 0 {
			continue
		}
		r := 1 / det
		t := e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(r)
		b := e2.Scale(d1.X).Sub(e1.Scale(d2.X)).Scale(r)
		for _, idx := range f {
			tangents[idx] = tangents[idx].Add(t)
			bitangents[idx] = bitangents[idx].Add(b)
		}
	}

	for i := range tangents {
		if i >= len(m.Normals) {
			break
		}
		n := m.Normals[i]
		// Gram-Schmidt
		t := tangents[i].Sub(n.Scale(n.Dot(tangents[i])))
		tangents[i] = t.Normalize()
		bitangents[i] = bitangents[i].Normalize()
	}
	m.Tangents = tangents
	m.Bitangents = bitangents
}

func mirrorZ(v geom.Vector3) geom.Vector3 {
	return geom.Vector3{X: v.X, Y: v.Y, Z: -v.Z}
}

// MakeLeftHanded converts the scene from right-handed to left-handed
// coordinates by mirroring the Z axis. Face winding is reversed to keep
// front faces front facing.
func (s *Scene) MakeLeftHanded() {
	for _, m := range s.Meshes {
		for i := range m.Positions {
			m.Positions[i] = mirrorZ(m.Positions[i])
		}
		for i := range m.Normals {
			m.Normals[i] = mirrorZ(m.Normals[i])
		}
		for i := range m.Tangents {
			m.Tangents[i] = mirrorZ(m.Tangents[i])
		}
		for i := range m.Bitangents {
			m.Bitangents[i] = mirrorZ(m.Bitangents[i])
		}
		for _, f := range m.Faces {
			for i, j := 0, len(f)-1; i < j; i, j = i+1, j-1 {
				f[i], f[j] = f[j], f[i]
			}
		}
		for _, b := range m.Bones {
			b.Offset = b.Offset.MirrorZ()
		}
	}
	if s.Root != nil {
		s.Root.Walk(func(n *Node) {
			n.Transform = n.Transform.MirrorZ()
		})
	}
	for _, a := range s.Animations {
		for _, ch := range a.Channels {
			for i := range ch.PositionKeys {
				ch.PositionKeys[i].Value = mirrorZ(ch.PositionKeys[i].Value)
			}
			for i := range ch.RotationKeys {
				q := &ch.RotationKeys[i].Value
				q.X, q.Y = -q.X, -q.Y
			}
		}
	}
}
