package geom

import "math"

type Vector4 struct {
	X Element
	Y Element
	Z Element
	W Element
}

type Quaternion = Vector4

func NewVector4(x, y, z, w Element) Vector4 {
	return Vector4{X: x, Y: y, Z: z, W: w}
}

func NewQuaternionFromArray(arr [4]Element) Quaternion {
	return Quaternion{X: arr[0], Y: arr[1], Z: arr[2], W: arr[3]}
}

func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

func (v Vector4) Sub(v2 Vector4) Vector4 {
	return Vector4{X: v.X - v2.X, Y: v.Y - v2.Y, Z: v.Z - v2.Z, W: v.W - v2.W}
}

func (v Vector4) Len() Element {
	return Element(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)))
}

func (v Vector4) Normalize() Vector4 {
	l := v.Len()
	if l == 0 {
		return IdentityQuaternion()
	}
	return Vector4{X: v.X / l, Y: v.Y / l, Z: v.Z / l, W: v.W / l}
}

// Mul returns the Hamilton product q*b.
func (q Quaternion) Mul(b Quaternion) Quaternion {
	return Quaternion{
		W: q.W*b.W - q.X*b.X - q.Y*b.Y - q.Z*b.Z,
		X: q.W*b.X + q.X*b.W + q.Y*b.Z - q.Z*b.Y,
		Y: q.W*b.Y - q.X*b.Z + q.Y*b.W + q.Z*b.X,
		Z: q.W*b.Z + q.X*b.Y - q.Y*b.X + q.Z*b.W,
	}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Rotate applies the rotation to v.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	r := q.Mul(Quaternion{X: v.X, Y: v.Y, Z: v.Z}).Mul(q.Conjugate())
	return Vector3{X: r.X, Y: r.Y, Z: r.Z}
}
