// Package mmd reads MikuMikuDance motion data (.vmd).
package mmd

type Vector3 struct {
	X float32
	Y float32
	Z float32
}

// Vector4 is a quaternion in x, y, z, w order.
type Vector4 struct {
	X float32
	Y float32
	Z float32
	W float32
}
