package geom

import (
	"testing"
)

func TestVector3(t *testing.T) {
	zero := NewVector3(0, 0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("len != 0")
	}
	if zero.Normalize() != zero {
		t.Error("Normalize of zero vector should stay zero", zero.Normalize())
	}
	if NewVector3(1, 0, 0).Add(NewVector3(0, 1, 0)) != NewVector3(1, 1, 0) {
		t.Error("Vector3.Add()")
	}
	if NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0)) != NewVector3(0, 0, 1) {
		t.Error("Vector3.Cross()")
	}
	if NewVector3(3, 0, 4).Normalize().Len() != 1 {
		t.Error("Vector3.Normalize()")
	}
}

func TestQuaternion(t *testing.T) {
	const eps = 0.000001

	// 90 degrees around Z
	s := Element(0.70710678)
	q := NewVector4(0, 0, s, s)
	v := q.Rotate(NewVector3(1, 0, 0))
	if v.Sub(NewVector3(0, 1, 0)).Len() > eps {
		t.Error("Quaternion.Rotate()", v)
	}

	id := q.Mul(q.Conjugate())
	if id.Sub(IdentityQuaternion()).Len() > eps {
		t.Error("q * q^-1 != identity", id)
	}

	if NewVector4(0, 0, 0, 0).Normalize() != IdentityQuaternion() {
		t.Error("Normalize of zero quaternion should be identity")
	}
}
