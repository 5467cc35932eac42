package geom

import (
	"testing"
)

func TestMatrix4Inverse(t *testing.T) {
	const eps = 0.00001

	s := Element(0.70710678)
	mat := NewTRSMatrix4(NewVector3(1, 2, 3), NewVector4(0, s, 0, s), NewVector3(1.5, 1.6, 1.7))
	inv, ok := mat.Inverse()
	if !ok {
		t.Fatal("matrix should be invertible")
	}
	id := mat.Mul(inv)
	ident := IdentityMatrix4()
	for i := range id {
		if Abs(id[i]-ident[i]) > eps {
			t.Fatalf("m * m^-1 != I: %v", id)
		}
	}

	if _, ok := (Matrix4{}).Inverse(); ok {
		t.Error("zero matrix should not be invertible")
	}
}

func TestMatrix4Transform(t *testing.T) {
	mat := NewTranslateMatrix4(10, 20, 30).Mul(NewScaleMatrix4(2, 2, 2))
	v := NewVector3(1, 2, 3)

	if p := mat.Transform(v, 1); p != NewVector3(12, 24, 36) {
		t.Error("point transform:", p)
	}
	if d := mat.Transform(v, 0); d != NewVector3(2, 4, 6) {
		t.Error("direction transform should ignore translation:", d)
	}
	if mat.Translation() != NewVector3(10, 20, 30) {
		t.Error("Translation()", mat.Translation())
	}
}

func TestMatrix4MirrorZ(t *testing.T) {
	mat := NewTranslateMatrix4(1, 2, 3)
	m := mat.MirrorZ()
	if m.Translation() != NewVector3(1, 2, -3) {
		t.Error("MirrorZ translation:", m.Translation())
	}
	if m.MirrorZ() != mat {
		t.Error("MirrorZ twice should be identity operation")
	}
}
