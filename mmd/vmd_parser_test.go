package mmd

import (
	"bytes"
	"encoding/binary"
	"testing"

	"golang.org/x/text/encoding/japanese"
)

func fixedString(t *testing.T, s string, size int) []byte {
	t.Helper()
	enc, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	b := make([]byte, size)
	copy(b, enc)
	return b
}

type boneFrame struct {
	name  string
	frame uint32
	pos   Vector3
	rot   Vector4
}

func buildVMD(t *testing.T, bones []boneFrame, withMorph bool) []byte {
	var buf bytes.Buffer
	buf.Write(fixedString(t, vmdFormat, 30))
	buf.Write(fixedString(t, "テストモデル", 20))
	binary.Write(&buf, binary.LittleEndian, uint32(len(bones)))
	for _, b := range bones {
		buf.Write(fixedString(t, b.name, 15))
		binary.Write(&buf, binary.LittleEndian, b.frame)
		binary.Write(&buf, binary.LittleEndian, b.pos)
		binary.Write(&buf, binary.LittleEndian, b.rot)
		buf.Write(make([]byte, 64))
	}
	if withMorph {
		binary.Write(&buf, binary.LittleEndian, uint32(1))
		buf.Write(fixedString(t, "あ", 15))
		binary.Write(&buf, binary.LittleEndian, uint32(3))
		binary.Write(&buf, binary.LittleEndian, float32(0.5))
	}
	return buf.Bytes()
}

func TestParseVMD(t *testing.T) {
	data := buildVMD(t, []boneFrame{
		{"センター", 10, Vector3{1, 2, 3}, Vector4{0, 0, 0, 1}},
		{"頭", 0, Vector3{}, Vector4{0, 1, 0, 0}},
		{"センター", 0, Vector3{4, 5, 6}, Vector4{0, 0, 0, 1}},
	}, true)

	anim, err := NewVMDParser(bytes.NewReader(data)).Parse()
	if err != nil {
		t.Fatal(err)
	}
	if anim.Name != "テストモデル" {
		t.Errorf("name %q", anim.Name)
	}
	if len(anim.Bone) != 3 || anim.Bone[1].Target != "頭" {
		t.Fatalf("bones %v", anim.Bone)
	}
	if len(anim.Morph) != 1 || anim.Morph[0].Target != "あ" || anim.Morph[0].Value != 0.5 {
		t.Errorf("morph %v", anim.Morph)
	}
	if anim.LastFrame() != 10 {
		t.Errorf("last frame %d", anim.LastFrame())
	}

	channels := anim.GetBoneChannels()
	if len(channels) != 2 || channels[0].Target != "センター" || channels[1].Target != "頭" {
		t.Fatalf("channels %v", channels)
	}
	center := channels[0]
	if len(center.Frames) != 2 || center.Frames[0] != 0 || center.Frames[1] != 10 {
		t.Errorf("frames %v", center.Frames)
	}
	if *center.Positions[0] != (Vector3{4, 5, 6}) {
		t.Errorf("positions should follow frames: %v", *center.Positions[0])
	}
}

func TestParseVMDWithoutMorphs(t *testing.T) {
	data := buildVMD(t, []boneFrame{{"左腕", 0, Vector3{}, Vector4{0, 0, 0, 1}}}, false)
	anim, err := NewVMDParser(bytes.NewReader(data)).Parse()
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Bone) != 1 || anim.Bone[0].Target != "左腕" {
		t.Errorf("bones %v", anim.Bone)
	}
}

func TestParseVMDErrors(t *testing.T) {
	if _, err := NewVMDParser(bytes.NewReader([]byte("Vocaloid Motion Data file"))).Parse(); err == nil {
		t.Error("expected error for short header")
	}

	data := buildVMD(t, nil, false)
	copy(data, "Vocaloid Motion Data 0001")
	if _, err := NewVMDParser(bytes.NewReader(data)).Parse(); err == nil {
		t.Error("expected format error")
	}

	data = buildVMD(t, []boneFrame{{"頭", 0, Vector3{}, Vector4{0, 0, 0, 1}}}, false)
	if _, err := NewVMDParser(bytes.NewReader(data[:len(data)-10])).Parse(); err == nil {
		t.Error("expected error for truncated data")
	}
}
