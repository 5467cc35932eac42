package mmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
)

const vmdFormat = "Vocaloid Motion Data 0002"

// maxFrames limits the sample counts read from a file.
const maxFrames = 1 << 24

// VMDParser is parser for .vmd animation.
type VMDParser struct {
	baseParser
}

type Animation struct {
	// model name
	Name  string
	Bone  []*AnimationBoneSample
	Morph []*AnimationMorphSample
}

type AnimationBoneSample struct {
	Target   string
	Frame    int
	Position Vector3
	Rotation Vector4
	// bezier interpolation parameters
	Params [64]byte
}

type AnimationMorphSample struct {
	Target string
	Frame  int
	Value  float32
}

// BoneChannel holds the samples of one bone ordered by frame.
type BoneChannel struct {
	Target    string
	Frames    []uint32
	Positions []*Vector3
	Rotations []*Vector4
}

// GetBoneChannels groups bone samples by target. Channels are ordered by the
// first appearance of the bone in the file.
func (a *Animation) GetBoneChannels() []*BoneChannel {
	samples := append([]*AnimationBoneSample(nil), a.Bone...)
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Frame < samples[j].Frame })

	var channels []*BoneChannel
	byName := map[string]*BoneChannel{}
	for _, s := range a.Bone {
		if _, ok := byName[s.Target]; !ok {
			ch := &BoneChannel{Target: s.Target}
			byName[s.Target] = ch
			channels = append(channels, ch)
		}
	}
	for _, s := range samples {
		ch := byName[s.Target]
		ch.Frames = append(ch.Frames, uint32(s.Frame))
		ch.Positions = append(ch.Positions, &s.Position)
		ch.Rotations = append(ch.Rotations, &s.Rotation)
	}
	return channels
}

// LastFrame returns the largest bone frame number.
func (a *Animation) LastFrame() int {
	last := 0
	for _, s := range a.Bone {
		if s.Frame > last {
			last = s.Frame
		}
	}
	return last
}

// NewVMDParser returns new parser.
func NewVMDParser(r io.Reader) *VMDParser {
	return &VMDParser{baseParser: baseParser{r: r}}
}

// Parse animation data.
func (p *VMDParser) Parse() (*Animation, error) {
	var anim Animation

	formatName := p.readString(30)
	if p.err != nil {
		return nil, p.err
	}
	if formatName != vmdFormat {
		return nil, fmt.Errorf("format error: %q != %q", formatName, vmdFormat)
	}
	anim.Name = p.readString(20)

	frames := p.readInt()
	if frames > maxFrames {
		return nil, fmt.Errorf("too many bone frames: %d", frames)
	}
	for i := 0; i < frames && p.err == nil; i++ {
		sample := &AnimationBoneSample{}
		sample.Target = p.readString(15)
		sample.Frame = p.readInt()
		p.read(&sample.Position)
		p.read(&sample.Rotation)
		p.read(&sample.Params)
		anim.Bone = append(anim.Bone, sample)
	}
	if p.err != nil {
		return nil, p.err
	}

	frames = p.readInt()
	if p.err == io.EOF {
		// files without a morph section
		return &anim, nil
	}
	if frames > maxFrames {
		return nil, fmt.Errorf("too many morph frames: %d", frames)
	}
	for i := 0; i < frames && p.err == nil; i++ {
		sample := &AnimationMorphSample{}
		sample.Target = p.readString(15)
		sample.Frame = p.readInt()
		p.read(&sample.Value)
		anim.Morph = append(anim.Morph, sample)
	}

	if p.err != nil {
		return nil, p.err
	}
	return &anim, nil
}

// ParseVMDFile parses the .vmd file at path.
func ParseVMDFile(path string) (*Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewVMDParser(bufio.NewReader(f)).Parse()
}
