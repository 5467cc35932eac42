package bbmod

import (
	"bufio"
	"io"
)

const AnimationMagic = "bbanim"

func (a *Animation) Write(w io.Writer) error {
	if a.Model == nil {
		return ErrNoModel
	}
	bw := bufio.NewWriter(w)
	p := &baseWriter{w: bw}

	p.writeMagic(AnimationMagic)
	p.write(a.Version)
	p.writeDouble(a.Duration)
	p.writeDouble(a.TicksPerSecond)
	p.writeWord(a.Model.NodeCount)

	p.writeWord(len(a.Nodes))
	for _, n := range a.Nodes {
		p.writeIndex(n.Index)
		writeKeys(p, n.PositionKeys)
		writeKeys(p, n.RotationKeys)
	}
	if p.err != nil {
		return p.err
	}
	return bw.Flush()
}

// Save writes the animation to path. The file is replaced only when
// the whole animation has been written.
func (a *Animation) Save(path string) error {
	if a.Model == nil {
		return ErrNoModel
	}
	return saveFile(path, a.Write)
}

func writeKeys[K AnimationKey](p *baseWriter, keys []K) {
	p.writeWord(len(keys))
	for _, k := range keys {
		p.writeDouble(k.KeyTime())
		switch k := any(k).(type) {
		case PositionKey:
			p.writeVec3(k.Position)
		case RotationKey:
			p.writeQuat(k.Rotation)
		}
	}
}
