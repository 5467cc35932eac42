package bbmod

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/binzume/bbmod/geom"
)

var (
	ErrInvalidName = errors.New("name contains NUL")
	ErrNoModel     = errors.New("animation has no target model")
)

// byteOrder of all multi-byte values. Files are read back on the same platform.
var byteOrder = binary.NativeEndian

// baseWriter writes binary values and keeps the first error.
// Once an error has occurred the following writes do nothing.
type baseWriter struct {
	w   io.Writer
	err error
}

func (p *baseWriter) write(v interface{}) {
	if p.err != nil {
		return
	}
	p.err = binary.Write(p.w, byteOrder, v)
}

// writeWord writes v with the width of the platform's int.
func (p *baseWriter) writeWord(v int) {
	if strconv.IntSize == 32 {
		p.write(uint32(v))
	} else {
		p.write(uint64(v))
	}
}

func (p *baseWriter) writeBool(v bool) {
	p.write(v)
}

func (p *baseWriter) writeFloat(v float32) {
	p.write(v)
}

func (p *baseWriter) writeDouble(v float64) {
	p.write(v)
}

// writeIndex writes an index as a float.
func (p *baseWriter) writeIndex(v int) {
	p.write(float32(v))
}

func (p *baseWriter) writeVec3(v geom.Vector3) {
	p.write([3]float32{v.X, v.Y, v.Z})
}

func (p *baseWriter) writeQuat(q geom.Quaternion) {
	p.write([4]float32{q.X, q.Y, q.Z, q.W})
}

func (p *baseWriter) writeMatrix(m geom.Matrix4) {
	p.write([16]float32(m))
}

// writeString writes s followed by NUL.
func (p *baseWriter) writeString(s string) {
	if p.err != nil {
		return
	}
	if strings.IndexByte(s, 0) >= 0 {
		p.err = ErrInvalidName
		return
	}
	_, p.err = io.WriteString(p.w, s+"\x00")
}

func (p *baseWriter) writeMagic(magic string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, magic+"\x00")
}

// saveFile writes to a temporary file next to path and renames it into place
// when write succeeds. The file gets mode 0644, or the mode of the file it
// replaces.
func saveFile(path string, write func(w io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	mode := os.FileMode(0644)
	if fi, serr := os.Stat(path); serr == nil && fi.Mode().IsRegular() {
		mode = fi.Mode().Perm()
	}
	err = write(f)
	if err == nil {
		err = f.Chmod(mode)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
	}
	return err
}
