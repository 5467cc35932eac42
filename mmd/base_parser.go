package mmd

import (
	"bytes"
	"encoding/binary"
	"io"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// baseParser reads little endian values. After the first error every read
// is skipped and err is kept.
type baseParser struct {
	r   io.Reader
	err error
}

func (p *baseParser) read(v interface{}) {
	if p.err != nil {
		return
	}
	p.err = binary.Read(p.r, binary.LittleEndian, v)
}

func (p *baseParser) readInt() int {
	var v uint32
	p.read(&v)
	return int(v)
}

// readString reads a fixed size NUL padded Shift-JIS string.
func (p *baseParser) readString(size int) string {
	b := make([]byte, size)
	p.read(b)
	if p.err != nil {
		return ""
	}
	utf8Data, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), bytes.SplitN(b, []byte{0}, 2)[0])
	if err != nil {
		return string(b)
	}
	return string(utf8Data)
}
