package instance

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// maxFrameSize bounds what a client may make us allocate.
const maxFrameSize = 1 << 20

const (
	fieldID   protowire.Number = 1
	fieldArgs protowire.Number = 2
	fieldCwd  protowire.Number = 3
)

var ErrFrameTooLarge = errors.New("activation frame too large")

// Activation is what a second launch forwards to the running instance.
type Activation struct {
	ID   string
	Args []string
	Cwd  string
}

func (a Activation) marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldID, protowire.BytesType)
	b = protowire.AppendString(b, a.ID)
	for _, arg := range a.Args {
		b = protowire.AppendTag(b, fieldArgs, protowire.BytesType)
		b = protowire.AppendString(b, arg)
	}
	b = protowire.AppendTag(b, fieldCwd, protowire.BytesType)
	b = protowire.AppendString(b, a.Cwd)
	return b
}

func unmarshalActivation(b []byte) (Activation, error) {
	var a Activation
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Activation{}, fmt.Errorf("decode tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Activation{}, fmt.Errorf("skip field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeString(b)
		if n < 0 {
			return Activation{}, fmt.Errorf("decode field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldID:
			a.ID = v
		case fieldArgs:
			a.Args = append(a.Args, v)
		case fieldCwd:
			a.Cwd = v
		}
	}
	return a, nil
}

// WriteFrame writes a length-prefixed activation.
func WriteFrame(w io.Writer, a Activation) error {
	body := a.marshal()
	if len(body) > maxFrameSize {
		return ErrFrameTooLarge
	}
	buf := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(buf, uint32(len(body)))
	copy(buf[4:], body)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one length-prefixed activation.
func ReadFrame(r io.Reader) (Activation, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Activation{}, err
	}
	size := binary.BigEndian.Uint32(hdr[:])
	if size > maxFrameSize {
		return Activation{}, ErrFrameTooLarge
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return Activation{}, fmt.Errorf("read frame body: %w", err)
	}
	return unmarshalActivation(body)
}
