package interp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

// Encoder accumulates the big-endian, length-prefixed wire representation
// of literals, token chains and scopes. Every sum type writes a one-byte
// discriminant before its payload, so a decoder can reconstruct it without
// external type information.
type Encoder struct {
	buf bytes.Buffer
}

func newEncoder() *Encoder { return &Encoder{} }

func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }

func (e *Encoder) WriteU8(v uint8) error {
	return e.buf.WriteByte(v)
}

func (e *Encoder) WriteBool(v bool) error {
	if v {
		return e.WriteU8(1)
	}
	return e.WriteU8(0)
}

func (e *Encoder) WriteU16(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := e.buf.Write(b[:])
	return err
}

func (e *Encoder) WriteU32(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := e.buf.Write(b[:])
	return err
}

func (e *Encoder) WriteU64(v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	_, err := e.buf.Write(b[:])
	return err
}

func (e *Encoder) WriteI64(v int64) error { return e.WriteU64(uint64(v)) }

func (e *Encoder) WriteF64(v float64) error {
	return e.WriteU64(f64bits(v))
}

// WriteString writes a u16-length-prefixed UTF-8 string.
func (e *Encoder) WriteString(v string) error {
	if len(v) > 0xFFFF {
		return decodeErrorf("string of %d bytes exceeds u16 length prefix", len(v))
	}
	if err := e.WriteU16(uint16(len(v))); err != nil {
		return err
	}
	_, err := e.buf.WriteString(v)
	return err
}

// WriteRune writes a Unicode scalar as 4 raw UTF-8 bytes, zero-padded.
func (e *Encoder) WriteRune(v rune) error {
	var out [4]byte
	utf8.EncodeRune(out[:], v)
	_, err := e.buf.Write(out[:])
	return err
}

// WriteCount writes the u32 element count that precedes a homogeneous
// sequence or a string-keyed mapping.
func (e *Encoder) WriteCount(n int) error { return e.WriteU32(uint32(n)) }

// Decoder is the exact inverse of Encoder, reading from a byte slice.
type Decoder struct {
	r   *bytes.Reader
	all []byte
}

func newDecoder(b []byte) *Decoder { return &Decoder{r: bytes.NewReader(b), all: b} }

func (d *Decoder) ReadU8() (uint8, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, wrapErr(KindDecode, err, "short buffer reading u8")
	}
	return b, nil
}

func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.ReadU8()
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

func (d *Decoder) readExact(n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := io.ReadFull(d.r, out); err != nil {
		return nil, wrapErr(KindDecode, err, "short buffer reading %d bytes", n)
	}
	return out, nil
}

func (d *Decoder) ReadU16() (uint16, error) {
	b, err := d.readExact(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *Decoder) ReadU32() (uint32, error) {
	b, err := d.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *Decoder) ReadU64() (uint64, error) {
	b, err := d.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (d *Decoder) ReadI64() (int64, error) {
	v, err := d.ReadU64()
	return int64(v), err
}

func (d *Decoder) ReadF64() (float64, error) {
	v, err := d.ReadU64()
	if err != nil {
		return 0, err
	}
	return f64frombits(v), nil
}

func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadU16()
	if err != nil {
		return "", err
	}
	b, err := d.readExact(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", decodeErrorf("invalid UTF-8 in string payload")
	}
	return string(b), nil
}

func (d *Decoder) ReadRune() (rune, error) {
	b, err := d.readExact(4)
	if err != nil {
		return 0, err
	}
	// Raw UTF-8 bytes, trailing zero padding after the first rune.
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return 0, decodeErrorf("invalid UTF-8 scalar in char payload")
	}
	return r, nil
}

func (d *Decoder) ReadCount() (int, error) {
	n, err := d.ReadU32()
	return int(n), err
}

func (d *Decoder) remaining() int { return d.r.Len() }

// writeStringMap writes a string-keyed mapping prefixed by a u32 count,
// emitting key then value for each entry in the order supplied.
func writeStringMap(e *Encoder, keys []string, write func(k string) error) error {
	if err := e.WriteCount(len(keys)); err != nil {
		return err
	}
	for _, k := range keys {
		if err := e.WriteString(k); err != nil {
			return err
		}
		if err := write(k); err != nil {
			return err
		}
	}
	return nil
}

func readStringMapHeader(d *Decoder) (int, error) { return d.ReadCount() }

func invalidDiscriminant(what string, tag uint8) error {
	return decodeErrorf("invalid %s discriminant %s", what, fmtHex(tag))
}

func fmtHex(b uint8) string { return fmt.Sprintf("0x%02x", b) }
