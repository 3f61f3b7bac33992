package respcodec

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// crlf terminates every RESP wire unit.
const crlf = "\r\n"

// Encoder encodes individual RESP wire units into a growable buffer.
//
// Every Append method writes one complete, self-terminated unit. Writes are
// strictly additive: the Encoder never rewinds or patches bytes it already
// wrote, which is why map headers require the pair count up front.
//
// An Encoder is not safe for concurrent use. After a method returned an
// error the buffer contents are undefined and the Encoder must be Reset
// before reuse.
type Encoder struct {
	buf []byte
}

// NewEncoder returns a new, empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the encoded wire data accumulated so far.
//
// The returned slice aliases the internal buffer and is only valid until the
// next Append call or Reset.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes accumulated so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Reset discards all buffered data, keeping the allocation for reuse.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

func (e *Encoder) appendText(prefix Kind, s string) {
	e.buf = append(e.buf, byte(prefix))
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, crlf...)
}

// AppendBool appends a boolean as #t or #f.
func (e *Encoder) AppendBool(v bool) {
	e.buf = append(e.buf, byte(KindBoolean))
	if v {
		e.buf = append(e.buf, 't')
	} else {
		e.buf = append(e.buf, 'f')
	}
	e.buf = append(e.buf, crlf...)
}

// AppendInt appends v as the native RESP integer kind.
func (e *Encoder) AppendInt(v int64) {
	e.buf = append(e.buf, byte(KindInteger))
	e.buf = strconv.AppendInt(e.buf, v, 10)
	e.buf = append(e.buf, crlf...)
}

// AppendUint appends v as a RESP big number.
//
// The native RESP integer is signed 64-bit, so unsigned 64-bit values always
// take the big number kind, even when the value would fit. Narrower unsigned
// values belong in AppendInt.
func (e *Encoder) AppendUint(v uint64) {
	e.buf = append(e.buf, byte(KindBigNumber))
	e.buf = strconv.AppendUint(e.buf, v, 10)
	e.buf = append(e.buf, crlf...)
}

// AppendBigInt appends v as a RESP big number.
func (e *Encoder) AppendBigInt(v *big.Int) {
	e.buf = append(e.buf, byte(KindBigNumber))
	e.buf = v.Append(e.buf, 10)
	e.buf = append(e.buf, crlf...)
}

// AppendFloat32 appends v as a RESP double, formatted with the smallest
// number of digits that round-trips through a 32-bit float.
func (e *Encoder) AppendFloat32(v float32) {
	e.appendFloat(float64(v), 32)
}

// AppendFloat64 appends v as a RESP double, formatted with the smallest
// number of digits that round-trips through a 64-bit float.
func (e *Encoder) AppendFloat64(v float64) {
	e.appendFloat(v, 64)
}

func (e *Encoder) appendFloat(v float64, bitSize int) {
	e.buf = append(e.buf, byte(KindDouble))
	switch {
	case math.IsInf(v, 1):
		e.buf = append(e.buf, "inf"...)
	case math.IsInf(v, -1):
		e.buf = append(e.buf, "-inf"...)
	case math.IsNaN(v):
		e.buf = append(e.buf, "nan"...)
	default:
		e.buf = strconv.AppendFloat(e.buf, v, 'f', -1, bitSize)
	}
	e.buf = append(e.buf, crlf...)
}

// AppendString appends s as a bulk string.
//
// Strings are always bulk, never simple: bulk strings are binary-safe and
// need no restriction on the payload.
func (e *Encoder) AppendString(s string) {
	e.buf = append(e.buf, byte(KindBulkString))
	e.buf = strconv.AppendUint(e.buf, uint64(len(s)), 10)
	e.buf = append(e.buf, crlf...)
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, crlf...)
}

// AppendBytes appends b as a bulk string.
func (e *Encoder) AppendBytes(b []byte) {
	e.buf = append(e.buf, byte(KindBulkString))
	e.buf = strconv.AppendUint(e.buf, uint64(len(b)), 10)
	e.buf = append(e.buf, crlf...)
	e.buf = append(e.buf, b...)
	e.buf = append(e.buf, crlf...)
}

var nullBytes = []byte("_\r\n")

// AppendNull appends the RESP3 null.
func (e *Encoder) AppendNull() {
	e.buf = append(e.buf, nullBytes...)
}

// AppendSimpleString appends s as a simple string.
//
// Simple strings are CRLF-delimited and cannot contain CR or LF themselves;
// text that does fails with a SerializeError. Marshal never emits simple
// strings, this exists for callers speaking the protocol directly.
func (e *Encoder) AppendSimpleString(s string) error {
	return e.appendSimpleText(KindSimpleString, s)
}

// AppendSimpleError appends s as a simple error. The same CR/LF restriction
// as for AppendSimpleString applies.
func (e *Encoder) AppendSimpleError(s string) error {
	return e.appendSimpleText(KindSimpleError, s)
}

func (e *Encoder) appendSimpleText(prefix Kind, s string) error {
	if strings.ContainsAny(s, crlf) {
		return serializeErrorf("%s value must not contain CR or LF", prefix)
	}
	e.appendText(prefix, s)
	return nil
}

var nullArrayHeaderBytes = []byte("*-1\r\n")

// AppendArrayHeader appends an array header for an array of n elements,
// which the caller must append next. Pass n == -1 only when the length is
// genuinely unknown ahead of traversal.
func (e *Encoder) AppendArrayHeader(n int) error {
	if n < -1 {
		return serializeErrorf("array length must be >= -1, got %d", n)
	}

	if n == -1 { // fast-path
		e.buf = append(e.buf, nullArrayHeaderBytes...)
		return nil
	}

	e.buf = append(e.buf, byte(KindArray))
	e.buf = strconv.AppendInt(e.buf, int64(n), 10)
	e.buf = append(e.buf, crlf...)
	return nil
}

// AppendMapHeader appends a map header for a map of n key-value pairs, which
// the caller must append next, alternating keys and values.
//
// Unlike arrays, map framing requires the pair count before any pair is
// written, so an unknown length cannot be encoded.
func (e *Encoder) AppendMapHeader(n int) error {
	if n < 0 {
		return serializeErrorf("cannot encode a map with unknown length")
	}

	e.buf = append(e.buf, byte(KindMap))
	e.buf = strconv.AppendInt(e.buf, int64(n), 10)
	e.buf = append(e.buf, crlf...)
	return nil
}

// AppendUnitVariant appends a payload-less tagged union variant, which is
// represented as a bulk string holding the variant name.
func (e *Encoder) AppendUnitVariant(name string) {
	e.AppendString(name)
}

// AppendVariant appends the header of a tagged union variant carrying a
// payload: a single-pair map keyed by the variant name. The caller must
// append exactly one value, the payload, next.
func (e *Encoder) AppendVariant(name string) error {
	if err := e.AppendMapHeader(1); err != nil {
		return err
	}
	e.AppendString(name)
	return nil
}
