package respcodec

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	crlfBytes    = []byte(crlf)
	nullBulkTail = []byte("-1\r\n")
)

// Decoder decodes individual RESP wire units from a byte slice.
//
// The Decoder borrows the input and only ever advances over it; payloads are
// copied out when materialized. Every Read method peeks the next prefix byte,
// verifies it against the expected kind and consumes exactly one complete
// wire unit including its trailing CRLF.
//
// A Decoder is not safe for concurrent use. After a method returned an error
// the read position is undefined and the Decoder must not be used further.
type Decoder struct {
	buf   []byte
	pos   int
	depth int
}

// NewDecoder returns a Decoder reading from data. The Decoder keeps a
// reference to data; the caller must not modify it while decoding.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data}
}

// Remaining returns the number of input bytes not yet consumed.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

func (d *Decoder) peekByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrUnexpectedEnd
	}
	return d.buf[d.pos], nil
}

func (d *Decoder) nextByte() (byte, error) {
	b, err := d.peekByte()
	if err != nil {
		return 0, err
	}
	d.pos++
	return b, nil
}

func (d *Decoder) expectByte(want byte) error {
	b, err := d.nextByte()
	if err != nil {
		return err
	}
	if b != want {
		return &UnexpectedByteError{Expected: fmt.Sprintf("%q", want), Found: b}
	}
	return nil
}

func (d *Decoder) expectCRLF() error {
	if bytes.HasPrefix(d.buf[d.pos:], crlfBytes) {
		d.pos += len(crlfBytes)
		return nil
	}
	if d.pos >= len(d.buf) {
		return ErrUnexpectedEnd
	}
	return &UnexpectedByteError{Expected: `"\r\n"`, Found: d.buf[d.pos]}
}

// readLength consumes a non-negative decimal length token, leaving the
// cursor on the byte after the last digit.
func (d *Decoder) readLength() (int, error) {
	i := d.pos
	for i < len(d.buf) && d.buf[i] >= '0' && d.buf[i] <= '9' {
		i++
	}
	if i == len(d.buf) || i == d.pos {
		return 0, ErrExpectedLength
	}
	n, err := strconv.Atoi(string(d.buf[d.pos:i]))
	if err != nil {
		return 0, ErrExpectedLength
	}
	d.pos = i
	return n, nil
}

// PeekKind returns the Kind of the next value without consuming anything.
func (d *Decoder) PeekKind() (Kind, error) {
	b, err := d.peekByte()
	if err != nil {
		return KindInvalid, err
	}
	k := KindOf(b)
	if k == KindInvalid {
		return KindInvalid, ErrUnrecognizedStart
	}
	return k, nil
}

// ReadBool reads a boolean. Only the boolean kind is accepted and only t or
// f are valid payload bytes.
func (d *Decoder) ReadBool() (bool, error) {
	if err := d.expectByte(byte(KindBoolean)); err != nil {
		return false, err
	}

	var v bool
	switch b, err := d.nextByte(); {
	case err != nil:
		return false, err
	case b == 't':
		v = true
	case b == 'f':
		v = false
	default:
		return false, &UnexpectedByteError{Expected: "one of 't' or 'f'", Found: b}
	}

	return v, d.expectCRLF()
}

// ReadNull reads the RESP3 null.
func (d *Decoder) ReadNull() error {
	if err := d.expectByte(byte(KindNull)); err != nil {
		return err
	}
	return d.expectCRLF()
}

func isNumericTokenByte(b byte) bool {
	return b >= '0' && b <= '9' || b == '+' || b == '-' || b == '.' || b == 'e' || b == 'E'
}

// expectNumericKind consumes the prefix byte of the next value and verifies
// it starts an integer, double or big number. The three kinds are accepted
// interchangeably for every numeric target; the width check happens when the
// token text is parsed.
func (d *Decoder) expectNumericKind() error {
	b, err := d.nextByte()
	if err != nil {
		return err
	}
	k := KindOf(b)
	if k == KindInvalid {
		return ErrUnrecognizedStart
	}
	if !k.isNumeric() {
		return &UnexpectedByteError{Expected: "an integer (:), double (,) or big number (() prefix", Found: b}
	}
	return nil
}

// readNumericToken consumes the longest run of bytes belonging to the shared
// numeric character class. The prefix byte must already be consumed; the
// trailing CRLF is not.
func (d *Decoder) readNumericToken() (string, error) {
	i := d.pos
	for i < len(d.buf) && isNumericTokenByte(d.buf[i]) {
		i++
	}
	if i == len(d.buf) {
		return "", ErrUnexpectedEnd
	}
	tok := string(d.buf[d.pos:i])
	d.pos = i
	return tok, nil
}

func tokenStart(tok string) byte {
	if tok == "" {
		return 0
	}
	return tok[0]
}

// ReadInt reads a signed integer of the given width (8, 16, 32 or 64 bits)
// from an integer, double or big number value. Tokens that do not parse as
// an integer of that width fail with an UnexpectedByteError.
func (d *Decoder) ReadInt(bitSize int) (int64, error) {
	if err := d.expectNumericKind(); err != nil {
		return 0, err
	}
	tok, err := d.readNumericToken()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok, 10, bitSize)
	if err != nil {
		return 0, &UnexpectedByteError{Expected: fmt.Sprintf("a valid %d-bit integer", bitSize), Found: tokenStart(tok)}
	}
	return n, d.expectCRLF()
}

// ReadUint reads an unsigned integer of the given width (8, 16, 32 or 64
// bits) from an integer, double or big number value.
func (d *Decoder) ReadUint(bitSize int) (uint64, error) {
	if err := d.expectNumericKind(); err != nil {
		return 0, err
	}
	tok, err := d.readNumericToken()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(tok, "+"), 10, bitSize)
	if err != nil {
		return 0, &UnexpectedByteError{Expected: fmt.Sprintf("a valid %d-bit unsigned integer", bitSize), Found: tokenStart(tok)}
	}
	return n, d.expectCRLF()
}

// ReadFloat reads a float of the given width (32 or 64 bits) from an
// integer, double or big number value. The RESP3 literals inf, -inf and nan
// are accepted.
func (d *Decoder) ReadFloat(bitSize int) (float64, error) {
	if err := d.expectNumericKind(); err != nil {
		return 0, err
	}

	rest := d.buf[d.pos:]
	for _, lit := range floatLiterals {
		if bytes.HasPrefix(rest, lit.text) {
			d.pos += len(lit.text) - len(crlf)
			return lit.value, d.expectCRLF()
		}
	}

	tok, err := d.readNumericToken()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(tok, bitSize)
	if err != nil {
		return 0, &UnexpectedByteError{Expected: fmt.Sprintf("a valid %d-bit float", bitSize), Found: tokenStart(tok)}
	}
	return f, d.expectCRLF()
}

var floatLiterals = []struct {
	text  []byte
	value float64
}{
	{[]byte("inf\r\n"), math.Inf(1)},
	{[]byte("+inf\r\n"), math.Inf(1)},
	{[]byte("-inf\r\n"), math.Inf(-1)},
	{[]byte("nan\r\n"), math.NaN()},
}

// ReadBigInt reads an arbitrary-precision integer from an integer, double or
// big number value.
func (d *Decoder) ReadBigInt() (*big.Int, error) {
	if err := d.expectNumericKind(); err != nil {
		return nil, err
	}
	tok, err := d.readNumericToken()
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(tok, 10)
	if !ok {
		return nil, &UnexpectedByteError{Expected: "a valid integer", Found: tokenStart(tok)}
	}
	return n, d.expectCRLF()
}

// readSimpleLine consumes text up to the next CRLF. The prefix byte must
// already be consumed. Empty lines are rejected: unlike bulk strings, simple
// values have no empty representation.
func (d *Decoder) readSimpleLine() ([]byte, error) {
	idx := bytes.Index(d.buf[d.pos:], crlfBytes)
	if idx == -1 {
		return nil, ErrUnexpectedEnd
	}
	if idx == 0 {
		return nil, ErrUnexpectedEnd
	}
	line := d.buf[d.pos : d.pos+idx]
	d.pos += idx + len(crlfBytes)
	return line, nil
}

// readBulkPayload consumes a length-framed payload. The prefix byte must
// already be consumed. The returned slice aliases the input. A -1 length is
// the null sentinel and yields an empty payload.
func (d *Decoder) readBulkPayload() ([]byte, error) {
	if bytes.HasPrefix(d.buf[d.pos:], nullBulkTail) {
		d.pos += len(nullBulkTail)
		return nil, nil
	}

	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	if err := d.expectCRLF(); err != nil {
		return nil, err
	}
	if d.Remaining() < n {
		return nil, ErrUnexpectedEnd
	}

	// The declared length is authoritative: the payload is taken verbatim
	// without scanning for CRLF, so it is binary-safe.
	payload := d.buf[d.pos : d.pos+n]
	d.pos += n
	return payload, d.expectCRLF()
}

func (d *Decoder) readStringy() ([]byte, error) {
	b, err := d.peekByte()
	if err != nil {
		return nil, err
	}
	k := KindOf(b)
	if k == KindInvalid {
		return nil, ErrUnrecognizedStart
	}

	switch {
	case k.isSimpleText():
		d.pos++
		return d.readSimpleLine()
	case k.isBulk():
		d.pos++
		return d.readBulkPayload()
	default:
		return nil, &UnexpectedByteError{Expected: "a string or number prefix", Found: b}
	}
}

// ReadString reads any string-family value: simple strings and errors, bulk
// strings, errors and verbatim strings, and the three numeric kinds, whose
// raw token text is returned verbatim. Null bulk strings decode to "".
// Payload bytes must be valid UTF-8.
func (d *Decoder) ReadString() (string, error) {
	b, err := d.readStringy()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// ReadBytes is like ReadString but skips UTF-8 validation and returns a copy
// of the raw payload.
func (d *Decoder) ReadBytes() ([]byte, error) {
	b, err := d.readStringy()
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// ReadArray reads an array, set or push header and returns a reader bound to
// the declared element count.
func (d *Decoder) ReadArray() (*ArrayReader, error) {
	n, err := d.readAggregateHeader(Kind.isSequence, "an array, set or push prefix")
	if err != nil {
		return nil, err
	}
	return &ArrayReader{d: d, length: n}, nil
}

// ReadMap reads a map or attribute header and returns a reader bound to the
// declared pair count.
func (d *Decoder) ReadMap() (*MapReader, error) {
	n, err := d.readAggregateHeader(Kind.isMapping, "a map or attributes prefix")
	if err != nil {
		return nil, err
	}
	return &MapReader{d: d, length: n}, nil
}

func (d *Decoder) readAggregateHeader(accepts func(Kind) bool, expected string) (int, error) {
	b, err := d.peekByte()
	if err != nil {
		return 0, err
	}
	k := KindOf(b)
	if k == KindInvalid {
		return 0, ErrUnrecognizedStart
	}
	if !accepts(k) {
		return 0, &UnexpectedByteError{Expected: expected, Found: b}
	}
	d.pos++

	n, err := d.readLength()
	if err != nil {
		return 0, err
	}
	return n, d.expectCRLF()
}

// ReadVariant reads the header of a tagged union value and returns the
// variant name.
//
// A string-family value is a payload-less unit variant and hasPayload is
// false. A map-family value must hold exactly one pair; the key is the
// variant name, hasPayload is true and the caller must decode the payload
// next using whichever read matches the variant's shape.
func (d *Decoder) ReadVariant() (name string, hasPayload bool, err error) {
	b, err := d.peekByte()
	if err != nil {
		return "", false, err
	}
	k := KindOf(b)
	if k == KindInvalid {
		return "", false, ErrUnrecognizedStart
	}

	switch {
	case k.isStringy():
		name, err = d.ReadString()
		return name, false, err
	case k.isMapping():
		d.pos++
		n, err := d.readLength()
		if err != nil {
			return "", false, err
		}
		if n != 1 {
			return "", false, deserializeErrorf("expected a single key-value pair for union variant, got %d", n)
		}
		if err := d.expectCRLF(); err != nil {
			return "", false, err
		}
		name, err = d.ReadString()
		return name, true, err
	default:
		return "", false, &UnexpectedByteError{Expected: "a string or map prefix", Found: b}
	}
}

// ArrayReader decodes the elements of an array, set or push value.
//
// The declared count is authoritative: the reader never looks for an
// end-of-data sentinel, and a short input inside an element surfaces as
// ErrUnexpectedEnd. Callers must stop decoding once More reports false.
type ArrayReader struct {
	d            *Decoder
	length, read int
}

// Len returns the declared element count.
func (r *ArrayReader) Len() int {
	return r.length
}

// More reports whether undecoded elements remain.
func (r *ArrayReader) More() bool {
	return r.read < r.length
}

// Decode decodes the next element into v, which must be a non-nil pointer.
func (r *ArrayReader) Decode(v any) error {
	if !r.More() {
		return deserializeErrorf("no elements left in array of length %d", r.length)
	}
	r.read++
	return r.d.Decode(v)
}

// MapReader decodes the entries of a map or attribute value. The same count
// contract as for ArrayReader applies, counted in key-value pairs.
type MapReader struct {
	d            *Decoder
	length, read int
}

// Len returns the declared pair count.
func (r *MapReader) Len() int {
	return r.length
}

// More reports whether undecoded pairs remain.
func (r *MapReader) More() bool {
	return r.read < r.length
}

// DecodeKey decodes the key of the next pair into v, which must be a non-nil
// pointer. Each DecodeKey call must be followed by a DecodeValue call.
func (r *MapReader) DecodeKey(v any) error {
	if !r.More() {
		return deserializeErrorf("no entries left in map of length %d", r.length)
	}
	r.read++
	return r.d.Decode(v)
}

// DecodeValue decodes the value of the current pair into v, which must be a
// non-nil pointer.
func (r *MapReader) DecodeValue(v any) error {
	return r.d.Decode(v)
}
