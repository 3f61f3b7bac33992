package respcodec

import (
	"fmt"
)

// Kind is an enum of the known RESP data kinds with the values of the
// constants being the single-byte wire prefixes.
type Kind byte

const (
	// KindInvalid is returned by KindOf and Decoder.PeekKind for bytes that do not map to any RESP kind.
	KindInvalid Kind = 0
	// KindSimpleString signifies a RESP simple string.
	KindSimpleString Kind = '+'
	// KindSimpleError signifies a RESP simple error.
	KindSimpleError Kind = '-'
	// KindInteger signifies a RESP integer.
	KindInteger Kind = ':'
	// KindBulkString signifies a RESP bulk string.
	KindBulkString Kind = '$'
	// KindArray signifies a RESP array.
	KindArray Kind = '*'
	// KindNull signifies the RESP3 null.
	KindNull Kind = '_'
	// KindBoolean signifies a RESP3 boolean.
	KindBoolean Kind = '#'
	// KindDouble signifies a RESP3 double.
	KindDouble Kind = ','
	// KindBigNumber signifies a RESP3 big number.
	KindBigNumber Kind = '('
	// KindBulkError signifies a RESP3 bulk error.
	KindBulkError Kind = '!'
	// KindVerbatimString signifies a RESP3 verbatim string.
	KindVerbatimString Kind = '='
	// KindMap signifies a RESP3 map.
	KindMap Kind = '%'
	// KindAttribute signifies a RESP3 attribute map.
	KindAttribute Kind = '|'
	// KindSet signifies a RESP3 set.
	KindSet Kind = '~'
	// KindPush signifies a RESP3 push message.
	KindPush Kind = '>'
)

var _ fmt.Stringer = KindInvalid

var kinds = [256]Kind{
	KindSimpleString:   KindSimpleString,
	KindSimpleError:    KindSimpleError,
	KindInteger:        KindInteger,
	KindBulkString:     KindBulkString,
	KindArray:          KindArray,
	KindNull:           KindNull,
	KindBoolean:        KindBoolean,
	KindDouble:         KindDouble,
	KindBigNumber:      KindBigNumber,
	KindBulkError:      KindBulkError,
	KindVerbatimString: KindVerbatimString,
	KindMap:            KindMap,
	KindAttribute:      KindAttribute,
	KindSet:            KindSet,
	KindPush:           KindPush,
}

// KindOf returns the Kind for the given wire prefix byte, or KindInvalid if
// the byte does not start any known RESP data kind.
func KindOf(b byte) Kind {
	return kinds[b]
}

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	return string(k)
}

// isSimpleText reports whether values of the kind are framed as raw text up
// to the next CRLF, with no length prefix.
func (k Kind) isSimpleText() bool {
	switch k {
	case KindSimpleString, KindSimpleError, KindInteger, KindBigNumber, KindDouble:
		return true
	}
	return false
}

// isBulk reports whether values of the kind are length-prefixed and
// binary-safe.
func (k Kind) isBulk() bool {
	switch k {
	case KindBulkString, KindBulkError, KindVerbatimString:
		return true
	}
	return false
}

// isStringy reports whether the kind may be decoded into a string target.
func (k Kind) isStringy() bool {
	return k.isSimpleText() || k.isBulk()
}

// isNumeric reports whether the kind may be decoded into a numeric target.
func (k Kind) isNumeric() bool {
	switch k {
	case KindInteger, KindDouble, KindBigNumber:
		return true
	}
	return false
}

// isSequence reports whether the kind is framed like an array.
func (k Kind) isSequence() bool {
	switch k {
	case KindArray, KindSet, KindPush:
		return true
	}
	return false
}

// isMapping reports whether the kind is framed like a map.
func (k Kind) isMapping() bool {
	switch k {
	case KindMap, KindAttribute:
		return true
	}
	return false
}
