package respcodec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wirekit/respcodec"
)

var allKinds = []respcodec.Kind{
	respcodec.KindSimpleString,
	respcodec.KindSimpleError,
	respcodec.KindInteger,
	respcodec.KindBulkString,
	respcodec.KindArray,
	respcodec.KindNull,
	respcodec.KindBoolean,
	respcodec.KindDouble,
	respcodec.KindBigNumber,
	respcodec.KindBulkError,
	respcodec.KindVerbatimString,
	respcodec.KindMap,
	respcodec.KindAttribute,
	respcodec.KindSet,
	respcodec.KindPush,
}

func TestKindOf(t *testing.T) {
	for _, k := range allKinds {
		assert.Equal(t, k, respcodec.KindOf(byte(k)), "prefix %q", byte(k))
	}

	for _, b := range []byte{0, ' ', 'a', 'Z', '0', '\r', '\n', 0xff} {
		assert.Equal(t, respcodec.KindInvalid, respcodec.KindOf(b), "byte %q", b)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "*", respcodec.KindArray.String())
	assert.Equal(t, "$", respcodec.KindBulkString.String())
	assert.Equal(t, "(", respcodec.KindBigNumber.String())
}
