package respcodec_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirekit/respcodec"
)

func encoded(fn func(e *respcodec.Encoder)) string {
	e := respcodec.NewEncoder()
	fn(e)
	return string(e.Bytes())
}

func TestEncoderScalars(t *testing.T) {
	for _, test := range []struct {
		Name     string
		Append   func(e *respcodec.Encoder)
		Expected string
	}{
		{"bool true", func(e *respcodec.Encoder) { e.AppendBool(true) }, "#t\r\n"},
		{"bool false", func(e *respcodec.Encoder) { e.AppendBool(false) }, "#f\r\n"},
		{"int", func(e *respcodec.Encoder) { e.AppendInt(42) }, ":42\r\n"},
		{"int negative", func(e *respcodec.Encoder) { e.AppendInt(-42) }, ":-42\r\n"},
		{"int zero", func(e *respcodec.Encoder) { e.AppendInt(0) }, ":0\r\n"},
		{"uint is always a big number", func(e *respcodec.Encoder) { e.AppendUint(42) }, "(42\r\n"},
		{"uint zero is a big number too", func(e *respcodec.Encoder) { e.AppendUint(0) }, "(0\r\n"},
		{"uint above int64 range", func(e *respcodec.Encoder) { e.AppendUint(12345678901234567890) }, "(12345678901234567890\r\n"},
		{"null", func(e *respcodec.Encoder) { e.AppendNull() }, "_\r\n"},
		{"string", func(e *respcodec.Encoder) { e.AppendString("Hello, World!") }, "$13\r\nHello, World!\r\n"},
		{"empty string", func(e *respcodec.Encoder) { e.AppendString("") }, "$0\r\n\r\n"},
		{"bytes", func(e *respcodec.Encoder) { e.AppendBytes([]byte("bin\r\nary")) }, "$8\r\nbin\r\nary\r\n"},
		{"float64", func(e *respcodec.Encoder) { e.AppendFloat64(3.1) }, ",3.1\r\n"},
		{"float64 negative", func(e *respcodec.Encoder) { e.AppendFloat64(-3.1) }, ",-3.1\r\n"},
		{"float64 large", func(e *respcodec.Encoder) { e.AppendFloat64(2e20) }, ",200000000000000000000\r\n"},
		{"float64 small", func(e *respcodec.Encoder) { e.AppendFloat64(2e-20) }, ",0.00000000000000000002\r\n"},
		{"float32", func(e *respcodec.Encoder) { e.AppendFloat32(3.1) }, ",3.1\r\n"},
		{"float64 +inf", func(e *respcodec.Encoder) { e.AppendFloat64(math.Inf(1)) }, ",inf\r\n"},
		{"float64 -inf", func(e *respcodec.Encoder) { e.AppendFloat64(math.Inf(-1)) }, ",-inf\r\n"},
		{"float64 nan", func(e *respcodec.Encoder) { e.AppendFloat64(math.NaN()) }, ",nan\r\n"},
	} {
		t.Run(test.Name, func(t *testing.T) {
			assert.Equal(t, test.Expected, encoded(test.Append))
		})
	}
}

func TestEncoderAppendBigInt(t *testing.T) {
	n, ok := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	require.True(t, ok)

	assert.Equal(t, "(340282366920938463463374607431768211455\r\n", encoded(func(e *respcodec.Encoder) {
		e.AppendBigInt(n)
	}))
	assert.Equal(t, "(-17\r\n", encoded(func(e *respcodec.Encoder) {
		e.AppendBigInt(big.NewInt(-17))
	}))
}

func TestEncoderSimpleText(t *testing.T) {
	e := respcodec.NewEncoder()
	require.NoError(t, e.AppendSimpleString("OK"))
	require.NoError(t, e.AppendSimpleError("ERR unknown command"))
	assert.Equal(t, "+OK\r\n-ERR unknown command\r\n", string(e.Bytes()))

	var serr *respcodec.SerializeError

	e.Reset()
	require.ErrorAs(t, e.AppendSimpleString("no\r\nnewlines"), &serr)
	require.ErrorAs(t, e.AppendSimpleError("no\rCR"), &serr)
	assert.Zero(t, e.Len(), "failed appends must not write")
}

func TestEncoderArrayHeader(t *testing.T) {
	e := respcodec.NewEncoder()
	require.NoError(t, e.AppendArrayHeader(2))
	e.AppendString("Hello")
	e.AppendString("World")
	assert.Equal(t, "*2\r\n$5\r\nHello\r\n$5\r\nWorld\r\n", string(e.Bytes()))

	e.Reset()
	require.NoError(t, e.AppendArrayHeader(-1), "unknown length is valid for arrays")
	assert.Equal(t, "*-1\r\n", string(e.Bytes()))

	var serr *respcodec.SerializeError
	require.ErrorAs(t, e.AppendArrayHeader(-2), &serr)
}

func TestEncoderMapHeader(t *testing.T) {
	e := respcodec.NewEncoder()
	require.NoError(t, e.AppendMapHeader(1))
	e.AppendString("key1")
	e.AppendString("value1")
	assert.Equal(t, "%1\r\n$4\r\nkey1\r\n$6\r\nvalue1\r\n", string(e.Bytes()))

	// Map framing needs the pair count before the first pair, so an unknown
	// length cannot be encoded.
	var serr *respcodec.SerializeError
	require.ErrorAs(t, e.AppendMapHeader(-1), &serr)
}

func TestEncoderVariants(t *testing.T) {
	assert.Equal(t, "$4\r\nUnit\r\n", encoded(func(e *respcodec.Encoder) {
		e.AppendUnitVariant("Unit")
	}))

	e := respcodec.NewEncoder()
	require.NoError(t, e.AppendVariant("Newtype"))
	e.AppendInt(1)
	assert.Equal(t, "%1\r\n$7\r\nNewtype\r\n:1\r\n", string(e.Bytes()))
}

func TestEncoderReset(t *testing.T) {
	e := respcodec.NewEncoder()
	e.AppendInt(1)
	require.Equal(t, 4, e.Len())

	e.Reset()
	require.Zero(t, e.Len())

	e.AppendInt(2)
	assert.Equal(t, ":2\r\n", string(e.Bytes()))
}

func BenchmarkEncoderAppendInt(b *testing.B) {
	e := respcodec.NewEncoder()
	for i := 0; i < b.N; i++ {
		e.Reset()
		e.AppendInt(1234567890)
	}
}

func BenchmarkEncoderAppendString(b *testing.B) {
	e := respcodec.NewEncoder()
	for i := 0; i < b.N; i++ {
		e.Reset()
		e.AppendString("Hello, World!")
	}
}
