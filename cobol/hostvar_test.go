package cobol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esql-go/esql/cobol"
)

func TestVarlenRoundTrip(t *testing.T) {
	buf := cobol.PutVarlen([]byte("select 1"))
	require.Len(t, buf, cobol.VarlenPrefixSize+8)
	assert.Equal(t, []byte("select 1"), cobol.VarlenData(buf))
}

func TestVarlenDataTruncated(t *testing.T) {
	assert.Nil(t, cobol.VarlenData([]byte{0x01}))
}

func TestHostText(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		l    int
		want string
	}{
		{
			name: "fixed length trimmed",
			buf:  []byte("select * from t   "),
			l:    18,
			want: "select * from t",
		},
		{
			name: "fixed length shorter than buffer",
			buf:  []byte("abc   xyz"),
			l:    6,
			want: "abc",
		},
		{
			name: "nul terminated",
			buf:  append([]byte("select 1"), 0, 'x', 'x'),
			l:    0,
			want: "select 1",
		},
		{
			name: "varlen",
			buf:  cobol.PutVarlen([]byte("select 2  ")),
			l:    -(cobol.VarlenPrefixSize + 10),
			want: "select 2",
		},
		{
			name: "empty buffer",
			buf:  nil,
			l:    10,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cobol.HostText(tt.buf, tt.l))
		})
	}
}

func TestVarTypeIsNumeric(t *testing.T) {
	numeric := []cobol.VarType{
		cobol.TypeUnsignedNumber, cobol.TypeSignedNumberTC, cobol.TypeSignedNumberTS,
		cobol.TypeSignedNumberLC, cobol.TypeSignedNumberLS,
		cobol.TypeUnsignedPacked, cobol.TypeSignedPacked,
		cobol.TypeUnsignedBinary, cobol.TypeSignedBinary,
	}
	for _, vt := range numeric {
		assert.True(t, vt.IsNumeric(), vt.String())
	}

	assert.False(t, cobol.TypeAlphanumeric.IsNumeric())
	assert.False(t, cobol.TypeNational.IsNumeric())
	assert.False(t, cobol.TypeUnknown.IsNumeric())
}

func TestIsBinary(t *testing.T) {
	assert.True(t, cobol.IsBinary(cobol.FlagBinary))
	assert.True(t, cobol.IsBinary(cobol.FlagBinary|cobol.FlagVarlen))
	assert.False(t, cobol.IsBinary(cobol.FlagNone))
	assert.False(t, cobol.IsBinary(cobol.FlagAutoTrim))
}
