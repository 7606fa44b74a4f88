package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esql-go/esql/cobol"
	"github.com/esql-go/esql/dberr"
)

func TestMarshalParamsPreservesOrderAndNulls(t *testing.T) {
	types := []cobol.VarType{cobol.TypeAlphanumeric, cobol.TypeUnsignedNumber, cobol.TypeAlphanumeric}
	values := [][]byte{[]byte("hello"), []byte("0042"), []byte("ignored")}
	lengths := []int{5, 4, cobol.NullLength}
	flags := []uint32{cobol.FlagNone, cobol.FlagNone, cobol.FlagNone}

	args, err := MarshalParams(types, values, lengths, flags)
	require.NoError(t, err)
	require.Len(t, args, 3)

	assert.Equal(t, "hello", args[0])
	assert.Equal(t, "0042", args[1])
	assert.Nil(t, args[2])
}

func TestMarshalParamsBinaryFlag(t *testing.T) {
	// the transmission format follows the binary flag, not the type tag
	types := []cobol.VarType{cobol.TypeAlphanumeric, cobol.TypeAlphanumeric}
	values := [][]byte{{0x00, 0x01, 0xff}, {0x41, 0x42}}
	lengths := []int{3, 2}
	flags := []uint32{cobol.FlagBinary, cobol.FlagNone}

	args, err := MarshalParams(types, values, lengths, flags)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x00, 0x01, 0xff}, args[0])
	assert.Equal(t, "AB", args[1])
}

func TestMarshalParamsCopiesExactly(t *testing.T) {
	src := []byte("abcdef")
	args, err := MarshalParams(
		[]cobol.VarType{cobol.TypeAlphanumeric},
		[][]byte{src},
		[]int{3},
		[]uint32{cobol.FlagNone},
	)
	require.NoError(t, err)
	assert.Equal(t, "abc", args[0])

	// the marshaled cell is owned, not aliased
	src[0] = 'z'
	assert.Equal(t, "abc", args[0])
}

func TestMarshalParamsTrimsNumericPadding(t *testing.T) {
	args, err := MarshalParams(
		[]cobol.VarType{cobol.TypeUnsignedNumber, cobol.TypeSignedNumberTC, cobol.TypeAlphanumeric},
		[][]byte{[]byte("  42  "), []byte(" 007"), []byte("  ab  ")},
		[]int{6, 4, 6},
		[]uint32{cobol.FlagNone, cobol.FlagNone, cobol.FlagNone},
	)
	require.NoError(t, err)

	assert.Equal(t, "42", args[0])
	assert.Equal(t, "007", args[1])

	// character data keeps its padding
	assert.Equal(t, "  ab  ", args[2])
}

func TestMarshalParamsCountMismatch(t *testing.T) {
	tests := []struct {
		name    string
		types   []cobol.VarType
		values  [][]byte
		lengths []int
		flags   []uint32
	}{
		{
			name:    "values shorter",
			types:   []cobol.VarType{cobol.TypeAlphanumeric, cobol.TypeAlphanumeric},
			values:  [][]byte{[]byte("a")},
			lengths: []int{1, 1},
			flags:   []uint32{0, 0},
		},
		{
			name:    "flags longer",
			types:   []cobol.VarType{cobol.TypeAlphanumeric},
			values:  [][]byte{[]byte("a")},
			lengths: []int{1},
			flags:   []uint32{0, 0},
		},
		{
			name:    "lengths shorter",
			types:   []cobol.VarType{cobol.TypeAlphanumeric},
			values:  [][]byte{[]byte("a")},
			lengths: nil,
			flags:   []uint32{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := MarshalParams(tt.types, tt.values, tt.lengths, tt.flags)
			assert.Nil(t, args)
			assert.True(t, dberr.IsInternal(err))
		})
	}
}

func TestMarshalParamsLengthBeyondBuffer(t *testing.T) {
	args, err := MarshalParams(
		[]cobol.VarType{cobol.TypeAlphanumeric},
		[][]byte{[]byte("ab")},
		[]int{5},
		[]uint32{0},
	)
	assert.Nil(t, args)
	assert.True(t, dberr.IsInternal(err))
}
