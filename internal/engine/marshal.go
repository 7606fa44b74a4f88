package engine

import (
	"fmt"
	"strings"

	"github.com/esql-go/esql/cobol"
	"github.com/esql-go/esql/dberr"
)

// MarshalParams converts COBOL-typed host-variable buffers into the
// backend-native argument vector. The four input vectors must have
// identical length; a mismatch is a contract violation detected before
// anything reaches the backend.
//
// A length equal to cobol.NullLength binds SQL NULL. Otherwise exactly
// length bytes are copied out of the host buffer into an owned cell:
// binary-flagged parameters travel as []byte, everything else as string.
// Numeric host variables arrive as fixed-width display text; their space
// padding is not part of the number and is stripped before binding.
func MarshalParams(types []cobol.VarType, values [][]byte, lengths []int, flags []uint32) ([]any, error) {
	n := len(types)
	if len(values) != n || len(lengths) != n || len(flags) != n {
		return nil, dberr.New(dberr.ErrInternal, dberr.CodeInternal, dberr.StateGeneral,
			fmt.Sprintf("parameter count mismatch: types=%d values=%d lengths=%d flags=%d",
				n, len(values), len(lengths), len(flags)))
	}

	args := make([]any, n)
	for i := 0; i < n; i++ {
		if lengths[i] == cobol.NullLength {
			args[i] = nil
			continue
		}

		l := lengths[i]
		if l < 0 || l > len(values[i]) {
			return nil, dberr.New(dberr.ErrInternal, dberr.CodeInternal, dberr.StateGeneral,
				fmt.Sprintf("parameter %d: length %d exceeds buffer size %d", i, l, len(values[i])))
		}

		cell := make([]byte, l)
		copy(cell, values[i][:l])

		switch {
		case cobol.IsBinary(flags[i]):
			args[i] = cell
		case types[i].IsNumeric():
			args[i] = strings.TrimSpace(string(cell))
		default:
			args[i] = string(cell)
		}
	}

	return args, nil
}
