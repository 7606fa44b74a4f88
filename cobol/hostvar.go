package cobol

import (
	"encoding/binary"
	"strings"
)

// VarlenPrefixSize is the size in bytes of the length prefix that heads a
// variable-length host buffer.
const VarlenPrefixSize = 2

// VarlenData returns the payload of a variable-length host buffer: the
// first two bytes hold the actual length in the machine's native byte
// order, the payload follows.
func VarlenData(buf []byte) []byte {
	if len(buf) < VarlenPrefixSize {
		return nil
	}
	n := int(binary.NativeEndian.Uint16(buf[:VarlenPrefixSize]))
	data := buf[VarlenPrefixSize:]
	if n > len(data) {
		n = len(data)
	}
	return data[:n]
}

// PutVarlen encodes data into a variable-length host buffer.
func PutVarlen(data []byte) []byte {
	buf := make([]byte, VarlenPrefixSize+len(data))
	binary.NativeEndian.PutUint16(buf[:VarlenPrefixSize], uint16(len(data)))
	copy(buf[VarlenPrefixSize:], data)
	return buf
}

// HostText extracts a SQL text from a host-variable buffer. A positive
// length denotes a fixed-length field whose content is space-trimmed, a
// zero length denotes a NUL-terminated buffer, and a negative length
// denotes a variable-length buffer of total size -l whose payload is
// length-prefixed.
func HostText(buf []byte, l int) string {
	if len(buf) == 0 {
		return ""
	}

	switch {
	case l == 0:
		if i := strings.IndexByte(string(buf), 0); i >= 0 {
			return string(buf[:i])
		}
		return string(buf)

	case l > 0:
		if l > len(buf) {
			l = len(buf)
		}
		return strings.TrimSpace(string(buf[:l]))

	default:
		total := -l
		if total > len(buf) {
			total = len(buf)
		}
		return strings.TrimSpace(string(VarlenData(buf[:total])))
	}
}
