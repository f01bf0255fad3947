package utils

import (
	"encoding/binary"
	"time"
	"unsafe"
)

// StringToBytes converts string to a byte slice without any memory allocation.
// The result must not be modified.
func StringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// BytesToString converts byte slice to a string without any memory allocation.
// b must not be modified afterwards.
func BytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// Int64ToBytesByBigEndian converts int64 to a big-endian byte slice, so
// that byte order matches numeric order for non-negative values.
func Int64ToBytesByBigEndian(n int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(n))
	return b
}

// BytesToInt64ByBigEndian converts a big-endian byte slice to int64.
func BytesToInt64ByBigEndian(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

// ToDuration converts a seconds setting to a time.Duration.
func ToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// ToDurationMs converts a milliseconds setting to a time.Duration.
func ToDurationMs(millis int) time.Duration {
	return time.Duration(millis) * time.Millisecond
}
