package codec

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Checksum returns the xxHash64 of the UTF-8 bytes of data as 16 lowercase
// hex digits. Backup records written by any version use this exact form.
func Checksum(data string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(data))
}

// VerifyChecksum returns true if sum matches the checksum of data.
func VerifyChecksum(data, sum string) bool {
	return Checksum(data) == sum
}
