package files

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	publicIDPrefix = "tl"
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength   = 4
)

// GeneratePublicID creates a new public identifier of the form
// tl_<base36 millis>_<random base36 suffix>. The timestamp component keeps
// ids roughly sortable; the suffix makes same-millisecond collisions
// negligible.
func GeneratePublicID() (string, error) {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)

	var suffix strings.Builder
	for i := 0; i < suffixLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36Alphabet))))
		if err != nil {
			return "", fmt.Errorf("generating id suffix: %w", err)
		}
		suffix.WriteByte(base36Alphabet[n.Int64()])
	}

	return fmt.Sprintf("%s_%s_%s", publicIDPrefix, timestamp, suffix.String()), nil
}

// FileExtension returns the substring from the last dot of the filename to
// its end, or "" when the filename has no dot.
func FileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return filename[idx:]
}
