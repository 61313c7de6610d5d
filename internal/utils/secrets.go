package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength   = 8
)

// GenerateReference returns a display-only booking reference of 8 [A-Z0-9] characters.
// It is not stored anywhere and carries no uniqueness guarantee.
func GenerateReference() string {
	ref, err := randomString(referenceAlphabet, referenceLength)
	if err != nil {
		return fallbackReference()
	}
	return ref
}

func randomString(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}

	return b.String(), nil
}

// fallbackReference derives a code from the clock when the RNG is unavailable
func fallbackReference() string {
	code := strings.ToUpper(strconv.FormatInt(time.Now().UnixNano(), 36))
	if len(code) > referenceLength {
		code = code[len(code)-referenceLength:]
	}
	return fmt.Sprintf("%0*s", referenceLength, code)
}
