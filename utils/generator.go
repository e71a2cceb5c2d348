package utils

import (
	"fmt"
	"math/rand"
	"time"
)

const certSuffixLength = 9
const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateCertificateID produces a printable certificate identifier of the
// form CERT-<millis>-<random suffix>.
func GenerateCertificateID() string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	b := make([]byte, certSuffixLength)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}

	return fmt.Sprintf("CERT-%d-%s", time.Now().UnixMilli(), string(b))
}
