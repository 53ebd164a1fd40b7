package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const certificateCodePrefix = "CERT"

// GenerateCertificateCode builds a human-readable code of the form
// CERT-<base36 millis>-<random hex>. Uniqueness is probabilistic; the
// certificates.code unique index is the actual guarantee, and a
// collision there surfaces as a conflict instead of being retried.
func GenerateCertificateCode() (string, error) {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%s", certificateCodePrefix, ts, strings.ToUpper(hex.EncodeToString(b))), nil
}
