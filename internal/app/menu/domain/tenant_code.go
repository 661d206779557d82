package domain

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// TenantCodeLength is the length of the public short code of a storefront.
const TenantCodeLength = 5

const tenantCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NormalizeTenantCode trims and lower-cases a code taken from a public route.
func NormalizeTenantCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ValidTenantCode reports whether code is exactly five lowercase alphanumerics.
func ValidTenantCode(code string) bool {
	if len(code) != TenantCodeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(tenantCodeAlphabet, r) {
			return false
		}
	}
	return true
}

// DeriveTenantCode builds the deterministic code for an identity: the last five
// alphanumeric characters, lower-cased. Identities shorter than that are padded
// on the left with zeros.
func DeriveTenantCode(identity string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(identity) {
		if strings.ContainsRune(tenantCodeAlphabet, r) {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) >= TenantCodeLength {
		return s[len(s)-TenantCodeLength:]
	}
	return strings.Repeat("0", TenantCodeLength-len(s)) + s
}

// RandomTenantCode generates a code from crypto/rand, as done at signup.
func RandomTenantCode() (string, error) {
	out := make([]byte, TenantCodeLength)
	limit := big.NewInt(int64(len(tenantCodeAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = tenantCodeAlphabet[n.Int64()]
	}
	return string(out), nil
}
