package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	DefaultLength = 12
)

// Stripe-style prefixes for the records this service owns.
const (
	PrefixDonation   = "don"
	PrefixAllocation = "alc"
	PrefixProject    = "prj"
)

// Generate creates a cryptographically random base62 string.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	n := big.NewInt(int64(len(alphabet)))
	for i := range result {
		num, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}
	return string(result), nil
}

// GenerateWithPrefix returns "prefix_randomstring".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	s, err := Generate(length)
	if err != nil {
		return "", err
	}
	return prefix + "_" + s, nil
}

func NewDonationID() (string, error) {
	return GenerateWithPrefix(PrefixDonation, DefaultLength)
}

func NewAllocationID() (string, error) {
	return GenerateWithPrefix(PrefixAllocation, DefaultLength)
}

func NewProjectID() (string, error) {
	return GenerateWithPrefix(PrefixProject, DefaultLength)
}

// ValidatePrefix checks that prefixedID looks like "<expected>_<shortid>".
func ValidatePrefix(prefixedID, expected string) error {
	prefix, rest, ok := strings.Cut(prefixedID, "_")
	if !ok || rest == "" {
		return fmt.Errorf("invalid prefixed ID format: %s", prefixedID)
	}
	if prefix != expected {
		return fmt.Errorf("invalid prefix: expected %s, got %s", expected, prefix)
	}
	return nil
}
