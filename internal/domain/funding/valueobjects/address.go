package valueobjects

import (
	"bytes"
	"crypto/sha512"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
)

const (
	// AddressLength is the length of the textual form of an account address.
	AddressLength = 58

	publicKeyLength = 32
	checksumLength  = 4
)

var ErrInvalidAddress = errors.New("invalid ledger address")

var addressEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Address is a checksummed ledger account address: base32 of the 32-byte public key
// followed by the last 4 bytes of its SHA-512/256 digest.
type Address string

// ParseAddress validates s syntactically. It never contacts the network.
func ParseAddress(s string) (Address, error) {
	if len(s) != AddressLength || strings.ToUpper(s) != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	raw, err := addressEncoding.DecodeString(s)
	if err != nil || len(raw) != publicKeyLength+checksumLength {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	pub, checksum := raw[:publicKeyLength], raw[publicKeyLength:]
	if !bytes.Equal(addressChecksum(pub), checksum) {
		return "", fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}

	return Address(s), nil
}

func IsValidAddress(s string) bool {
	_, err := ParseAddress(s)
	return err == nil
}

// AddressFromPublicKey encodes a public key with its checksum.
func AddressFromPublicKey(pub [publicKeyLength]byte) Address {
	buf := make([]byte, 0, publicKeyLength+checksumLength)
	buf = append(buf, pub[:]...)
	buf = append(buf, addressChecksum(pub[:])...)
	return Address(addressEncoding.EncodeToString(buf))
}

func addressChecksum(pub []byte) []byte {
	sum := sha512.Sum512_256(pub)
	return sum[len(sum)-checksumLength:]
}

func (a Address) String() string {
	return string(a)
}

// PublicKey returns the 32-byte key the address encodes. The address must already be validated.
func (a Address) PublicKey() []byte {
	raw, err := addressEncoding.DecodeString(string(a))
	if err != nil || len(raw) < publicKeyLength {
		return nil
	}
	return raw[:publicKeyLength]
}
