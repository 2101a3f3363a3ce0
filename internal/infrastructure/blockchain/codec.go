package blockchain

import (
	"bytes"
	"crypto/sha512"
	"encoding/base32"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
)

// EncodeCanonical produces the canonical msgpack form of tx: sorted keys, empty
// fields omitted, integers in their smallest encoding.
func EncodeCanonical(tx *ledger.UnsignedTransaction) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)
	if err := enc.Encode(tx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeTransaction(raw []byte) (*ledger.UnsignedTransaction, error) {
	var tx ledger.UnsignedTransaction
	if err := msgpack.Unmarshal(raw, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

var txIDEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// TransactionID computes the id the network assigns to tx once signed: base32 of
// SHA-512/256 over the "TX" prefix and the canonical encoding.
func TransactionID(tx *ledger.UnsignedTransaction) (string, error) {
	raw, err := EncodeCanonical(tx)
	if err != nil {
		return "", err
	}
	sum := sha512.Sum512_256(append([]byte("TX"), raw...))
	return txIDEncoding.EncodeToString(sum[:]), nil
}
