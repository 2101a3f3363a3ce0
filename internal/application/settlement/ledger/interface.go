// Package ledger defines the boundary to the round-based ledger network and to the
// signing collaborator. Nothing here talks to the network; adapters live in
// infrastructure/blockchain.
package ledger

import (
	"context"

	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
)

const (
	// PaymentTxType is the transaction type tag for a plain payment.
	PaymentTxType = "pay"

	// EstimatedPaymentSize is the signed size in bytes used to turn a per-byte fee into a flat fee.
	EstimatedPaymentSize = 256

	// ValidityWindow is how many rounds after the current one a transaction stays valid.
	ValidityWindow = 1000
)

// NetworkParams are the suggested transaction parameters for the current round.
type NetworkParams struct {
	// Fee is the suggested fee per byte; it can be zero when the network is not congested.
	Fee         uint64
	MinFee      uint64
	FirstValid  uint64
	LastValid   uint64
	GenesisID   string
	GenesisHash []byte
	LastRound   uint64
}

// FlatFee is what a payment of EstimatedPaymentSize bytes pays, never below MinFee.
func (p *NetworkParams) FlatFee() vo.Microunits {
	fee := p.Fee * EstimatedPaymentSize
	if fee < p.MinFee {
		fee = p.MinFee
	}
	return vo.Microunits(fee)
}

// PaymentOrder moves Amount from From to To. From is also the identity the signer signs for.
type PaymentOrder struct {
	From   vo.Address
	To     vo.Address
	Amount vo.Microunits
	Note   []byte
}

// UnsignedTransaction is the canonical payment body. Field order is alphabetical by
// wire key, which is the order the canonical msgpack encoding requires.
type UnsignedTransaction struct {
	Amount      uint64 `msgpack:"amt,omitempty"`
	Fee         uint64 `msgpack:"fee,omitempty"`
	FirstValid  uint64 `msgpack:"fv,omitempty"`
	GenesisID   string `msgpack:"gen,omitempty"`
	GenesisHash []byte `msgpack:"gh,omitempty"`
	LastValid   uint64 `msgpack:"lv,omitempty"`
	Note        []byte `msgpack:"note,omitempty"`
	Receiver    []byte `msgpack:"rcv,omitempty"`
	Sender      []byte `msgpack:"snd,omitempty"`
	Type        string `msgpack:"type,omitempty"`
}

// NewPaymentTransaction fills a payment from fresh network params.
func NewPaymentTransaction(order PaymentOrder, params *NetworkParams) *UnsignedTransaction {
	lastValid := params.LastValid
	if lastValid == 0 {
		lastValid = params.FirstValid + ValidityWindow
	}
	return &UnsignedTransaction{
		Amount:      order.Amount.Uint64(),
		Fee:         params.FlatFee().Uint64(),
		FirstValid:  params.FirstValid,
		GenesisID:   params.GenesisID,
		GenesisHash: params.GenesisHash,
		LastValid:   lastValid,
		Note:        order.Note,
		Receiver:    order.To.PublicKey(),
		Sender:      order.From.PublicKey(),
		Type:        PaymentTxType,
	}
}

// PendingHandle identifies a transaction the network accepted into its pool.
type PendingHandle struct {
	TxID string
	// SubmittedRound is the last round the network reported when the transaction was accepted.
	SubmittedRound uint64
}

// ConfirmedRound is where a transaction landed and how many rounds the wait took.
type ConfirmedRound struct {
	Round        uint64
	RoundsWaited int
}

// PendingStatus is the pool's view of a transaction.
type PendingStatus struct {
	ConfirmedRound uint64
	// PoolError is non-empty when the network dropped the transaction from its pool.
	PoolError string
}

func (s *PendingStatus) IsConfirmed() bool {
	return s.ConfirmedRound > 0
}

// Client is the ledger network as the settlement path sees it. Implementations must be
// safe for concurrent use.
type Client interface {
	SuggestedParams(ctx context.Context) (*NetworkParams, error)
	// GetBalance reports zero for an account the network has never seen.
	GetBalance(ctx context.Context, address vo.Address) (vo.Microunits, error)
	// SubmitPayment returns as soon as the network accepts the transaction. It does not wait for confirmation.
	// An ErrSubmitOutcomeUnknown failure may come with a handle naming the transaction to reconcile.
	SubmitPayment(ctx context.Context, order PaymentOrder) (*PendingHandle, error)
	// AwaitConfirmation waits at most maxRounds ledger rounds, never wall-clock time.
	AwaitConfirmation(ctx context.Context, handle *PendingHandle, maxRounds int) (*ConfirmedRound, error)
	PendingStatus(ctx context.Context, txID string) (*PendingStatus, error)
}

// Signer produces signed transaction bytes for signerIdentity. It fails with
// ErrSigningRejected when the holder declines.
type Signer interface {
	Sign(ctx context.Context, tx *UnsignedTransaction, signerIdentity string) ([]byte, error)
}
