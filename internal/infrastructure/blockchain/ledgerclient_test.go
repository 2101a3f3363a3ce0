package blockchain

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
)

func TestLedgerClient_SuggestedParams(t *testing.T) {
	fake := newFakeAlgod()
	client, _, _ := newTestClient(t, fake)

	params, err := client.SuggestedParams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), params.FirstValid)
	assert.Equal(t, uint64(100+ledger.ValidityWindow), params.LastValid)
	assert.Equal(t, "testnet-v1.0", params.GenesisID)
	assert.Equal(t, []byte("genesis-hash-32-bytes-long......"), params.GenesisHash)
	assert.Equal(t, vo.Microunits(1000), params.FlatFee())
}

func TestLedgerClient_SuggestedParamsRetriesTransientFailures(t *testing.T) {
	fake := newFakeAlgod()
	fake.paramsFails = 2
	client, _, _ := newTestClient(t, fake)

	_, err := client.SuggestedParams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, fake.paramsCalls)
}

func TestLedgerClient_SuggestedParamsGivesUpAfterMaxRetries(t *testing.T) {
	fake := newFakeAlgod()
	fake.paramsFails = 10
	client, _, _ := newTestClient(t, fake)

	_, err := client.SuggestedParams(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrNetwork)
	assert.Equal(t, 4, fake.paramsCalls)
}

func TestLedgerClient_GetBalance(t *testing.T) {
	fake := newFakeAlgod()
	funded := testAddress(1)
	fake.balances[funded.String()] = 2_500_000
	client, _, _ := newTestClient(t, fake)

	balance, err := client.GetBalance(context.Background(), funded)
	require.NoError(t, err)
	assert.Equal(t, vo.Microunits(2_500_000), balance)

	balance, err = client.GetBalance(context.Background(), testAddress(2))
	require.NoError(t, err, "an unfunded account reads as zero")
	assert.Zero(t, balance)
}

func TestLedgerClient_RejectsBadToken(t *testing.T) {
	fake := newFakeAlgod()
	client, algod, _ := newTestClient(t, fake)
	algod.token = "wrong"

	_, err := client.SuggestedParams(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, 1, fake.unauthorized, "4xx answers are not retried")
}

func TestLedgerClient_SubmitPayment(t *testing.T) {
	fake := newFakeAlgod()
	client, _, signer := newTestClient(t, fake)
	from, to := testAddress(1), testAddress(2)

	var signedFor string
	var signedTx *ledger.UnsignedTransaction
	signer.signFunc = func(_ context.Context, tx *ledger.UnsignedTransaction, identity string) ([]byte, error) {
		signedFor = identity
		signedTx = tx
		return []byte("signed-bytes"), nil
	}

	handle, err := client.SubmitPayment(context.Background(), ledger.PaymentOrder{
		From:   from,
		To:     to,
		Amount: 750_000,
		Note:   []byte("project water"),
	})
	require.NoError(t, err)
	assert.Equal(t, "TX1", handle.TxID)
	assert.Equal(t, uint64(100), handle.SubmittedRound)

	assert.Equal(t, from.String(), signedFor)
	require.NotNil(t, signedTx)
	assert.Equal(t, ledger.PaymentTxType, signedTx.Type)
	assert.Equal(t, uint64(750_000), signedTx.Amount)
	assert.Equal(t, uint64(1000), signedTx.Fee)
	assert.Equal(t, from.PublicKey(), signedTx.Sender)
	assert.Equal(t, to.PublicKey(), signedTx.Receiver)

	require.Len(t, fake.submitted, 1)
	assert.Equal(t, []byte("signed-bytes"), fake.submitted[0])
}

func TestLedgerClient_SubmitPaymentSignerRejection(t *testing.T) {
	fake := newFakeAlgod()
	client, _, signer := newTestClient(t, fake)
	signer.signFunc = func(context.Context, *ledger.UnsignedTransaction, string) ([]byte, error) {
		return nil, ledger.ErrSigningRejected
	}

	_, err := client.SubmitPayment(context.Background(), ledger.PaymentOrder{From: testAddress(1), To: testAddress(2), Amount: 1})
	assert.ErrorIs(t, err, ledger.ErrSigningRejected)
	assert.Empty(t, fake.submitted, "nothing reaches the network")
}

func TestLedgerClient_SubmitPaymentNodeRefusals(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		message string
		want    error
	}{
		{"overspend", 400, "TransactionPool.Remember: transaction X: overspend (account Y, data {...}, tried to spend {5})", ledger.ErrInsufficientBalance},
		{"malformed", 400, "msgpack decode error", ledger.ErrTransactionRejected},
		{"throttled", 429, "too many requests", ledger.ErrNetwork},
		{"node down", 503, "unavailable", ledger.ErrSubmitOutcomeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeAlgod()
			fake.submitCode = tt.code
			fake.submitMsg = tt.message
			client, _, signer := newTestClient(t, fake)

			_, err := client.SubmitPayment(context.Background(), ledger.PaymentOrder{From: testAddress(1), To: testAddress(2), Amount: 5})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 1, signer.calls, "submission is attempted exactly once")
		})
	}
}

func TestLedgerClient_SubmitPaymentLostAnswer(t *testing.T) {
	fake := newFakeAlgod()
	fake.dropSubmit = true
	client, _, signer := newTestClient(t, fake)

	var signedTx *ledger.UnsignedTransaction
	signer.signFunc = func(_ context.Context, tx *ledger.UnsignedTransaction, _ string) ([]byte, error) {
		signedTx = tx
		return []byte("signed-bytes"), nil
	}

	handle, err := client.SubmitPayment(context.Background(), ledger.PaymentOrder{From: testAddress(1), To: testAddress(2), Amount: 5})
	require.ErrorIs(t, err, ledger.ErrSubmitOutcomeUnknown)
	assert.False(t, ledger.NewSettlementError(err, "").Retryable)
	assert.Len(t, fake.submitted, 1, "the node took the bytes once")

	require.NotNil(t, handle)
	want, idErr := TransactionID(signedTx)
	require.NoError(t, idErr)
	assert.Equal(t, want, handle.TxID)
	assert.Equal(t, uint64(100), handle.SubmittedRound)
}

func TestTransactionID(t *testing.T) {
	tx := &ledger.UnsignedTransaction{Amount: 5, Fee: 1000, FirstValid: 100, LastValid: 1100, Type: ledger.PaymentTxType}

	id, err := TransactionID(tx)
	require.NoError(t, err)
	assert.Len(t, id, 52)
	assert.NotContains(t, id, "=")

	again, err := TransactionID(tx)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	tx.Amount = 6
	other, err := TransactionID(tx)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestLedgerClient_AwaitConfirmation(t *testing.T) {
	fake := newFakeAlgod()
	fake.confirmAt = 102
	client, _, _ := newTestClient(t, fake)
	ctx := context.Background()

	handle, err := client.SubmitPayment(ctx, ledger.PaymentOrder{From: testAddress(1), To: testAddress(2), Amount: 5})
	require.NoError(t, err)

	confirmed, err := client.AwaitConfirmation(ctx, handle, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(102), confirmed.Round)
	assert.Equal(t, 2, confirmed.RoundsWaited)
	assert.Equal(t, 2, fake.waitCalls)
}

func TestLedgerClient_AwaitConfirmationIsBoundedByRounds(t *testing.T) {
	fake := newFakeAlgod()
	client, _, _ := newTestClient(t, fake)
	ctx := context.Background()

	handle, err := client.SubmitPayment(ctx, ledger.PaymentOrder{From: testAddress(1), To: testAddress(2), Amount: 5})
	require.NoError(t, err)

	_, err = client.AwaitConfirmation(ctx, handle, 3)
	assert.ErrorIs(t, err, ledger.ErrConfirmationTimeout)
	assert.Equal(t, 3, fake.waitCalls)
	assert.Equal(t, uint64(103), fake.round)
}

func TestLedgerClient_AwaitConfirmationPoolRejection(t *testing.T) {
	fake := newFakeAlgod()
	fake.poolError = "transaction already in ledger"
	client, _, _ := newTestClient(t, fake)
	ctx := context.Background()

	handle, err := client.SubmitPayment(ctx, ledger.PaymentOrder{From: testAddress(1), To: testAddress(2), Amount: 5})
	require.NoError(t, err)

	_, err = client.AwaitConfirmation(ctx, handle, 5)
	assert.ErrorIs(t, err, ledger.ErrTransactionRejected)
	assert.Zero(t, fake.waitCalls)
}

func TestLedgerClient_AwaitConfirmationCancelled(t *testing.T) {
	fake := newFakeAlgod()
	client, _, _ := newTestClient(t, fake)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.AwaitConfirmation(ctx, &ledger.PendingHandle{TxID: "TX1", SubmittedRound: 100}, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLedgerClient_PendingStatusUnknownTransaction(t *testing.T) {
	fake := newFakeAlgod()
	client, _, _ := newTestClient(t, fake)

	status, err := client.PendingStatus(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.False(t, status.IsConfirmed())
	assert.Empty(t, status.PoolError)
}

func TestEncodeCanonical(t *testing.T) {
	tx := &ledger.UnsignedTransaction{
		Amount:     5,
		Fee:        1000,
		FirstValid: 100,
		LastValid:  1100,
		Type:       ledger.PaymentTxType,
	}

	raw, err := EncodeCanonical(tx)
	require.NoError(t, err)

	// fixmap of 5 entries, keys in order, small ints compact
	assert.Equal(t, byte(0x85), raw[0])
	assert.True(t, bytes.HasPrefix(raw[1:], []byte{0xa3, 'a', 'm', 't', 0x05}))
	assert.False(t, bytes.Contains(raw, []byte("note")), "empty fields are omitted")
	assert.Less(t, bytes.Index(raw, []byte("fee")), bytes.Index(raw, []byte("type")))

	back, err := DecodeTransaction(raw)
	require.NoError(t, err)
	assert.Equal(t, tx, back)
}
