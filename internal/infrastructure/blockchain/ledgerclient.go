package blockchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

// LedgerClient implements ledger.Client on top of an algod node and a signer.
type LedgerClient struct {
	algod  *AlgodClient
	signer ledger.Signer
	logger logger.Interface
}

func NewLedgerClient(algod *AlgodClient, signer ledger.Signer, logger logger.Interface) *LedgerClient {
	return &LedgerClient{
		algod:  algod,
		signer: signer,
		logger: logger,
	}
}

var _ ledger.Client = (*LedgerClient)(nil)

func (c *LedgerClient) SuggestedParams(ctx context.Context) (*ledger.NetworkParams, error) {
	p, err := c.algod.TransactionParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggested params: %w", err)
	}
	return &ledger.NetworkParams{
		Fee:         p.Fee,
		MinFee:      p.MinFee,
		FirstValid:  p.LastRound,
		LastValid:   p.LastRound + ledger.ValidityWindow,
		GenesisID:   p.GenesisID,
		GenesisHash: p.GenesisHash,
		LastRound:   p.LastRound,
	}, nil
}

func (c *LedgerClient) GetBalance(ctx context.Context, address vo.Address) (vo.Microunits, error) {
	amount, err := c.algod.AccountAmount(ctx, address.String())
	if err != nil {
		return 0, fmt.Errorf("failed to read balance of %s: %w", address, err)
	}
	return vo.Microunits(amount), nil
}

// SubmitPayment fetches fresh params, has the order signed for its sender and
// hands the signed bytes to the node. When the node's answer is lost the handle
// carries the locally computed transaction id next to the error.
func (c *LedgerClient) SubmitPayment(ctx context.Context, order ledger.PaymentOrder) (*ledger.PendingHandle, error) {
	params, err := c.SuggestedParams(ctx)
	if err != nil {
		return nil, err
	}

	tx := ledger.NewPaymentTransaction(order, params)
	signed, err := c.signer.Sign(ctx, tx, order.From.String())
	if err != nil {
		return nil, fmt.Errorf("failed to sign payment: %w", err)
	}

	txID, err := c.algod.SendRawTransaction(ctx, signed)
	if err != nil {
		err = fmt.Errorf("failed to submit payment: %w", err)
		if !errors.Is(err, ledger.ErrSubmitOutcomeUnknown) {
			return nil, err
		}
		localID, idErr := TransactionID(tx)
		if idErr != nil {
			return nil, err
		}
		c.logger.Warnw("submit answer lost, transaction may be in the pool",
			"tx_id", localID,
			"last_valid", tx.LastValid,
			"error", err,
		)
		return &ledger.PendingHandle{TxID: localID, SubmittedRound: params.LastRound}, err
	}

	c.logger.Debugw("payment accepted into pool",
		"tx_id", txID,
		"first_valid", tx.FirstValid,
		"last_valid", tx.LastValid,
		"fee", tx.Fee,
	)
	return &ledger.PendingHandle{TxID: txID, SubmittedRound: params.LastRound}, nil
}

// AwaitConfirmation checks the pool once per round, for at most maxRounds rounds.
func (c *LedgerClient) AwaitConfirmation(ctx context.Context, handle *ledger.PendingHandle, maxRounds int) (*ledger.ConfirmedRound, error) {
	round := handle.SubmittedRound
	if round == 0 {
		st, err := c.algod.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read node status: %w", err)
		}
		round = st.LastRound
	}

	for waited := 0; ; waited++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("waiting for %s: %w", handle.TxID, err)
		}

		status, err := c.PendingStatus(ctx, handle.TxID)
		if err != nil {
			return nil, err
		}
		if status.IsConfirmed() {
			return &ledger.ConfirmedRound{Round: status.ConfirmedRound, RoundsWaited: waited}, nil
		}
		if status.PoolError != "" {
			return nil, fmt.Errorf("%w: %s", ledger.ErrTransactionRejected, status.PoolError)
		}

		if waited >= maxRounds {
			return nil, fmt.Errorf("%w: %s after %d rounds", ledger.ErrConfirmationTimeout, handle.TxID, waited)
		}

		st, err := c.algod.StatusAfterBlock(ctx, round)
		if err != nil {
			return nil, fmt.Errorf("failed waiting for round after %d: %w", round, err)
		}
		if st.LastRound > round {
			round = st.LastRound
		} else {
			round++
		}
	}
}

func (c *LedgerClient) PendingStatus(ctx context.Context, txID string) (*ledger.PendingStatus, error) {
	p, err := c.algod.PendingTransaction(ctx, txID)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending status of %s: %w", txID, err)
	}
	return &ledger.PendingStatus{ConfirmedRound: p.ConfirmedRound, PoolError: p.PoolError}, nil
}
