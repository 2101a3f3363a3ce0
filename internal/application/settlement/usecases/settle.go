package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/orris-inc/fundtrail/internal/application/settlement/idempotency"
	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

const (
	// DefaultConfirmationBudget is used when a caller passes a non-positive budget.
	DefaultConfirmationBudget = 10
	// maxConfirmationBudget keeps a misconfigured caller from waiting for hours.
	maxConfirmationBudget = 1000

	maxNoteBytes = 1024
)

// SettlementRequest asks to move funds on the ledger network.
type SettlementRequest struct {
	// FromIdentity is the sender address; the signer signs on its behalf.
	FromIdentity string
	ToAddress    string
	Amount       vo.Microunits
	Note         string
	// IdempotencyKey is optional. Two requests with the same key never both reach the network.
	IdempotencyKey string
}

type SettlementResult struct {
	Reference      string
	ConfirmedRound uint64
	// Replayed is true when the result was recorded by an earlier request with the same key.
	Replayed bool
}

// SettlementMetrics receives one outcome per Execute call.
type SettlementMetrics interface {
	RecordOutcome(outcome string)
	ObserveConfirmationRounds(rounds int)
}

type noopMetrics struct{}

func (noopMetrics) RecordOutcome(string)          {}
func (noopMetrics) ObserveConfirmationRounds(int) {}

const (
	OutcomeConfirmed = "confirmed"
	OutcomeReplayed  = "replayed"
	OutcomeInvalid   = "invalid_request"
)

// SettleUseCase drives one payment from validation to confirmation. It does not
// deduplicate by itself; only the optional idempotency store does.
type SettleUseCase struct {
	client  ledger.Client
	store   idempotency.Store
	metrics SettlementMetrics
	logger  logger.Interface
}

// NewSettleUseCase accepts a nil store (no deduplication) and nil metrics.
func NewSettleUseCase(
	client ledger.Client,
	store idempotency.Store,
	metrics SettlementMetrics,
	logger logger.Interface,
) *SettleUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &SettleUseCase{
		client:  client,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

func normalizeBudget(budget int) int {
	if budget <= 0 {
		return DefaultConfirmationBudget
	}
	if budget > maxConfirmationBudget {
		return maxConfirmationBudget
	}
	return budget
}

// Execute validates, pre-flights the sender balance, submits and waits up to
// confirmationBudget rounds. Failures after validation are *ledger.SettlementError.
func (uc *SettleUseCase) Execute(ctx context.Context, req SettlementRequest, confirmationBudget int) (*SettlementResult, error) {
	from, to, err := uc.validate(req)
	if err != nil {
		uc.metrics.RecordOutcome(OutcomeInvalid)
		return nil, err
	}
	budget := normalizeBudget(confirmationBudget)

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" && uc.store != nil {
		record, reserved, err := uc.store.Begin(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
		}
		if !reserved {
			return uc.replay(key, record)
		}
	} else {
		key = ""
	}

	log := uc.logger.With("from", from, "to", to, "amount", req.Amount)

	params, err := uc.client.SuggestedParams(ctx)
	if err != nil {
		return nil, uc.fail(ctx, key, "", err)
	}

	balance, err := uc.client.GetBalance(ctx, from)
	if err != nil {
		return nil, uc.fail(ctx, key, "", err)
	}
	fee := params.FlatFee()
	required, err := req.Amount.Add(fee)
	if err != nil || balance < required {
		log.Warnw("sender balance does not cover amount plus fee",
			"balance", balance,
			"fee", fee,
		)
		return nil, uc.fail(ctx, key, "", fmt.Errorf("%w: balance %d, need %d", ledger.ErrInsufficientBalance, balance, required))
	}

	handle, err := uc.client.SubmitPayment(ctx, ledger.PaymentOrder{
		From:   from,
		To:     to,
		Amount: req.Amount,
		Note:   []byte(req.Note),
	})
	if err != nil {
		reference := ""
		if handle != nil && errors.Is(err, ledger.ErrSubmitOutcomeUnknown) {
			reference = handle.TxID
			if key != "" {
				if markErr := uc.store.MarkSubmitted(ctx, key, reference); markErr != nil {
					log.Errorw("failed to record submitted settlement", "key", key, "error", markErr)
				}
			}
		}
		return nil, uc.fail(ctx, key, reference, err)
	}

	log = log.With("tx_id", handle.TxID)
	log.Infow("payment submitted", "submitted_round", handle.SubmittedRound)

	if key != "" {
		if err := uc.store.MarkSubmitted(ctx, key, handle.TxID); err != nil {
			log.Errorw("failed to record submitted settlement", "key", key, "error", err)
		}
	}

	confirmed, err := uc.client.AwaitConfirmation(ctx, handle, budget)
	if err != nil {
		if errors.Is(err, ledger.ErrConfirmationTimeout) {
			log.Warnw("payment not confirmed within budget, reconcile before retrying", "budget_rounds", budget)
		}
		return nil, uc.fail(ctx, key, handle.TxID, err)
	}

	if key != "" {
		if err := uc.store.Complete(ctx, key, handle.TxID, confirmed.Round); err != nil {
			log.Errorw("failed to record completed settlement", "key", key, "error", err)
		}
	}

	uc.metrics.RecordOutcome(OutcomeConfirmed)
	uc.metrics.ObserveConfirmationRounds(confirmed.RoundsWaited)
	log.Infow("payment confirmed",
		"confirmed_round", confirmed.Round,
		"rounds_waited", confirmed.RoundsWaited,
	)

	return &SettlementResult{
		Reference:      handle.TxID,
		ConfirmedRound: confirmed.Round,
	}, nil
}

func (uc *SettleUseCase) validate(req SettlementRequest) (vo.Address, vo.Address, error) {
	from, err := vo.ParseAddress(req.FromIdentity)
	if err != nil {
		return "", "", fmt.Errorf("sender: %w", err)
	}
	to, err := vo.ParseAddress(req.ToAddress)
	if err != nil {
		return "", "", fmt.Errorf("receiver: %w", err)
	}
	if req.Amount.IsZero() {
		return "", "", funding.ErrInvalidAmount
	}
	if len(req.Note) > maxNoteBytes {
		return "", "", fmt.Errorf("note exceeds %d bytes", maxNoteBytes)
	}
	return from, to, nil
}

func (uc *SettleUseCase) replay(key string, record *idempotency.Record) (*SettlementResult, error) {
	if record != nil && record.Status == idempotency.StatusCompleted {
		uc.metrics.RecordOutcome(OutcomeReplayed)
		uc.logger.Infow("settlement replayed from idempotency record",
			"key", key,
			"tx_id", record.Reference,
		)
		return &SettlementResult{
			Reference:      record.Reference,
			ConfirmedRound: record.ConfirmedRound,
			Replayed:       true,
		}, nil
	}

	reference := ""
	if record != nil {
		reference = record.Reference
	}
	se := ledger.NewSettlementError(ledger.ErrSettlementInProgress, reference)
	uc.metrics.RecordOutcome(string(se.Kind))
	return nil, se
}

// fail records the outcome and decides what happens to the idempotency reservation:
// it is released only when nothing reached the network, or the network refused it.
func (uc *SettleUseCase) fail(ctx context.Context, key, reference string, err error) error {
	se := ledger.NewSettlementError(err, reference)
	uc.metrics.RecordOutcome(string(se.Kind))

	if key != "" && canRelease(se) {
		if relErr := uc.store.Release(ctx, key); relErr != nil {
			uc.logger.Errorw("failed to release idempotency key", "key", key, "error", relErr)
		}
	}

	switch se.Kind {
	case ledger.FailureConfirmationTimeout:
	case ledger.FailureSubmitUnknown:
		uc.logger.Warnw("submission outcome unknown, reconcile before retrying",
			"key", key,
			"tx_id", reference,
			"error", err,
		)
	default:
		uc.logger.Errorw("settlement failed",
			"kind", se.Kind,
			"tx_id", reference,
			"error", err,
		)
	}
	return se
}

func canRelease(se *ledger.SettlementError) bool {
	switch se.Kind {
	case ledger.FailureRejected:
		return true
	case ledger.FailureSubmitUnknown:
		return false
	}
	return se.Reference == ""
}
