package handlers

import (
	stderrors "errors"

	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/errors"
)

// toAppError translates domain and settlement failures into HTTP-facing errors.
// Unknown errors are returned unchanged and render as 500.
func toAppError(err error) error {
	if err == nil || errors.IsAppError(err) {
		return err
	}

	var se *ledger.SettlementError
	if stderrors.As(err, &se) {
		return settlementAppError(se)
	}

	switch {
	case stderrors.Is(err, vo.ErrInvalidAddress),
		stderrors.Is(err, vo.ErrNegativeAmount),
		stderrors.Is(err, vo.ErrMalformedAmount),
		stderrors.Is(err, vo.ErrAmountTooLarge),
		stderrors.Is(err, funding.ErrInvalidAmount):
		return errors.NewValidationError(err.Error())
	case stderrors.Is(err, funding.ErrDonationNotFound),
		stderrors.Is(err, funding.ErrAllocationNotFound),
		stderrors.Is(err, funding.ErrProjectNotFound):
		return errors.NewNotFoundError(err.Error())
	case stderrors.Is(err, funding.ErrOverAllocation),
		stderrors.Is(err, funding.ErrConflictingSettlement),
		stderrors.Is(err, funding.ErrConcurrentModification),
		stderrors.Is(err, funding.ErrInvalidAllocationState),
		stderrors.Is(err, funding.ErrDuplicateSettlementReference),
		stderrors.Is(err, vo.ErrAmountOverflow):
		return errors.NewConflictError(err.Error())
	case stderrors.Is(err, funding.ErrUnverifiedSettlement):
		return errors.NewBadRequestError(err.Error())
	}
	return err
}

func settlementAppError(se *ledger.SettlementError) error {
	var details []string
	if se.Reference != "" {
		details = append(details, "settlement_reference="+se.Reference)
	}

	switch se.Kind {
	case ledger.FailureSigningRejected, ledger.FailureInProgress:
		return errors.NewConflictError(se.Error(), details...)
	case ledger.FailureInsufficientBalance:
		return errors.NewBadRequestError(se.Error(), details...)
	case ledger.FailureNetwork, ledger.FailureRejected:
		return errors.NewUpstreamError(se.Error(), details...)
	case ledger.FailureConfirmationTimeout, ledger.FailureSubmitUnknown:
		return errors.NewTimeoutError("settlement outcome unknown, reconcile before retrying", details...)
	default:
		return errors.NewInternalError("settlement failed", details...)
	}
}
