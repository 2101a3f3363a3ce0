package funding

import "errors"

var (
	ErrOverAllocation         = errors.New("allocation exceeds the donation's remaining amount")
	ErrConflictingSettlement  = errors.New("allocation already settled with a different reference")
	ErrConcurrentModification = errors.New("donation kept changing underneath the update")
	ErrInvalidAllocationState = errors.New("allocation is not in a state that allows this transition")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrUnverifiedSettlement   = errors.New("settlement reference is not confirmed on the ledger")

	ErrDonationNotFound   = errors.New("donation not found")
	ErrAllocationNotFound = errors.New("allocation not found")
	ErrProjectNotFound    = errors.New("project not found")

	// ErrVersionConflict is returned by a store when the version token no longer matches.
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicateSettlementReference means one funding transaction already backs another donation.
	ErrDuplicateSettlementReference = errors.New("settlement reference already recorded")
)
