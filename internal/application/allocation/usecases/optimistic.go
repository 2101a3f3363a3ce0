package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
)

// DefaultMaxAttempts bounds how often a read-modify-replace cycle restarts on a version conflict.
const DefaultMaxAttempts = 5

func normalizeAttempts(n int) int {
	if n <= 0 {
		return DefaultMaxAttempts
	}
	return n
}

// mutateDonation loads the donation, applies fn and replaces it conditionally on the
// loaded version, restarting from a fresh read on conflict. fn reports whether it
// changed anything; unchanged donations are not written.
func mutateDonation(
	ctx context.Context,
	repo funding.DonationRepository,
	donationID string,
	maxAttempts int,
	fn func(d *funding.Donation) (bool, error),
) (*funding.Donation, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d, err := repo.GetByID(ctx, donationID)
		if err != nil {
			return nil, err
		}

		changed, err := fn(d)
		if err != nil {
			return nil, err
		}
		if !changed {
			return d, nil
		}

		err = repo.Replace(ctx, d)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, funding.ErrVersionConflict) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: donation %s after %d attempts",
		funding.ErrConcurrentModification, donationID, maxAttempts)
}
