package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

func TestProjectRepository(t *testing.T) {
	repo := NewProjectRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()

	var key [32]byte
	key[0] = 1
	custody := vo.AddressFromPublicKey(key)

	p, err := funding.NewProject("Clean water", "org", 5_000_000, custody.String(), "water")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "Clean water", got.Title())
	assert.Equal(t, custody, got.CustodyAddress())
	assert.Equal(t, vo.Microunits(5_000_000), got.TargetAmount())

	list, err := repo.ListByOrganization(ctx, "org")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.GetByID(ctx, "prj_missing")
	assert.ErrorIs(t, err, funding.ErrProjectNotFound)
}
