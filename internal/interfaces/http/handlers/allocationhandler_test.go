package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/fundtrail/internal/application/allocation/usecases"
	"github.com/orris-inc/fundtrail/internal/application/settlement/ledger"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/interfaces/dto"
	"github.com/orris-inc/fundtrail/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

func TestAllocationHandler_AllocateToProject(t *testing.T) {
	d := newTestDonation(t, 10_000_000)
	a, err := d.AppendAllocation("prj_1", 4_000_000)
	require.NoError(t, err)
	_, err = d.MarkAllocationSettled(a.ID(), "TXALLOC")
	require.NoError(t, err)
	settled, _ := d.Allocation(a.ID())

	var got usecases.AllocateToProjectCommand
	allocate := &mockAllocateUC{fn: func(ctx context.Context, cmd usecases.AllocateToProjectCommand) (*usecases.AllocateToProjectResult, error) {
		got = cmd
		return &usecases.AllocateToProjectResult{DonationID: d.ID(), Allocation: settled, Reference: "TXALLOC"}, nil
	}}
	h := NewAllocationHandler(allocate, nil, nil, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/allocations", map[string]any{
		"project_id":          "prj_1",
		"amount":              "4",
		"confirmation_budget": 7,
	})
	h.AllocateToProject(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, vo.Microunits(4_000_000), got.Amount)
	assert.Equal(t, 7, got.ConfirmationBudget)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var body dto.AllocateResultDTO
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, "TXALLOC", body.Reference)
	assert.Equal(t, "completed", body.Allocation.Status)
}

func TestAllocationHandler_AllocateOutcomeUnknown(t *testing.T) {
	d := newTestDonation(t, 10_000_000)
	a, err := d.AppendAllocation("prj_1", 4_000_000)
	require.NoError(t, err)

	allocate := &mockAllocateUC{fn: func(ctx context.Context, cmd usecases.AllocateToProjectCommand) (*usecases.AllocateToProjectResult, error) {
		return &usecases.AllocateToProjectResult{DonationID: d.ID(), Allocation: a},
			ledger.NewSettlementError(ledger.ErrConfirmationTimeout, "TXMAYBE")
	}}
	h := NewAllocationHandler(allocate, nil, nil, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/allocations", map[string]any{
		"project_id": "prj_1",
		"amount":     "4",
	})
	h.AllocateToProject(c)

	require.Equal(t, http.StatusGatewayTimeout, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Contains(t, resp.Error.Details, "TXMAYBE")
	assert.Contains(t, resp.Error.Details, "allocation_id="+a.ID())
}

func TestAllocationHandler_AllocateOverAllocation(t *testing.T) {
	allocate := &mockAllocateUC{fn: func(ctx context.Context, cmd usecases.AllocateToProjectCommand) (*usecases.AllocateToProjectResult, error) {
		return nil, funding.ErrOverAllocation
	}}
	h := NewAllocationHandler(allocate, nil, nil, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/allocations", map[string]any{
		"project_id": "prj_1",
		"amount":     "400",
	})
	h.AllocateToProject(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAllocationHandler_AppendAllocation(t *testing.T) {
	d := newTestDonation(t, 10_000_000)
	var got usecases.AppendAllocationCommand
	appendUC := &mockAppendUC{fn: func(ctx context.Context, cmd usecases.AppendAllocationCommand) (*funding.Allocation, error) {
		got = cmd
		return d.AppendAllocation(cmd.ProjectID, cmd.Amount)
	}}
	h := NewAllocationHandler(nil, appendUC, nil, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/donations/"+d.ID()+"/allocations", map[string]any{
		"project_id": "prj_9",
		"amount":     "0.000001",
	})
	testutil.SetURLParam(c, "id", d.ID())
	h.AppendAllocation(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, d.ID(), got.DonationID)
	assert.Equal(t, vo.Microunits(1), got.Amount)
}

func TestAllocationHandler_MarkSettledConflict(t *testing.T) {
	markSettled := &mockMarkSettledUC{fn: func(ctx context.Context, cmd usecases.MarkAllocationSettledCommand) (*funding.Allocation, error) {
		return nil, funding.ErrConflictingSettlement
	}}
	h := NewAllocationHandler(nil, nil, markSettled, nil, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/donations/don_1/allocations/alc_1/settle", map[string]any{
		"settlement_reference": "TXOTHER",
	})
	testutil.SetURLParam(c, "id", "don_1")
	testutil.SetURLParam(c, "allocationId", "alc_1")
	h.MarkSettled(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAllocationHandler_Abandon(t *testing.T) {
	d := newTestDonation(t, 10_000_000)
	a, err := d.AppendAllocation("prj_1", 1_000_000)
	require.NoError(t, err)

	var got usecases.AbandonAllocationCommand
	abandon := &mockAbandonUC{fn: func(ctx context.Context, cmd usecases.AbandonAllocationCommand) (*funding.Allocation, error) {
		got = cmd
		if _, err := d.AbandonAllocation(cmd.AllocationID, cmd.Reason); err != nil {
			return nil, err
		}
		updated, _ := d.Allocation(cmd.AllocationID)
		return updated, nil
	}}
	h := NewAllocationHandler(nil, nil, nil, abandon, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/donations/x/allocations/y/abandon", map[string]any{
		"reason": "project cancelled",
	})
	testutil.SetURLParam(c, "id", d.ID())
	testutil.SetURLParam(c, "allocationId", a.ID())
	h.Abandon(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "project cancelled", got.Reason)
	assert.Contains(t, w.Body.String(), `"status":"abandoned"`)
}

func TestAllocationHandler_AbandonRequiresReason(t *testing.T) {
	h := NewAllocationHandler(nil, nil, nil, &mockAbandonUC{}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/donations/x/allocations/y/abandon", map[string]any{})
	testutil.SetURLParam(c, "id", "don_1")
	testutil.SetURLParam(c, "allocationId", "alc_1")
	h.Abandon(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
