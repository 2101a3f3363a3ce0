package handlers

import (
	"context"

	"github.com/orris-inc/fundtrail/internal/application/allocation/usecases"
	"github.com/orris-inc/fundtrail/internal/domain/funding"
)

// Use case interfaces for AllocationHandler

type allocateToProjectUseCase interface {
	Execute(ctx context.Context, cmd usecases.AllocateToProjectCommand) (*usecases.AllocateToProjectResult, error)
}

type appendAllocationUseCase interface {
	Execute(ctx context.Context, cmd usecases.AppendAllocationCommand) (*funding.Allocation, error)
}

type markAllocationSettledUseCase interface {
	Execute(ctx context.Context, cmd usecases.MarkAllocationSettledCommand) (*funding.Allocation, error)
}

type abandonAllocationUseCase interface {
	Execute(ctx context.Context, cmd usecases.AbandonAllocationCommand) (*funding.Allocation, error)
}
