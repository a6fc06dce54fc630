// Package commands contains the operations that run assignments or change the
// carrier roster. Every command is built through its constructor and checked by
// its handler before any work starts.
package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/ports"
)

// Unit of Work interfaces give handlers transactional access to the roster.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// CarrierRepoFactory provides access to the carrier repository within a transaction.
	CarrierRepoFactory interface {
		CarrierRepository() ports.CarrierRepository
	}

	// CarrierUoW manages transactions for roster operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   err = uow.CarrierRepository().Add(ctx, c)
	//   err = uow.Commit(ctx)
	CarrierUoW interface {
		TxManager
		CarrierRepoFactory
	}

	// CarrierUoWFactory creates new carrier unit of work instances.
	CarrierUoWFactory interface {
		Create() CarrierUoW
	}
)

// nopRecorder stands in when a handler is built without metrics.
type nopRecorder struct{}

func (nopRecorder) RecordRun(string, []assignment.Result, time.Duration, error) {}
