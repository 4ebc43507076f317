package service

import (
	"context"
	"errors"
	"fmt"

	"nishtha/internal/logger"
	"nishtha/internal/model"
	"nishtha/internal/player"
	"nishtha/internal/repository"
)

var (
	ErrSagaNotFound       = errors.New("Completion not found")
	ErrNothingToReconcile = errors.New("This completion does not need reconciliation")
)

// CompletionService keeps the outcome of every completion saga so that
// minted but unrecorded proofs can be found and reconciled
type CompletionService struct {
	repo  repository.CompletionRepo
	store player.ProofStore
	log   *logger.Logger
}

// NewCompletionService creates a new completion service
func NewCompletionService(repo repository.CompletionRepo, store player.ProofStore, log *logger.Logger) *CompletionService {
	return &CompletionService{repo: repo, store: store, log: log.With("service", "completion")}
}

// RecordSaga stores the saga as it stands
func (s *CompletionService) RecordSaga(ctx context.Context, saga *model.CompletionSaga) error {
	if err := s.repo.Save(ctx, saga); err != nil {
		s.log.Error("failed to record completion saga", "sagaId", saga.ID, "error", err)
		return fmt.Errorf("recording saga: %w", err)
	}
	if saga.NeedsReconciliation() {
		s.log.Warn("proof minted but not recorded",
			"sagaId", saga.ID, "email", saga.Email, "tx", saga.Mint.TransactionHash)
	}
	return nil
}

// ListPending returns the learner's sagas that still need reconciliation
func (s *CompletionService) ListPending(ctx context.Context, email string) ([]model.CompletionSaga, error) {
	sagas, err := s.repo.ListMinted(ctx, email)
	if err != nil {
		return nil, err
	}
	pending := make([]model.CompletionSaga, 0, len(sagas))
	for _, saga := range sagas {
		if saga.NeedsReconciliation() {
			pending = append(pending, saga)
		}
	}
	return pending, nil
}

// Reconcile replays the persistence step of a minted saga owned by email
func (s *CompletionService) Reconcile(ctx context.Context, email, sagaID string) (*model.CompletionSaga, error) {
	saga, err := s.repo.GetByID(ctx, sagaID)
	if err != nil {
		return nil, err
	}
	if saga == nil {
		return nil, ErrSagaNotFound
	}
	if saga.Email != email {
		return nil, ErrForbidden
	}
	if !saga.NeedsReconciliation() || saga.Pending == nil {
		return nil, ErrNothingToReconcile
	}

	if _, err := s.store.SaveProject(ctx, *saga.Pending); err != nil {
		saga.Record(model.StepPersist, model.StepFailed, err)
		_ = s.repo.Save(ctx, saga)
		return nil, fmt.Errorf("%s: %w", player.MsgSaveFailed, err)
	}
	saga.Record(model.StepPersist, model.StepSucceeded, nil)
	saga.Reconciled = true
	if err := s.repo.Save(ctx, saga); err != nil {
		return nil, fmt.Errorf("recording saga: %w", err)
	}
	s.log.Info("completion reconciled", "sagaId", saga.ID, "tx", saga.Mint.TransactionHash)
	return saga, nil
}
