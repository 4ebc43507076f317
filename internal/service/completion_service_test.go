package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nishtha/internal/logger"
	"nishtha/internal/model"
)

type fakeProofStore struct {
	err   error
	calls int
	last  model.SaveProjectRequest
}

func (s *fakeProofStore) SaveProject(ctx context.Context, req model.SaveProjectRequest) (*model.VerifiedProject, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &model.VerifiedProject{ID: "p1", TransactionHash: req.TransactionHash}, nil
}

func mintedSaga(id, email string) *model.CompletionSaga {
	req := saveReq("0xabc")
	req.UserEmail = email
	saga := &model.CompletionSaga{
		ID:      id,
		Email:   email,
		Mint:    &model.MintResult{Success: true, TransactionHash: "0xabc", TokenID: "7"},
		Pending: &req,
	}
	saga.Record(model.StepAnswerCheck, model.StepSucceeded, nil)
	saga.Record(model.StepMint, model.StepSucceeded, nil)
	saga.Record(model.StepPersist, model.StepFailed, errStore)
	return saga
}

func TestReconcileReplaysPersistence(t *testing.T) {
	repo, store := newMemCompletions(), &fakeProofStore{}
	svc := NewCompletionService(repo, store, logger.Nop())
	ctx := context.Background()

	if err := svc.RecordSaga(ctx, mintedSaga("s1", "dev@example.com")); err != nil {
		t.Fatal(err)
	}
	pending, err := svc.ListPending(ctx, "dev@example.com")
	if err != nil || len(pending) != 1 {
		t.Fatalf("ListPending: %v %d", err, len(pending))
	}

	saga, err := svc.Reconcile(ctx, "dev@example.com", "s1")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !saga.Reconciled || saga.NeedsReconciliation() {
		t.Errorf("saga should be reconciled: %+v", saga)
	}
	if store.last.TransactionHash != "0xabc" {
		t.Errorf("persistence should replay the minted tx, got %+v", store.last)
	}

	pending, _ = svc.ListPending(ctx, "dev@example.com")
	if len(pending) != 0 {
		t.Errorf("reconciled saga still pending")
	}
	if _, err := svc.Reconcile(ctx, "dev@example.com", "s1"); !errors.Is(err, ErrNothingToReconcile) {
		t.Errorf("second reconcile: %v", err)
	}
}

func TestReconcileErrors(t *testing.T) {
	repo, store := newMemCompletions(), &fakeProofStore{}
	svc := NewCompletionService(repo, store, logger.Nop())
	ctx := context.Background()
	svc.RecordSaga(ctx, mintedSaga("s1", "dev@example.com"))

	if _, err := svc.Reconcile(ctx, "dev@example.com", "missing"); !errors.Is(err, ErrSagaNotFound) {
		t.Errorf("missing: %v", err)
	}
	if _, err := svc.Reconcile(ctx, "eve@example.com", "s1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign: %v", err)
	}
	if store.calls != 0 {
		t.Fatal("store must not be called")
	}

	store.err = errStore
	_, err := svc.Reconcile(ctx, "dev@example.com", "s1")
	if !errors.Is(err, errStore) || !strings.HasPrefix(err.Error(), "Failed to save your project") {
		t.Errorf("store failure: %v", err)
	}
	saved, _ := repo.GetByID(ctx, "s1")
	if !saved.NeedsReconciliation() {
		t.Error("failed replay must leave the saga pending")
	}
}

func TestListPendingSkipsUnmintedSagas(t *testing.T) {
	repo := newMemCompletions()
	svc := NewCompletionService(repo, &fakeProofStore{}, logger.Nop())
	ctx := context.Background()

	failed := &model.CompletionSaga{ID: "s2", Email: "dev@example.com", Mint: &model.MintResult{Success: false}}
	done := mintedSaga("s3", "dev@example.com")
	done.Record(model.StepPersist, model.StepSucceeded, nil)
	svc.RecordSaga(ctx, failed)
	svc.RecordSaga(ctx, done)

	pending, err := svc.ListPending(ctx, "dev@example.com")
	if err != nil || len(pending) != 0 {
		t.Errorf("expected nothing pending, got %d (%v)", len(pending), err)
	}
}
