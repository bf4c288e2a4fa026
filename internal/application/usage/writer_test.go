package usage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"scribe-ai-api/internal/domain/entity"
	"scribe-ai-api/internal/domain/repository"
	"scribe-ai-api/internal/infrastructure/messaging"
)

type fakeUsageRepo struct {
	events []*entity.GenerationUsageEvent
	err    error
}

func (f *fakeUsageRepo) Create(ctx context.Context, event *entity.GenerationUsageEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeUsageRepo) ListRecent(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationUsageEvent], error) {
	return repository.NewPagedResult(f.events, int64(len(f.events)), pagination), nil
}

func (f *fakeUsageRepo) CountByUser(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	var n int64
	for _, e := range f.events {
		if e.UserID == userID {
			n++
		}
	}
	return n, nil
}

func usageMessage(t *testing.T, payload messaging.GenerationUsageMessage) *messaging.Message {
	t.Helper()
	msg, err := messaging.NewMessage("msg-1", messaging.MsgTypeGenerationUsage, payload.UserID, payload)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	return msg
}

func TestWriterPersistsEvent(t *testing.T) {
	repo := &fakeUsageRepo{}
	w := NewWriter(repo)

	occurred := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	msg := usageMessage(t, messaging.GenerationUsageMessage{
		UserID:      "user-1",
		Source:      "openai",
		Model:       "gpt-4o-mini",
		Mode:        "rewrite",
		PromptChars: 1234,
		DurationMs:  870,
		Status:      "success",
		OccurredAt:  occurred,
	})

	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("events = %d, want 1", len(repo.events))
	}
	e := repo.events[0]
	if e.UserID != "user-1" || e.Mode != "rewrite" || e.PromptChars != 1234 || e.Status != entity.GenerationStatusSuccess {
		t.Fatalf("event mismatch: %+v", e)
	}
	if !e.CreatedAt.Equal(occurred) {
		t.Fatalf("created_at = %v, want %v", e.CreatedAt, occurred)
	}
}

func TestWriterSwallowsCorruptPayload(t *testing.T) {
	repo := &fakeUsageRepo{}
	w := NewWriter(repo)

	msg := &messaging.Message{ID: "bad", Type: messaging.MsgTypeGenerationUsage, Payload: json.RawMessage(`{broken`)}
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("corrupt payload must not be retried: %v", err)
	}
	if len(repo.events) != 0 {
		t.Fatalf("events = %d, want 0", len(repo.events))
	}
}

func TestWriterPropagatesRepoError(t *testing.T) {
	repo := &fakeUsageRepo{err: errors.New("db down")}
	w := NewWriter(repo)

	msg := usageMessage(t, messaging.GenerationUsageMessage{UserID: "user-1", Status: "success"})
	if err := w.HandleMessage(context.Background(), msg); err == nil {
		t.Fatal("repository failure must surface for retry")
	}
}
