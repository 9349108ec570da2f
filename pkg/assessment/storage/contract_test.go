package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"brightdesk-hq/readiness/pkg/assessment"
)

// newRecord returns an assessment created age before now.
func newRecord(id string, now time.Time, age time.Duration) *assessment.Assessment {
	return &assessment.Assessment{
		ID:                 id,
		Email:              id + "@example.com",
		TechStack:          json.RawMessage(`["m365"]`),
		MonthlyTickets:     json.RawMessage(`{"count":42}`),
		TicketDistribution: json.RawMessage(`{"password":10}`),
		ReportData:         json.RawMessage(`{"email":"` + id + `@example.com"}`),
		CreatedAt:          now.Add(-age),
	}
}

// runRepositoryContract exercises the assessment.Storage contract shared by
// every backend.
func runRepositoryContract(t *testing.T, newStore func(t *testing.T) assessment.Storage) {
	const day = 24 * time.Hour
	now := time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC)

	t.Run("insert and find by id", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		rec := newRecord("a-1", now, time.Hour)
		rec.AdditionalContext = "two offices"

		id, err := store.Insert(ctx, rec)
		if err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
		if id != "a-1" {
			t.Errorf("Insert() id = %q, want %q", id, "a-1")
		}

		got, err := store.FindByID(ctx, "a-1")
		if err != nil {
			t.Fatalf("FindByID() failed: %v", err)
		}
		if got == nil {
			t.Fatal("FindByID() returned nil for stored record")
		}
		if got.Email != rec.Email {
			t.Errorf("Email = %q, want %q", got.Email, rec.Email)
		}
		if got.AdditionalContext != "two offices" {
			t.Errorf("AdditionalContext = %q, want %q", got.AdditionalContext, "two offices")
		}
		if string(got.TechStack) != `["m365"]` {
			t.Errorf("TechStack = %s, want %s", got.TechStack, `["m365"]`)
		}
		if !got.CreatedAt.Equal(rec.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
		}
	})

	t.Run("payloads are stored verbatim", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		report := `{"b":1,  "a":2, "a":3}`
		rec := newRecord("raw-1", now, time.Hour)
		rec.ReportData = json.RawMessage(report)
		rec.TicketDistribution = json.RawMessage(`{ "z" : 1, "a" : 2 }`)

		if _, err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
		got, err := store.FindByID(ctx, "raw-1")
		if err != nil || got == nil {
			t.Fatalf("FindByID() = %v, %v", got, err)
		}
		if string(got.ReportData) != report {
			t.Errorf("ReportData = %s, want %s", got.ReportData, report)
		}
		if string(got.TicketDistribution) != `{ "z" : 1, "a" : 2 }` {
			t.Errorf("TicketDistribution = %s, want it unchanged", got.TicketDistribution)
		}
	})

	t.Run("find missing id returns nil without error", func(t *testing.T) {
		store := newStore(t)

		got, err := store.FindByID(context.Background(), "nope")
		if err != nil {
			t.Fatalf("FindByID() failed: %v", err)
		}
		if got != nil {
			t.Errorf("FindByID() = %+v, want nil", got)
		}
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		if _, err := store.Insert(ctx, newRecord("dup", now, 0)); err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
		_, err := store.Insert(ctx, newRecord("dup", now, day))
		if !errors.Is(err, assessment.ErrDuplicateID) {
			t.Fatalf("Insert(duplicate) error = %v, want ErrDuplicateID", err)
		}
		if !assessment.IsStoreUnavailable(err) {
			t.Errorf("Insert(duplicate) error should be a StorageError")
		}
	})

	t.Run("find older than is strict and ordered", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		cutoff := now.Add(-90 * day)

		records := []*assessment.Assessment{
			newRecord("recent", now, 10*day),
			newRecord("c-old", now, 200*day),
			newRecord("b-tie", now, 95*day),
			newRecord("a-tie", now, 95*day),
			{ID: "boundary", Email: "b@example.com", CreatedAt: cutoff},
		}
		for _, r := range records {
			if _, err := store.Insert(ctx, r); err != nil {
				t.Fatalf("Insert(%s) failed: %v", r.ID, err)
			}
		}

		got, err := store.FindOlderThan(ctx, cutoff)
		if err != nil {
			t.Fatalf("FindOlderThan() failed: %v", err)
		}

		want := []string{"c-old", "a-tie", "b-tie"}
		if len(got) != len(want) {
			t.Fatalf("FindOlderThan() returned %d records, want %d", len(got), len(want))
		}
		for i, id := range want {
			if got[i].ID != id {
				t.Errorf("FindOlderThan()[%d] = %s, want %s", i, got[i].ID, id)
			}
		}
	})

	t.Run("delete by ids is idempotent", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, id := range []string{"d-1", "d-2", "d-3"} {
			if _, err := store.Insert(ctx, newRecord(id, now, day)); err != nil {
				t.Fatalf("Insert() failed: %v", err)
			}
		}

		deleted, err := store.DeleteByIDs(ctx, []string{"d-1", "d-2", "missing"})
		if err != nil {
			t.Fatalf("DeleteByIDs() failed: %v", err)
		}
		if deleted != 2 {
			t.Errorf("DeleteByIDs() = %d, want 2", deleted)
		}

		deleted, err = store.DeleteByIDs(ctx, []string{"d-1", "d-2"})
		if err != nil {
			t.Fatalf("DeleteByIDs() second call failed: %v", err)
		}
		if deleted != 0 {
			t.Errorf("DeleteByIDs() second call = %d, want 0", deleted)
		}

		deleted, err = store.DeleteByIDs(ctx, nil)
		if err != nil || deleted != 0 {
			t.Errorf("DeleteByIDs(nil) = %d, %v, want 0, nil", deleted, err)
		}

		count, err := store.Count(ctx, nil)
		if err != nil {
			t.Fatalf("Count() failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Count() = %d, want 1", count)
		}
	})

	t.Run("delete spans multiple chunks", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		total := DeleteChunkSize + 25
		ids := make([]string, 0, total)
		for i := 0; i < total; i++ {
			id := fmt.Sprintf("bulk-%04d", i)
			ids = append(ids, id)
			if _, err := store.Insert(ctx, newRecord(id, now, day)); err != nil {
				t.Fatalf("Insert() failed: %v", err)
			}
		}

		deleted, err := store.DeleteByIDs(ctx, ids)
		if err != nil {
			t.Fatalf("DeleteByIDs() failed: %v", err)
		}
		if deleted != int64(total) {
			t.Errorf("DeleteByIDs() = %d, want %d", deleted, total)
		}
	})

	t.Run("list filters and paginates", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			id := fmt.Sprintf("l-%d", i)
			if _, err := store.Insert(ctx, newRecord(id, now, time.Duration(5-i)*day)); err != nil {
				t.Fatalf("Insert() failed: %v", err)
			}
		}

		before := now.Add(-2 * day)
		got, err := store.List(ctx, &assessment.Query{CreatedBefore: &before})
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("List(before) returned %d, want 3", len(got))
		}
		if got[0].ID != "l-0" {
			t.Errorf("List(before)[0] = %s, want l-0", got[0].ID)
		}

		got, err = store.List(ctx, &assessment.Query{SortOrder: "desc", Limit: 2, Offset: 1})
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		if len(got) != 2 || got[0].ID != "l-3" || got[1].ID != "l-2" {
			t.Errorf("List(desc, limit 2, offset 1) = %v, want [l-3 l-2]", ids(got))
		}

		got, err = store.List(ctx, &assessment.Query{Offset: 3})
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("List(offset 3) returned %d, want 2", len(got))
		}

		count, err := store.Count(ctx, &assessment.Query{Email: "l-1@example.com"})
		if err != nil {
			t.Fatalf("Count() failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Count(email) = %d, want 1", count)
		}
	})

	t.Run("ping", func(t *testing.T) {
		store := newStore(t)
		if err := store.Ping(context.Background()); err != nil {
			t.Errorf("Ping() failed: %v", err)
		}
	})
}

func ids(records []*assessment.Assessment) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
