package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestService_CreateTriggersRecompute(t *testing.T) {
	repo := newFakeRepository("biz-1")
	inv := &fakeInvalidator{}
	inv.observe = func(businessID string) {
		// Read-your-writes: the recompute must count the new open report.
		if repo.openCount(businessID) != 1 {
			t.Fatal("recompute ran before the report was committed")
		}
	}
	svc := newTestService(repo, inv)

	rep, err := svc.Create(context.Background(), CreateParams{
		BusinessID:  "biz-1",
		Reason:      "scam",
		Description: "Took payment, never delivered",
	})
	if err != nil {
		t.Fatalf("create: unexpected error: %v", err)
	}
	if rep.Status != StatusOpen {
		t.Fatalf("expected new report to be open, got %s", rep.Status)
	}
	if inv.calls != 1 {
		t.Fatalf("expected exactly one recompute, got %d", inv.calls)
	}
	if inv.lastBusinessID != "biz-1" {
		t.Fatalf("recompute targeted %q, want biz-1", inv.lastBusinessID)
	}
}

func TestService_CreateValidation(t *testing.T) {
	inv := &fakeInvalidator{}
	svc := newTestService(newFakeRepository("biz-1"), inv)

	cases := []CreateParams{
		{BusinessID: "", Reason: "scam", Description: "text"},
		{BusinessID: "biz-1", Reason: " ", Description: "text"},
		{BusinessID: "biz-1", Reason: "scam", Description: ""},
	}
	for i, params := range cases {
		if _, err := svc.Create(context.Background(), params); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if inv.calls != 0 {
		t.Fatal("rejected reports must not trigger recompute")
	}
}

func TestService_CreateUnknownBusiness(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeInvalidator{})

	_, err := svc.Create(context.Background(), CreateParams{
		BusinessID:  "missing",
		Reason:      "scam",
		Description: "text",
	})
	if !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
}

func TestService_CreateSucceedsWhenRecomputeFails(t *testing.T) {
	repo := newFakeRepository("biz-1")
	inv := &fakeInvalidator{err: errors.New("connection reset")}
	svc := newTestService(repo, inv)

	rep, err := svc.Create(context.Background(), CreateParams{
		BusinessID:  "biz-1",
		Reason:      "scam",
		Description: "text",
	})
	if err != nil {
		t.Fatalf("report submission must survive a stale score: %v", err)
	}
	if repo.openCount("biz-1") != 1 {
		t.Fatal("expected report to be committed")
	}
	if rep.ID == "" {
		t.Fatal("expected created report back")
	}
}

func TestService_CloseTriggersRecompute(t *testing.T) {
	repo := newFakeRepository("biz-1")
	inv := &fakeInvalidator{}
	svc := newTestService(repo, inv)

	rep, err := svc.Create(context.Background(), CreateParams{
		BusinessID:  "biz-1",
		Reason:      "scam",
		Description: "text",
	})
	if err != nil {
		t.Fatalf("seed report: %v", err)
	}

	inv.observe = func(businessID string) {
		// The closed report must already be out of the open set.
		if repo.openCount(businessID) != 0 {
			t.Fatal("recompute ran before the close was committed")
		}
	}

	closed, err := svc.Close(context.Background(), rep.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != StatusClosed {
		t.Fatalf("expected closed status, got %s", closed.Status)
	}
	if inv.calls != 2 {
		t.Fatalf("expected recompute on create and close, got %d calls", inv.calls)
	}
}

func TestService_CloseTwice(t *testing.T) {
	repo := newFakeRepository("biz-1")
	svc := newTestService(repo, &fakeInvalidator{})

	rep, err := svc.Create(context.Background(), CreateParams{
		BusinessID:  "biz-1",
		Reason:      "scam",
		Description: "text",
	})
	if err != nil {
		t.Fatalf("seed report: %v", err)
	}
	if _, err := svc.Close(context.Background(), rep.ID); err != nil {
		t.Fatalf("first close: %v", err)
	}

	if _, err := svc.Close(context.Background(), rep.ID); !errors.Is(err, ErrAlreadyClosed) {
		t.Fatalf("expected ErrAlreadyClosed, got %v", err)
	}
}

func TestService_CloseUnknownReport(t *testing.T) {
	svc := newTestService(newFakeRepository("biz-1"), &fakeInvalidator{})

	if _, err := svc.Close(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_CloseRecomputeFailure(t *testing.T) {
	repo := newFakeRepository("biz-1")
	inv := &fakeInvalidator{}
	svc := newTestService(repo, inv)

	rep, err := svc.Create(context.Background(), CreateParams{
		BusinessID:  "biz-1",
		Reason:      "scam",
		Description: "text",
	})
	if err != nil {
		t.Fatalf("seed report: %v", err)
	}

	inv.err = errors.New("connection reset")
	if _, err := svc.Close(context.Background(), rep.ID); err == nil {
		t.Fatal("expected recompute failure to surface to the administrator")
	}
	// The transition stays committed; only the score is stale.
	if repo.reports[rep.ID].Status != StatusClosed {
		t.Fatal("expected report to remain closed despite recompute failure")
	}
}

func newTestService(repo *fakeRepository, inv *fakeInvalidator) *Service {
	counter := 0
	return NewService(repo, inv, zerolog.Nop()).WithIDGenerator(func() string {
		counter++
		return fmt.Sprintf("rep-%d", counter)
	})
}

type fakeInvalidator struct {
	calls          int
	lastBusinessID string
	err            error
	observe        func(businessID string)
}

func (f *fakeInvalidator) Recompute(ctx context.Context, businessID string) (int, error) {
	f.calls++
	f.lastBusinessID = businessID
	if f.err != nil {
		return 0, f.err
	}
	if f.observe != nil {
		f.observe(businessID)
	}
	return 50, nil
}

type fakeRepository struct {
	businesses map[string]bool
	reports    map[string]Report
}

func newFakeRepository(businessIDs ...string) *fakeRepository {
	f := &fakeRepository{
		businesses: make(map[string]bool),
		reports:    make(map[string]Report),
	}
	for _, id := range businessIDs {
		f.businesses[id] = true
	}
	return f
}

func (f *fakeRepository) openCount(businessID string) int {
	n := 0
	for _, rep := range f.reports {
		if rep.BusinessID == businessID && rep.Status == StatusOpen {
			n++
		}
	}
	return n
}

func (f *fakeRepository) Create(ctx context.Context, rep Report) (Report, error) {
	if !f.businesses[rep.BusinessID] {
		return Report{}, ErrBusinessNotFound
	}
	rep.Status = StatusOpen
	rep.CreatedAt = time.Now().UTC()
	rep.UpdatedAt = rep.CreatedAt
	f.reports[rep.ID] = rep
	return rep, nil
}

func (f *fakeRepository) ListOpenByBusiness(ctx context.Context, businessID string, limit int) ([]Report, error) {
	out := []Report{}
	for _, rep := range f.reports {
		if rep.BusinessID == businessID && rep.Status == StatusOpen {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (f *fakeRepository) List(ctx context.Context, filters ListFilters) ([]Report, int, error) {
	out := []Report{}
	for _, rep := range f.reports {
		if filters.Status == "" || rep.Status == filters.Status {
			out = append(out, rep)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepository) Close(ctx context.Context, reportID string) (Report, error) {
	rep, ok := f.reports[reportID]
	if !ok {
		return Report{}, ErrNotFound
	}
	if rep.Status == StatusClosed {
		return Report{}, ErrAlreadyClosed
	}
	rep.Status = StatusClosed
	rep.UpdatedAt = time.Now().UTC()
	f.reports[reportID] = rep
	return rep, nil
}
