package test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"trustdir/business"
	"trustdir/report"
	"trustdir/review"
	"trustdir/test/infra"
	"trustdir/trust"
)

// TestScoreConsistency hammers one business with concurrent scoring-relevant
// mutations. Mid-flight the stored score may lag (last-writer-wins is the
// documented model), but it must always stay in [0,100], and once mutations
// stop a single recompute must converge it to the score of the current facts.
func TestScoreConsistency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping consistency test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var (
		pgC        *infra.PGContainer
		dsn        string
		err        error
		usedShared bool
	)
	if env := os.Getenv("TEST_PG_DSN"); env != "" {
		dsn = env
		usedShared = true
		pgC = &infra.PGContainer{}
	} else if dockerAvailable(ctx) {
		pgC, dsn, err = infra.StartPostgres16(ctx, "")
		if err != nil {
			t.Fatalf("start postgres: %v", err)
		}
	} else {
		t.Skip("no Docker and no TEST_PG_DSN; skipping")
	}
	defer pgC.Terminate(context.Background())

	pool, teardown, err := infra.ApplyMigrations(ctx, dsn, usedShared)
	if err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	defer pool.Close()
	defer func() {
		if err := teardown(context.Background()); err != nil {
			t.Logf("teardown warning: %v", err)
		}
	}()

	businessID := seedBusiness(t, ctx, pool)

	log := zerolog.Nop()
	trustSvc := trust.NewService(trust.NewRepository(pool), log)
	businessSvc := business.NewService(business.NewRepository(pool), trustSvc, log)
	reviewSvc := review.NewService(review.NewRepository(pool), trustSvc, log)
	reportSvc := report.NewService(report.NewRepository(pool), trustSvc, log)

	stop := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	// reviewers
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			for {
				select {
				case <-stop:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				_, err := reviewSvc.Create(gctx, review.CreateParams{
					BusinessID:   businessID,
					ReviewerName: fmt.Sprintf("reviewer-%d", rand.Intn(1000)),
					Rating:       1 + rand.Intn(5),
					Comment:      "load test review",
				})
				if err != nil {
					return fmt.Errorf("reviewer: %w", err)
				}
				time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
			}
		})
	}

	// reporters file reports; a closer resolves whatever is open
	g.Go(func() error {
		for {
			select {
			case <-stop:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			_, err := reportSvc.Create(gctx, report.CreateParams{
				BusinessID:  businessID,
				Reason:      "spam",
				Description: "load test report",
			})
			if err != nil {
				return fmt.Errorf("reporter: %w", err)
			}
			time.Sleep(time.Duration(rand.Intn(30)) * time.Millisecond)
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-stop:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			var reportID string
			err := pool.QueryRow(gctx,
				`SELECT id FROM reports WHERE business_id = $1 AND status = 'open' LIMIT 1`, businessID).
				Scan(&reportID)
			if err == nil {
				if _, err := reportSvc.Close(gctx, reportID); err != nil &&
					!errors.Is(err, report.ErrAlreadyClosed) && !errors.Is(err, report.ErrNotFound) {
					return fmt.Errorf("closer: %w", err)
				}
			}
			time.Sleep(time.Duration(rand.Intn(30)) * time.Millisecond)
		}
	})

	// a moderator flapping the verification and ban flags
	g.Go(func() error {
		for {
			select {
			case <-stop:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if _, err := businessSvc.SetVerified(gctx, businessID, rand.Intn(2) == 0); err != nil {
				return fmt.Errorf("moderator verify: %w", err)
			}
			if _, err := businessSvc.SetBanned(gctx, businessID, rand.Intn(4) == 0); err != nil {
				return fmt.Errorf("moderator ban: %w", err)
			}
			time.Sleep(time.Duration(rand.Intn(40)) * time.Millisecond)
		}
	})

	// oracle: the stored score must never leave [0,100]
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var stored int
		if err := pool.QueryRow(ctx, `SELECT trust_score FROM businesses WHERE id = $1`, businessID).Scan(&stored); err != nil {
			t.Fatalf("oracle read: %v", err)
		}
		if stored < 0 || stored > 100 {
			t.Fatalf("stored score %d out of [0,100]", stored)
		}
		time.Sleep(200 * time.Millisecond)
	}

	close(stop)
	if err := g.Wait(); err != nil {
		t.Fatalf("actor failed: %v", err)
	}

	// Quiescent now: one recompute must converge the stored value to the
	// score of the current facts.
	recomputed, err := trustSvc.Recompute(ctx, businessID)
	if err != nil {
		t.Fatalf("final recompute: %v", err)
	}

	facts := readFacts(t, ctx, pool, businessID)
	if want := trust.Score(facts); recomputed != want {
		t.Fatalf("recomputed %d, facts say %d (%+v)", recomputed, want, facts)
	}

	var stored int
	if err := pool.QueryRow(ctx, `SELECT trust_score FROM businesses WHERE id = $1`, businessID).Scan(&stored); err != nil {
		t.Fatalf("read stored score: %v", err)
	}
	if stored != recomputed {
		t.Fatalf("stored %d != recomputed %d", stored, recomputed)
	}
}

func seedBusiness(t *testing.T, ctx context.Context, pool *pgxpool.Pool) string {
	t.Helper()

	var userID string
	err := pool.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash) VALUES ($1, $2, 'x') RETURNING id`,
		fmt.Sprintf("owner+%d@example.com", time.Now().UnixNano()), "Load Test Owner").Scan(&userID)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	var businessID string
	err = pool.QueryRow(ctx,
		`INSERT INTO businesses (user_id, name, whatsapp_number) VALUES ($1, 'Load Test Biz', $2) RETURNING id`,
		userID, fmt.Sprintf("%010d", time.Now().UnixNano()%1_000_000_0000)).Scan(&businessID)
	if err != nil {
		t.Fatalf("seed business: %v", err)
	}
	return businessID
}

func readFacts(t *testing.T, ctx context.Context, pool *pgxpool.Pool, businessID string) trust.Facts {
	t.Helper()

	var facts trust.Facts
	if err := pool.QueryRow(ctx, `SELECT is_verified, is_banned FROM businesses WHERE id = $1`, businessID).
		Scan(&facts.Verified, &facts.Banned); err != nil {
		t.Fatalf("read flags: %v", err)
	}

	rows, err := pool.Query(ctx, `SELECT rating FROM reviews WHERE business_id = $1`, businessID)
	if err != nil {
		t.Fatalf("read ratings: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			t.Fatalf("scan rating: %v", err)
		}
		facts.Ratings = append(facts.Ratings, rating)
	}

	if err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reports WHERE business_id = $1 AND status = 'open'`, businessID).
		Scan(&facts.OpenReports); err != nil {
		t.Fatalf("count open reports: %v", err)
	}
	return facts
}

func dockerAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "docker", "info")
	return cmd.Run() == nil
}
