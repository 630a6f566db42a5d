// Command status_audit compares every stored enrollment state against a
// fresh classification of the raw session data and reports mismatches.
// With -repair it also rewrites the drifted rows. Exit code 1 signals that
// drift was found, which makes the command usable as a cron check.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/mentorlink/course-api/internal/engine"
	"github.com/mentorlink/course-api/internal/models"
	"github.com/mentorlink/course-api/internal/repository"
)

type finding struct {
	Key    models.EnrollmentKey
	Stored string
	Fresh  string
	Err    error
}

func main() {
	var (
		dsn     string
		repair  bool
		timeout time.Duration
	)

	flag.StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (defaults to DATABASE_URL)")
	flag.BoolVar(&repair, "repair", false, "rewrite drifted rows instead of only reporting them")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "overall run timeout")
	flag.Parse()

	if dsn == "" {
		log.Fatal("no DSN: pass -dsn or set DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	sessions := repository.NewSessionRepository(db)
	statuses := repository.NewEnrollmentStatusRepository(db)

	keys, err := sessions.ListEnrollmentKeys(ctx)
	if err != nil {
		log.Fatalf("failed to list enrollments: %v", err)
	}

	var findings []finding
	checked := 0
	for _, key := range keys {
		checked++
		f := auditOne(ctx, sessions, statuses, key, repair)
		if f != nil {
			findings = append(findings, *f)
		}
	}

	printReport(findings)
	fmt.Printf("checked %d enrollments, %d drifted\n", checked, len(findings))
	if len(findings) > 0 {
		os.Exit(1)
	}
}

func auditOne(ctx context.Context, sessions *repository.SessionRepository, statuses *repository.EnrollmentStatusRepository, key models.EnrollmentKey, repair bool) *finding {
	bundles, err := sessions.ListBundlesByEnrollment(ctx, key)
	if err != nil {
		return &finding{Key: key, Err: err}
	}
	group, ok := engine.Group(bundles)[key.GroupKey()]
	if !ok {
		return nil
	}
	fresh := engine.Classify(group)

	stored := "<none>"
	row, err := statuses.Find(ctx, key)
	switch {
	case err == nil:
		stored = string(row.State)
	case errors.Is(err, sql.ErrNoRows):
	default:
		return &finding{Key: key, Err: err}
	}

	// Payment-pending verdicts are never persisted; any row (or none) is
	// consistent with them.
	if fresh == models.EnrollmentPaymentPending {
		return nil
	}
	if stored == string(fresh) {
		return nil
	}

	f := &finding{Key: key, Stored: stored, Fresh: string(fresh)}
	if repair {
		f.Err = statuses.Upsert(ctx, &models.EnrollmentStatus{
			StudentID:  key.StudentID,
			MentorID:   key.MentorID,
			Skill:      key.Skill,
			State:      fresh,
			ComputedAt: time.Now().UTC(),
		})
	}
	return f
}

func printReport(findings []finding) {
	for _, f := range findings {
		label := fmt.Sprintf("%s / %s / %s", f.Key.StudentID, f.Key.MentorID, f.Key.Skill)
		if f.Err != nil {
			fmt.Printf("ERROR  %-60s %v\n", label, f.Err)
			continue
		}
		fmt.Printf("DRIFT  %-60s stored=%s fresh=%s\n", label, f.Stored, f.Fresh)
	}
}
