//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"seminary/internal/domain"
	mysqlrepo "seminary/internal/storage/mysql"
)

// ---------- small helpers ----------
func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=seminary",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "seminary")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_UpsertAndList(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	first := []domain.Review{
		{Author: "Ana", Rating: 4, Text: "Très bon accueil", RelativeTime: "il y a 2 mois", Time: 1700000000, Lang: "fr"},
		{Author: "Bob", Rating: 5, Text: "Salle parfaite", Time: 1710000000},
		{Author: "", Rating: 3, Time: 1690000000},
	}
	if err := repo.UpsertReviews(ctx, "ChIJ-lac", first); err != nil {
		t.Fatalf("UpsertReviews: %v", err)
	}
	// same (place, author, time) updates in place
	again := []domain.Review{{Author: "Ana", Rating: 5, Text: "Encore mieux", Time: 1700000000}}
	if err := repo.UpsertReviews(ctx, "ChIJ-lac", again); err != nil {
		t.Fatalf("UpsertReviews again: %v", err)
	}
	if err := repo.UpsertReviews(ctx, "ChIJ-other", []domain.Review{{Author: "Zoe", Rating: 1, Time: 1}}); err != nil {
		t.Fatalf("UpsertReviews other: %v", err)
	}

	got, err := repo.ListReviews(ctx, "ChIJ-lac", 5)
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 reviews, got %d: %+v", len(got), got)
	}
	if got[0].Author != "Bob" || got[1].Author != "Ana" || got[2].Author != "Anonyme" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[1].Rating != 5 || got[1].Text != "Encore mieux" || got[1].Lang != "fr" || got[1].RelativeTime != "il y a 2 mois" {
		t.Fatalf("upsert did not merge: %+v", got[1])
	}

	limited, err := repo.ListReviews(ctx, "ChIJ-lac", 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limit not applied: %v %+v", err, limited)
	}

	none, err := repo.ListReviews(ctx, "ChIJ-missing", 5)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty list: %v %+v", err, none)
	}
}

func TestRepo_MySQL_LogMiss(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.LogMiss(ctx, "ChIJ-gone", 404, "not found"); err != nil {
		t.Fatalf("LogMiss: %v", err)
	}
	if err := repo.LogMiss(ctx, "ChIJ-gone", 403, "denied"); err != nil {
		t.Fatalf("LogMiss again: %v", err)
	}

	var status int
	var reason string
	if err := db.QueryRow("SELECT http_status, reason FROM ingest_misses WHERE place_id = ?", "ChIJ-gone").Scan(&status, &reason); err != nil {
		t.Fatalf("select miss: %v", err)
	}
	if status != 403 || reason != "denied" {
		t.Fatalf("unexpected miss row: %d %q", status, reason)
	}
}
