package database

import (
	"context"
	"testing"
	"time"

	"github.com/Risho92/rufus/internal/model"
)

func openTestDB(t *testing.T) *SessionDB {
	t.Helper()
	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return db
}

func sampleSession(startURL string) *model.CrawlSession {
	session := model.NewCrawlSession(startURL, "find pricing")
	session.Strategy = &model.CrawlStrategy{
		Keywords:     []string{"pricing"},
		ContentTypes: []string{"pricing"},
		Task:         "find pricing",
	}
	session.Results = []model.PageResult{
		{
			URL:            startURL + "/plans",
			Title:          "Plans",
			Content:        "tier details",
			RelevanceScore: 0.8,
			Metadata:       model.PageMetadata{Depth: 1, ContentType: "pricing"},
		},
	}
	session.Documents = []model.Document{
		model.NewDocument("pricing", "Pricing Information", "body", []string{startURL + "/plans"}, "find pricing"),
	}
	session.VisitedCount = 4
	session.OutputPath = "rufus_documents_x.json"
	session.FinishedAt = session.StartedAt.Add(2 * time.Second)
	return session
}

func TestSessionDBSaveAndGet(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	saved := sampleSession("https://example.com")

	if err := db.SaveSession(ctx, saved); err != nil {
		t.Fatalf("SaveSession() error: %v", err)
	}

	loaded, err := db.GetSession(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetSession() error: %v", err)
	}
	if loaded == nil {
		t.Fatal("GetSession() returned nil for saved session")
	}

	if loaded.StartURL != saved.StartURL {
		t.Errorf("StartURL = %q, want %q", loaded.StartURL, saved.StartURL)
	}
	if loaded.VisitedCount != 4 {
		t.Errorf("VisitedCount = %d, want 4", loaded.VisitedCount)
	}
	if loaded.Strategy == nil || loaded.Strategy.Task != "find pricing" {
		t.Errorf("Strategy = %+v", loaded.Strategy)
	}
	if len(loaded.Results) != 1 || loaded.Results[0].URL != "https://example.com/plans" {
		t.Errorf("Results = %+v", loaded.Results)
	}
	if loaded.Results[0].Metadata.ContentType != "pricing" {
		t.Errorf("page content type = %q", loaded.Results[0].Metadata.ContentType)
	}
	if len(loaded.Documents) != 1 || loaded.Documents[0].Type != "pricing" {
		t.Errorf("Documents = %+v", loaded.Documents)
	}
	if got := loaded.Documents[0].Metadata.SourceURLs; len(got) != 1 || got[0] != "https://example.com/plans" {
		t.Errorf("source URLs = %v", got)
	}
	if loaded.StartedAt.IsZero() || loaded.FinishedAt.IsZero() {
		t.Error("timestamps did not survive the round trip")
	}
}

func TestSessionDBGetMissing(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	loaded, err := db.GetSession(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("GetSession() error: %v", err)
	}
	if loaded != nil {
		t.Errorf("GetSession() = %+v, want nil", loaded)
	}
}

func TestSessionDBListSessions(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	first := sampleSession("https://first.example.com")
	first.StartedAt = time.Now().UTC().Add(-time.Hour)
	second := sampleSession("https://second.example.com")

	if err := db.SaveSession(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSession(ctx, second); err != nil {
		t.Fatal(err)
	}

	summaries, err := db.ListSessions(ctx, 10)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d sessions, want 2", len(summaries))
	}

	// Newest first.
	if summaries[0].StartURL != "https://second.example.com" {
		t.Errorf("first summary = %q", summaries[0].StartURL)
	}
	if summaries[0].PageCount != 1 || summaries[0].DocumentCount != 1 {
		t.Errorf("counts = %d pages, %d documents", summaries[0].PageCount, summaries[0].DocumentCount)
	}

	limited, err := db.ListSessions(ctx, 1)
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("got %d sessions with limit 1", len(limited))
	}
}

func TestOpenWithoutCreate(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false}
	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Error("expected error opening missing database without create")
	}
}
