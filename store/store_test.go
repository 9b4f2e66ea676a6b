package store

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopening must not fail on already-applied migrations.
	s, err = Open(ctx, dir)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	s.Close()
}

func TestBuildRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	rec := BuildRecord{
		ID:         "build-1",
		Image:      "husk-dev:latest",
		ContextDir: "/home/user/project",
		StartedAt:  time.Now(),
		Duration:   1500 * time.Millisecond,
		ExitCode:   0,
	}
	if err := s.RecordBuild(ctx, rec); err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}

	got, err := s.ListBuilds(ctx, 10)
	if err != nil {
		t.Fatalf("ListBuilds: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 build, got %d", len(got))
	}
	if got[0].ID != rec.ID || got[0].Image != rec.Image || got[0].ContextDir != rec.ContextDir {
		t.Errorf("got %+v, want %+v", got[0], rec)
	}
	if got[0].StartedAt.UnixMilli() != rec.StartedAt.UnixMilli() {
		t.Errorf("started at: got %v, want %v", got[0].StartedAt, rec.StartedAt)
	}
	if got[0].Duration != rec.Duration {
		t.Errorf("duration: got %v, want %v", got[0].Duration, rec.Duration)
	}

	n, err := s.PruneBuilds(ctx)
	if err != nil {
		t.Fatalf("PruneBuilds: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d rows, want 1", n)
	}
}

func TestListBuildsOrdersMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Now()
	for i, id := range []string{"old", "mid", "new"} {
		rec := BuildRecord{
			ID:         id,
			Image:      "husk-dev:latest",
			ContextDir: "/p",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			ExitCode:   0,
		}
		if err := s.RecordBuild(ctx, rec); err != nil {
			t.Fatalf("RecordBuild %s: %v", id, err)
		}
	}

	got, err := s.ListBuilds(ctx, 2)
	if err != nil {
		t.Fatalf("ListBuilds: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 builds, got %d", len(got))
	}
	if got[0].ID != "new" || got[1].ID != "mid" {
		t.Errorf("got order %s, %s; want new, mid", got[0].ID, got[1].ID)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	rec := SessionRecord{
		ID:          "sess-1",
		Name:        "quiet-thunder",
		Image:       "husk-dev:latest",
		HostDir:     "/home/user/project",
		MountTarget: "/husk",
		StartedAt:   time.Now(),
	}
	if err := s.RecordSessionStart(ctx, rec); err != nil {
		t.Fatalf("RecordSessionStart: %v", err)
	}

	got, err := s.ListSessions(ctx, 10)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 session, got %d", len(got))
	}
	if got[0].Ended {
		t.Error("session should not be marked ended before CompleteSession")
	}

	if err := s.CompleteSession(ctx, "sess-1", rec.StartedAt.Add(time.Minute), 130); err != nil {
		t.Fatalf("CompleteSession: %v", err)
	}

	got, err = s.ListSessions(ctx, 10)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if !got[0].Ended {
		t.Error("session should be marked ended")
	}
	if got[0].ExitCode != 130 {
		t.Errorf("exit code: got %d, want 130", got[0].ExitCode)
	}

	if err := s.DeleteSessionByName(ctx, "quiet-thunder"); err != nil {
		t.Fatalf("DeleteSessionByName: %v", err)
	}
	got, err = s.ListSessions(ctx, 10)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 sessions after delete, got %d", len(got))
	}
}

func TestBundleUpsert(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	rec := BundleRecord{
		Name:      "payload",
		Digest:    "abc123",
		SizeBytes: 42,
		Reference: "registry.example.com/bundles/payload:abc123",
		Pushed:    false,
		CreatedAt: time.Now(),
	}
	if err := s.RecordBundle(ctx, rec); err != nil {
		t.Fatalf("RecordBundle: %v", err)
	}

	// Same (name, digest) again, now pushed: must replace not duplicate.
	rec.Pushed = true
	if err := s.RecordBundle(ctx, rec); err != nil {
		t.Fatalf("RecordBundle upsert: %v", err)
	}

	got, err := s.ListBundles(ctx, 10)
	if err != nil {
		t.Fatalf("ListBundles: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 bundle, got %d", len(got))
	}
	if !got[0].Pushed {
		t.Error("bundle should be marked pushed after upsert")
	}
	if got[0].Reference != rec.Reference {
		t.Errorf("reference: got %q, want %q", got[0].Reference, rec.Reference)
	}
}
