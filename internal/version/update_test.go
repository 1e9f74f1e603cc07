package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCheckUpdateFindsNewRelease(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tag_name": "v9.9.9", "html_url": "https://example.com"}`))
	}))
	defer srv.Close()

	oldURL := UpdateURL
	UpdateURL = srv.URL
	defer func() { UpdateURL = oldURL }()

	latest, err := CheckUpdate(context.Background())
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if latest != "9.9.9" {
		t.Errorf("expected latest 9.9.9, got %q", latest)
	}

	// A second check within 24h is served from the cache.
	srv.Close()
	latest, err = CheckUpdate(context.Background())
	if err != nil {
		t.Fatalf("cached check failed: %v", err)
	}
	if latest != "" {
		t.Errorf("expected cached check to report nothing, got %q", latest)
	}
}

func TestCheckUpdateSameVersion(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tag_name": "` + Version + `"}`))
	}))
	defer srv.Close()

	oldURL := UpdateURL
	UpdateURL = srv.URL
	defer func() { UpdateURL = oldURL }()

	latest, err := CheckUpdate(context.Background())
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if latest != "" {
		t.Errorf("expected no update for the running version, got %q", latest)
	}
}

func TestCheckUpdateServerError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	oldURL := UpdateURL
	UpdateURL = srv.URL
	defer func() { UpdateURL = oldURL }()

	if _, err := CheckUpdate(context.Background()); err == nil {
		t.Fatal("expected an error for a failing endpoint")
	}
}

func TestUpdateCacheRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cache := &UpdateCache{LastKnownVersion: "1.2.3"}
	if err := saveUpdateCache(cache); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := loadUpdateCache()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.LastKnownVersion != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", loaded.LastKnownVersion)
	}
}

func TestLoadUpdateCacheMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cache, err := loadUpdateCache()
	if err != nil {
		t.Fatalf("expected an empty cache for a missing file, got error: %v", err)
	}
	if cache == nil {
		t.Fatal("expected a non-nil cache")
	}
	if !cache.LastUpdateCheck.IsZero() {
		t.Error("expected a zero last-check time")
	}
}

func TestFetchChecksum(t *testing.T) {
	const sum = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "bad.sha256") {
			w.Write([]byte("abc123"))
			return
		}
		w.Write([]byte(sum + "  memory-mcp\n"))
	}))
	defer srv.Close()

	got, err := fetchChecksum(context.Background(), srv.URL+"/memory-mcp.sha256")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got != sum {
		t.Errorf("expected %s, got %s", sum, got)
	}

	if _, err := fetchChecksum(context.Background(), srv.URL+"/bad.sha256"); err == nil {
		t.Error("expected an error for a malformed checksum file")
	}
}
