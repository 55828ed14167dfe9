package kv

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	stores := map[string]Store{}
	for _, backend := range []string{BackendFile, BackendSQLite, BackendMemory} {
		s, err := Open(backend, filepath.Join(t.TempDir(), backend))
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", backend, err)
		}
		t.Cleanup(func() { s.Close() })
		stores[backend] = s
	}
	return stores
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get("calendar_events"); err != nil || ok {
				t.Fatalf("Get on empty store = ok %v, err %v", ok, err)
			}

			if err := s.Set("calendar_events", `[{"id":"a"}]`); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := s.Set("calendar_events", `[]`); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			if err := s.Set("calendar_theme", "dark"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			v, ok, err := s.Get("calendar_events")
			if err != nil || !ok || v != "[]" {
				t.Errorf("Get = %q, %v, %v; want %q", v, ok, err, "[]")
			}
			v, _, _ = s.Get("calendar_theme")
			if v != "dark" {
				t.Errorf("theme = %q, want dark", v)
			}

			if err := s.Delete("calendar_theme"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, ok, _ := s.Get("calendar_theme"); ok {
				t.Error("key still present after Delete")
			}
			if err := s.Delete("never_set"); err != nil {
				t.Errorf("Delete of missing key returned %v", err)
			}
		})
	}
}

func TestInvalidKeys(t *testing.T) {
	for name, s := range openStores(t) {
		for _, key := range []string{"", ".", "..", ".hidden", "a/b", "../escape", "with space"} {
			if err := s.Set(key, "x"); err == nil {
				t.Errorf("%s: Set(%q) succeeded, want error", name, key)
			}
		}
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	for _, backend := range []string{BackendFile, BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			s, err := Open(backend, dir)
			if err != nil {
				t.Fatal(err)
			}
			if err := s.Set("calendar_events", "persisted"); err != nil {
				t.Fatal(err)
			}
			s.Close()

			s, err = Open(backend, dir)
			if err != nil {
				t.Fatal(err)
			}
			defer s.Close()
			v, ok, err := s.Get("calendar_events")
			if err != nil || !ok || v != "persisted" {
				t.Errorf("after reopen Get = %q, %v, %v", v, ok, err)
			}
		})
	}
}

func TestFileStoreNamesFilesByKey(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("calendar_theme", "dark"); err != nil {
		t.Fatal(err)
	}

	if got, want := s.Path("calendar_theme"), filepath.Join(dir, "calendar_theme"); got != want {
		t.Errorf("Path = %s, want %s", got, want)
	}
	data, err := os.ReadFile(filepath.Join(dir, "calendar_theme"))
	if err != nil || string(data) != "dark" {
		t.Errorf("file holds %q, %v; want dark", data, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("store dir has %d entries, want 1 (temp file left behind?)", len(entries))
	}
}

func TestUnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestFileWatcherSeesRewrite(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("calendar_events", "[]"); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 4)
	fw, err := NewFileWatcher(func(path string) { changed <- path })
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	defer fw.Close()

	if err := fw.AddFile(s.Path("calendar_events")); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}

	// Untracked keys in the same directory are ignored.
	if err := s.Set("calendar_theme", "dark"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("calendar_events", `[{"id":"x"}]`); err != nil {
		t.Fatal(err)
	}

	want, _ := filepath.Abs(s.Path("calendar_events"))
	select {
	case got := <-changed:
		if got != want {
			t.Errorf("change reported for %s, want %s", got, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}
