package querylog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendAndRecent(t *testing.T) {
	t.Setenv("AGENT_LOG_DIR", t.TempDir())

	entries := []Entry{
		{Query: "volatility of SPY", Status: "ok", Category: "single_stock_analysis", Symbols: []string{"SPY"}},
		{Query: "not really a query", Status: "invalid_json"},
		{Query: "", Status: "empty_input"},
	}
	for _, e := range entries {
		if err := Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(got))
	}
	if got[0].Query != "volatility of SPY" || got[0].Category != "single_stock_analysis" {
		t.Errorf("First entry mismatch: %+v", got[0])
	}
	for i, e := range got {
		if e.ID == "" {
			t.Errorf("Entry %d has no generated ID", i)
		}
		if e.Time == "" {
			t.Errorf("Entry %d has no timestamp", i)
		}
	}
}

func TestRecentLimitsCount(t *testing.T) {
	t.Setenv("AGENT_LOG_DIR", t.TempDir())

	for i := 0; i < 5; i++ {
		if err := Append(Entry{Query: "q", Status: "ok"}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(got))
	}
}

func TestRecentEmptyDay(t *testing.T) {
	t.Setenv("AGENT_LOG_DIR", t.TempDir())

	got, err := Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no entries, got %d", len(got))
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGENT_LOG_DIR", dir)

	oldDay := time.Now().AddDate(0, 0, -10).Format("2006-01-02")
	oldPath := filepath.Join(dir, oldDay+".txt")
	if err := os.WriteFile(oldPath, []byte(`{"query":"old"}`+"\n"), 0o644); err != nil {
		t.Fatalf("Failed to seed old log: %v", err)
	}
	if err := Append(Entry{Query: "fresh", Status: "ok"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if err := CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("Expected old log file to be removed after compression")
	}
	if _, err := os.Stat(oldPath + ".gz"); err != nil {
		t.Errorf("Expected compressed log file to exist: %v", err)
	}

	todayPath := filepath.Join(dir, time.Now().Format("2006-01-02")+".txt")
	if _, err := os.Stat(todayPath); err != nil {
		t.Errorf("Expected today's log to be untouched: %v", err)
	}
}

func TestCompressOlderDisabled(t *testing.T) {
	t.Setenv("AGENT_LOG_DIR", t.TempDir())

	if err := CompressOlder(0); err != nil {
		t.Errorf("Expected noop for zero retention, got %v", err)
	}
}
