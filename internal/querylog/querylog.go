package querylog

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var mu sync.Mutex

// Entry is one submitted query and its outcome, appended as a JSON line to
// the daily log file.
type Entry struct {
	Time     string   `json:"time"`
	ID       string   `json:"id"`
	Query    string   `json:"query"`
	Status   string   `json:"status"` // "ok" or the failure kind
	Category string   `json:"category,omitempty"`
	Symbols  []string `json:"symbols,omitempty"`
}

func logDir() string {
	if v := os.Getenv("AGENT_LOG_DIR"); v != "" {
		return v
	}
	return "logs/queries"
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(logDir(), t.Format("2006-01-02")+".txt")
}

// Append writes e to today's log file, stamping time and generating an ID
// when absent.
func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()

	now := time.Now()
	e.Time = now.Format("2006-01-02 15:04:05")
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// Recent returns up to n of today's most recent entries, newest last.
func Recent(n int) ([]Entry, error) {
	mu.Lock()
	defer mu.Unlock()

	p := dailyFilepath(time.Now())
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// CompressOlder gzips daily log files older than the given number of days
// and removes the originals. days <= 0 disables compression.
func CompressOlder(days int) error {
	if days <= 0 {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -days)
	entries, err := os.ReadDir(logDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		day, err := time.Parse("2006-01-02", strings.TrimSuffix(name, ".txt"))
		if err != nil || !day.Before(cutoff) {
			continue
		}
		if err := gzipFile(filepath.Join(logDir(), name)); err != nil {
			return err
		}
	}
	return nil
}

func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
