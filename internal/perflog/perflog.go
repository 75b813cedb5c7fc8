// Package perflog records search performance rows to external sinks, the
// default being a CSV file with one row per search.
package perflog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	search "github.com/pdrpinto/chase"
)

// Header is the first row of every CSV performance log.
var Header = []string{
	"Timestamp",
	"Algorithm",
	"Level",
	"SearchTimeSec",
	"MemoryUsageBytes",
	"NodesExpanded",
	"PathLength",
}

// Entry is one performance row.
type Entry struct {
	Timestamp     time.Time
	Algorithm     string
	Level         string
	SearchTime    time.Duration
	MemoryBytes   uint64
	NodesExpanded int
	PathLength    int
	Found         bool
}

// NewEntry builds the row for one search result. level labels the scenario.
func NewEntry[A any](algorithm, level string, result search.Result[A]) Entry {
	return Entry{
		Timestamp:     time.Now(),
		Algorithm:     algorithm,
		Level:         level,
		SearchTime:    result.Elapsed,
		MemoryBytes:   result.PeakMemory,
		NodesExpanded: result.ExpandedNodes,
		PathLength:    result.PathLength(),
		Found:         result.Found,
	}
}

func (e Entry) record() []string {
	return []string{
		e.Timestamp.Format(time.RFC3339Nano),
		e.Algorithm,
		e.Level,
		strconv.FormatFloat(e.SearchTime.Seconds(), 'f', -1, 64),
		strconv.FormatUint(e.MemoryBytes, 10),
		strconv.Itoa(e.NodesExpanded),
		strconv.Itoa(e.PathLength),
	}
}

// Sink accepts performance rows.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// CSV appends rows to a CSV file, writing Header once when the file is new.
// It is safe for concurrent use.
type CSV struct {
	mu   sync.Mutex
	path string
}

// NewCSV creates the parent directory and, if the file does not exist yet,
// the file with its header row.
func NewCSV(path string) (*CSV, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := appendRecords(path, Header); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &CSV{path: path}, nil
}

// Path returns the file the log appends to.
func (c *CSV) Path() string { return c.path }

func (c *CSV) Record(_ context.Context, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return appendRecords(c.path, entry.record())
}

func appendRecords(path string, records ...[]string) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Multi fans a row out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Record(ctx context.Context, entry Entry) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Record(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every row.
type Discard struct{}

func (Discard) Record(context.Context, Entry) error { return nil }
