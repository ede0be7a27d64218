// Package csvsink owns the CSV output file of a sampling session.
//
// The header is written once per file lifetime: a file that already exists
// is appended to as-is, so repeated runs against the same path accumulate
// history under a single header. Every appended row is flushed and synced
// to storage before Append returns.
package csvsink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/ja7ad/numastat/pkg/sample"
)

// DefaultPath is the output file used when none is configured.
const DefaultPath = "numa_stat_log.csv"

// Sink appends rows to an open CSV file.
type Sink struct {
	path    string
	nodes   int
	created bool
	rows    uint64

	f *os.File
	w *csv.Writer
}

// EnsureHeader creates path and writes the header for nodes nodes, unless
// the file already exists. It reports whether the file was created.
func EnsureHeader(path string, nodes int) (bool, error) {
	if nodes <= 0 {
		return false, fmt.Errorf("%w: %d", ErrNodes, nodes)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("%w: %w", ErrOpen, err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	if err := writeHeader(f, nodes); err != nil {
		_ = f.Close()
		// a headerless file would be taken as existing by every later run
		_ = os.Remove(path)
		return false, fmt.Errorf("header %s: %w", path, err)
	}
	return true, f.Close()
}

// syncFile is replaced in tests to simulate storage failures.
var syncFile = (*os.File).Sync

func writeHeader(f *os.File, nodes int) error {
	w := csv.NewWriter(f)
	_ = w.Write(sample.Header(nodes))
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := syncFile(f); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// Open ensures the header and opens path for appending.
func Open(path string, nodes int) (*Sink, error) {
	created, err := EnsureHeader(path, nodes)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return &Sink{
		path:    path,
		nodes:   nodes,
		created: created,
		f:       f,
		w:       csv.NewWriter(f),
	}, nil
}

// Path returns the output path.
func (s *Sink) Path() string { return s.path }

// Created reports whether this session created the file (and its header).
func (s *Sink) Created() bool { return s.created }

// Rows returns the number of rows appended by this session.
func (s *Sink) Rows() uint64 { return s.rows }

// Append writes r and syncs it to storage.
func (s *Sink) Append(r *sample.Row) error {
	if s.f == nil {
		return ErrClosed
	}
	if r.Nodes() != s.nodes {
		return fmt.Errorf("%w: row has %d nodes, file has %d", ErrSchema, r.Nodes(), s.nodes)
	}
	if err := s.w.Write(r.Record()); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", s.path, err)
	}
	if err := syncFile(s.f); err != nil {
		return fmt.Errorf("sync %s: %w", s.path, err)
	}
	s.rows++
	return nil
}

// Close flushes and closes the file. Closing twice is a no-op.
func (s *Sink) Close() error {
	if s.f == nil {
		return nil
	}
	s.w.Flush()
	werr := s.w.Error()
	cerr := s.f.Close()
	s.f = nil
	if werr != nil {
		return fmt.Errorf("flush %s: %w", s.path, werr)
	}
	return cerr
}

// CheckHeader reports whether the first record of path is the header for
// nodes nodes. An empty file does not match.
func CheckHeader(path string, nodes int) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rec, err := r.Read()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read header %s: %w", path, err)
	}
	return slices.Equal(rec, sample.Header(nodes)), nil
}
