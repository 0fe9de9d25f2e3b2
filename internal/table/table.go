// Package table provides a generic flat-file table: one file per entity
// collection, one record per line, keyed by a designated field. Updates
// rewrite the whole file through a temporary path and rename, so a reader
// never observes a partially written file.
package table

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bankledger/internal/models"
	"bankledger/internal/record"
)

// Schema describes how a record type maps onto a delimited line.
type Schema[T any] struct {
	// Width is the exact number of fields per line.
	Width int
	// Key extracts the identifying field used by Find and ReplaceWhere.
	Key func(T) string
	// Encode renders a record as ordered fields.
	Encode func(T) []string
	// Decode builds a record from fields; a failure (bad number, bad
	// timestamp) is treated the same as a wrong field count.
	Decode func([]string) (T, error)
}

// Table is a read-all/rewrite-all accessor for one logical table. It holds no
// cached state: every Scan reflects the file as it is on disk at call time.
type Table[T any] struct {
	path   string
	schema Schema[T]
	logger *slog.Logger
}

// New creates a table accessor for the file at path.
func New[T any](path string, schema Schema[T], logger *slog.Logger) *Table[T] {
	return &Table[T]{path: path, schema: schema, logger: logger}
}

// Path returns the backing file path.
func (t *Table[T]) Path() string {
	return t.path
}

// Scan reads every record in the file. A line that fails to decode is skipped
// and logged, never propagated, so one bad line cannot block the rest. A
// missing file is an empty table, not an error.
func (t *Table[T]) Scan() ([]T, error) {
	f, err := os.Open(t.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", t.path, err)
	}
	defer f.Close()

	var records []T
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rec, err := t.decodeLine(line)
		if err != nil {
			t.logger.Warn("skipping malformed record",
				"table", t.path,
				"line", line,
				"error", err,
			)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read table %s: %w", t.path, err)
	}
	return records, nil
}

// Find scans until the first record whose key matches. Duplicates beyond the
// first are ignored; preventing them is the writer's job.
func (t *Table[T]) Find(key string) (T, error) {
	var zero T
	records, err := t.Scan()
	if err != nil {
		return zero, err
	}
	for _, rec := range records {
		if t.schema.Key(rec) == key {
			return rec, nil
		}
	}
	return zero, fmt.Errorf("%w: key %q in %s", models.ErrNotFound, key, t.path)
}

// Append encodes one record and writes it to the end of the file, creating
// the file and its directory if absent. The write is flushed before return.
func (t *Table[T]) Append(rec T) error {
	line, err := record.Encode(t.schema.Encode(rec))
	if err != nil {
		return fmt.Errorf("encode record for %s: %w", t.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("%w: create table directory: %v", models.ErrWriteFailure, err)
	}
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s for append: %v", models.ErrWriteFailure, t.path, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("%w: append to %s: %v", models.ErrWriteFailure, t.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("%w: sync %s: %v", models.ErrWriteFailure, t.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", models.ErrWriteFailure, t.path, err)
	}
	return nil
}

// ReplaceWhere applies mutate to every record whose key matches, re-encodes
// the whole table, and swaps it in atomically (temp file + rename). Lines
// that do not decode are carried through verbatim so an unrelated update
// never destroys data it cannot read. Returns ErrNotFound if no record
// matched; the file is untouched in that case and on any write failure.
func (t *Table[T]) ReplaceWhere(key string, mutate func(T) T) error {
	f, err := os.Open(t.path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: key %q in %s", models.ErrNotFound, key, t.path)
	}
	if err != nil {
		return fmt.Errorf("open table %s: %w", t.path, err)
	}

	var lines []string
	matched := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rec, err := t.decodeLine(line)
		if err != nil {
			t.logger.Warn("preserving malformed record during rewrite",
				"table", t.path,
				"line", line,
				"error", err,
			)
			lines = append(lines, line)
			continue
		}
		if t.schema.Key(rec) == key {
			matched = true
			rec = mutate(rec)
		}
		encoded, err := record.Encode(t.schema.Encode(rec))
		if err != nil {
			f.Close()
			return fmt.Errorf("re-encode record in %s: %w", t.path, err)
		}
		lines = append(lines, encoded)
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return fmt.Errorf("read table %s: %w", t.path, err)
	}
	f.Close()

	if !matched {
		return fmt.Errorf("%w: key %q in %s", models.ErrNotFound, key, t.path)
	}
	return t.writeAtomic(lines)
}

// DeleteWhere removes every record whose key matches, rewriting the table
// atomically like ReplaceWhere. Returns ErrNotFound if no record matched.
func (t *Table[T]) DeleteWhere(key string) error {
	f, err := os.Open(t.path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: key %q in %s", models.ErrNotFound, key, t.path)
	}
	if err != nil {
		return fmt.Errorf("open table %s: %w", t.path, err)
	}

	var lines []string
	matched := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rec, err := t.decodeLine(line)
		if err == nil && t.schema.Key(rec) == key {
			matched = true
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return fmt.Errorf("read table %s: %w", t.path, err)
	}
	f.Close()

	if !matched {
		return fmt.Errorf("%w: key %q in %s", models.ErrNotFound, key, t.path)
	}
	return t.writeAtomic(lines)
}

// writeAtomic writes the full set of lines to a temporary file in the table's
// directory, then renames it over the original.
func (t *Table[T]) writeAtomic(lines []string) error {
	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(t.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %v", models.ErrWriteFailure, dir, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			cleanup()
			return fmt.Errorf("%w: write %s: %v", models.ErrWriteFailure, tmpPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("%w: flush %s: %v", models.ErrWriteFailure, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("%w: sync %s: %v", models.ErrWriteFailure, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close %s: %v", models.ErrWriteFailure, tmpPath, err)
	}
	if err := os.Rename(tmpPath, t.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: swap %s into place: %v", models.ErrWriteFailure, tmpPath, err)
	}
	return nil
}

func (t *Table[T]) decodeLine(line string) (T, error) {
	var zero T
	fields, err := record.Decode(line, t.schema.Width)
	if err != nil {
		return zero, err
	}
	rec, err := t.schema.Decode(fields)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", models.ErrMalformedRecord, err)
	}
	return rec, nil
}
