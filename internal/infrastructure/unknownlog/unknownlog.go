// Package unknownlog records unresolved receipt candidates to an
// append-only text file, the feedback loop for dictionary curation.
package unknownlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// FileLog appends one line per unresolved candidate:
//
//	<timestamp> | <candidate_name> | <original_line>
//
// Appends are serialized under a mutex and written in a single O_APPEND
// call, so concurrent pipelines never interleave partial lines. No
// read-modify-write ever happens on the file.
type FileLog struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileLog creates a log writing to path. The file is created on first append.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path, now: time.Now}
}

// Append records one unresolved candidate
func (l *FileLog) Append(candidateName, originalLine string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open unknown-items log: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s | %s | %s\n", l.now().Format(time.RFC3339), candidateName, originalLine)
	if err != nil {
		return fmt.Errorf("append unknown item: %w", err)
	}
	return nil
}
