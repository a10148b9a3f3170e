// Package logging persists per-run artifacts: the raw output streamed by
// the runner process and the event trace drained from the channel, one
// file per test case under logs/<runID>/.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"
)

// FileLogger owns the log directory of one harness run.
type FileLogger struct {
	runDir string
	logger log.Logger

	mu    sync.Mutex
	files map[string]*os.File
}

// NewFileLogger creates the run's log directory under baseDir.
func NewFileLogger(baseDir, runID string, logger log.Logger) (*FileLogger, error) {
	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run log directory: %w", err)
	}
	return &FileLogger{
		runDir: runDir,
		logger: logger,
		files:  make(map[string]*os.File),
	}, nil
}

// RunDir returns the directory holding this run's logs.
func (f *FileLogger) RunDir() string {
	return f.runDir
}

// Writer returns a writer that appends to the case's log file with ANSI
// escape sequences stripped. The file is created on first use and kept
// open until Close.
func (f *FileLogger) Writer(caseID string) (io.Writer, error) {
	file, err := f.file(caseID)
	if err != nil {
		return nil, err
	}
	return &scrubWriter{file: file}, nil
}

// LogLine appends one line to the case's log file.
func (f *FileLogger) LogLine(caseID, line string) {
	file, err := f.file(caseID)
	if err != nil {
		f.logger.Error("Failed to open case log", "case", caseID, "err", err)
		return
	}
	if _, err := fmt.Fprintln(file, stripansi.Strip(line)); err != nil {
		f.logger.Error("Failed to write case log", "case", caseID, "err", err)
	}
}

// Close flushes and closes every case log file.
func (f *FileLogger) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var firstErr error
	for id, file := range f.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log for %s: %w", id, err)
		}
	}
	f.files = make(map[string]*os.File)
	return firstErr
}

func (f *FileLogger) file(caseID string) (*os.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if file, ok := f.files[caseID]; ok {
		return file, nil
	}

	name := caseID
	if name == "" {
		name = "unnamed"
	}
	path := filepath.Join(f.runDir, name+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	f.files[caseID] = file
	return file, nil
}

// scrubWriter strips ANSI escapes before writing through. It reports the
// original length so upstream writers see a full write.
type scrubWriter struct {
	file *os.File
}

func (w *scrubWriter) Write(p []byte) (int, error) {
	if _, err := w.file.WriteString(stripansi.Strip(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}
