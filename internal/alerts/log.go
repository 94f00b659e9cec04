package alerts

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// ErrLogWrite wraps any failure to append to the alert log.
var ErrLogWrite = errors.New("alert log write failed")

const timestampLayout = "02-01-2006 15:04:05"

// Log is the append-only alert log. All appends go through one O_APPEND
// handle and are serialized by mu.
type Log struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	nowFunc func() time.Time
}

// OpenLog opens (creating if needed) the alert log at path.
func OpenLog(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open alert log: %w", err)
	}
	return &Log{path: path, file: f, nowFunc: time.Now}, nil
}

// Append writes "[dd-mm-YYYY HH:MM:SS] msg" as a single line.
func (l *Log) Append(msg string) error {
	msg = strings.ReplaceAll(msg, "\n", " ")
	line := fmt.Sprintf("[%s] %s\n", l.nowFunc().Format(timestampLayout), msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.WriteString(line); err != nil {
		return fmt.Errorf("%w: %w", ErrLogWrite, err)
	}
	return nil
}

// Tail returns up to the last n lines of the log, oldest first.
func (l *Log) Tail(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open alert log: %w", err)
	}
	defer f.Close()

	ring := make([]string, 0, n)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read alert log: %w", err)
	}
	return ring, nil
}

// Close releases the log handle.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
