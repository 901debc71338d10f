// Package logging builds the application logger: a rotating file plus an
// optional feed for the terminal UI log pane.
package logging

import (
	"io"
	"log"
	"strings"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

const uiLogBuffer = 256

// Options configures the rotating log file
type Options struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewFileWriter returns a size-rotated log file writer
func NewFileWriter(opts Options) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		LocalTime:  true,
	}
}

// New creates the logger shared by all components
func New(out io.Writer) *log.Logger {
	return log.New(out, "", log.LstdFlags|log.Lmicroseconds)
}

// ChannelWriter turns log output into lines on a channel. Writes never
// block; lines are dropped while the reader is behind.
type ChannelWriter struct {
	lines   chan string
	dropped atomic.Int64
}

func NewChannelWriter(buffer int) *ChannelWriter {
	if buffer <= 0 {
		buffer = uiLogBuffer
	}
	return &ChannelWriter{lines: make(chan string, buffer)}
}

func (w *ChannelWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		select {
		case w.lines <- line:
		default:
			w.dropped.Add(1)
		}
	}
	return len(p), nil
}

// Lines is the channel the UI reads log lines from
func (w *ChannelWriter) Lines() <-chan string {
	return w.lines
}

// Dropped returns how many lines were discarded because the channel was full
func (w *ChannelWriter) Dropped() int64 {
	return w.dropped.Load()
}

// Setup bundles the writers created for one run of the program
type Setup struct {
	Logger *log.Logger
	File   *lumberjack.Logger
	UI     *ChannelWriter // nil unless requested
}

// NewSetup creates the file writer and, when withUI is set, a UI channel writer
// fed from the same logger
func NewSetup(opts Options, withUI bool) *Setup {
	s := &Setup{File: NewFileWriter(opts)}
	var out io.Writer = s.File
	if withUI {
		s.UI = NewChannelWriter(uiLogBuffer)
		out = io.MultiWriter(s.File, s.UI)
	}
	s.Logger = New(out)
	return s
}

// Close flushes and closes the log file
func (s *Setup) Close() error {
	return s.File.Close()
}
