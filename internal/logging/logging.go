// Package logging builds the command logger: a size-rotated file under
// .gitissues/.tmp, optionally mirrored to stderr.
package logging

import (
	"io"
	"log"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file created inside the tmp directory.
const FileName = "git-issue.log"

// Options configures New.
type Options struct {
	// Dir is the directory holding the log file. Empty disables the file.
	Dir string
	// Verbose also writes every line to Stderr.
	Verbose bool
	Stderr  io.Writer
	// MaxSizeMB and MaxBackups bound the rotated files.
	MaxSizeMB  int
	MaxBackups int
}

// New returns a logger and a close function that releases the log file.
func New(opts Options) (*log.Logger, func() error) {
	var writers []io.Writer
	closeFn := func() error { return nil }

	if opts.Dir != "" {
		maxSize := opts.MaxSizeMB
		if maxSize == 0 {
			maxSize = 1
		}
		maxBackups := opts.MaxBackups
		if maxBackups == 0 {
			maxBackups = 2
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, FileName),
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
		}
		writers = append(writers, file)
		closeFn = file.Close
	}
	if opts.Verbose && opts.Stderr != nil {
		writers = append(writers, opts.Stderr)
	}
	if len(writers) == 0 {
		return Discard(), closeFn
	}
	return log.New(io.MultiWriter(writers...), "[git-issue] ", log.LstdFlags), closeFn
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
