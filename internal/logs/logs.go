// Package logs builds the run logger: a text handler for the terminal,
// fanned out to an optional JSON log file and the systemd journal.
package logs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Options selects the log handlers.
type Options struct {
	Level   slog.Level // Minimum level.
	Writer  io.Writer  // Terminal output; os.Stderr if nil.
	File    string     // If set, also log JSON to this file.
	Journal bool       // If set, also log to the systemd journal.
}

// ParseLevel parses "debug", "info", "warn" or "error".
// An empty name is "info".
func ParseLevel(name string) (level slog.Level, err error) {
	if len(name) == 0 {
		return
	}
	err = level.UnmarshalText([]byte(name))
	return
}

// New returns the logger, and a function to close its files.
func New(opts Options) (logger *slog.Logger, closer func() error, err error) {
	var handlers []slog.Handler
	var files []io.Closer

	closer = func() (err error) {
		for _, file := range files {
			err = errors.Join(err, file.Close())
		}
		return
	}

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	terminalHandler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: opts.Level,
	})
	handlers = append(handlers, terminalHandler)

	if len(opts.File) != 0 {
		var file *os.File
		file, err = os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return
		}
		files = append(files, file)
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level: opts.Level,
		}))
	}

	if opts.Journal {
		journalHandler, journalErr := slogjournal.NewHandler(&slogjournal.Options{
			Level: opts.Level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if journalErr != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", journalErr)
			_ = terminalHandler.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	logger = slog.New(slogmulti.Fanout(handlers...))

	return
}

// toJournalKey converts a key to a journal field name.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}
