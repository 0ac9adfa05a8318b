package logx

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"golang.org/x/term"
)

// LevelFor returns the minimum level for the quiet toggle: quiet keeps
// errors and worse only.
func LevelFor(quiet bool) slog.Level {
	if quiet {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New returns a logger writing labelled lines to w. Labels are coloured when
// w is a terminal.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, &Options{Level: level, Color: isTerminal(w)}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(NewHandler(io.Discard, &Options{Level: LevelFatal + 1}))
}

// Setup creates the command logger: labelled text to stderr and, when
// logFile is set, JSON records appended to logFile. The returned cleanup
// closes the file.
func Setup(stderr io.Writer, level slog.Level, logFile string) (*slog.Logger, func() error) {
	textHandler := NewHandler(stderr, &Options{Level: level, Color: isTerminal(stderr)})
	if logFile == "" {
		return slog.New(textHandler), func() error { return nil }
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(textHandler)
		logger.Warn("failed to open log file, using stderr only", "error", err, "file", logFile)
		return logger, func() error { return nil }
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: replaceLevelName,
	})
	logger := slog.New(slogmulti.Fanout(textHandler, fileHandler))
	return logger, file.Close
}

func replaceLevelName(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelFatal {
			a.Value = slog.StringValue("FATAL")
		}
	}
	return a
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
