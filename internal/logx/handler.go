// Package logx builds the leveled, labelled logger shared by every command.
// Lines look like " I built in 0.512s": a one-letter severity label followed
// by the message and any attributes as key=value pairs.
package logx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// LevelFatal labels messages logged right before the process gives up.
const LevelFatal = slog.Level(12)

// Options configure a Handler.
type Options struct {
	// Level is the minimum level written. Nil means slog.LevelInfo.
	Level slog.Leveler
	// Color renders the severity label with ANSI colours.
	Color bool
}

// Handler is a slog.Handler writing labelled single-line records.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	labels map[slog.Level]string
	attrs  []slog.Attr
	group  string
}

// NewHandler returns a Handler writing to w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	if opts == nil {
		opts = &Options{}
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{
		mu:     &sync.Mutex{},
		w:      w,
		level:  level,
		labels: renderLabels(w, opts.Color),
	}
}

func renderLabels(w io.Writer, color bool) map[slog.Level]string {
	plain := map[slog.Level]string{
		slog.LevelDebug: "D",
		slog.LevelInfo:  "I",
		slog.LevelWarn:  "W",
		slog.LevelError: "E",
		LevelFatal:      "F",
	}
	if !color {
		return plain
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI)
	colors := map[slog.Level]lipgloss.Color{
		slog.LevelDebug: lipgloss.Color("8"),
		slog.LevelInfo:  lipgloss.Color("3"),
		slog.LevelWarn:  lipgloss.Color("5"),
		slog.LevelError: lipgloss.Color("1"),
		LevelFatal:      lipgloss.Color("1"),
	}
	out := make(map[slog.Level]string, len(plain))
	for lvl, label := range plain {
		out[lvl] = r.NewStyle().Foreground(colors[lvl]).Render(label)
	}
	return out
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) label(level slog.Level) string {
	switch {
	case level >= LevelFatal:
		return h.labels[LevelFatal]
	case level >= slog.LevelError:
		return h.labels[slog.LevelError]
	case level >= slog.LevelWarn:
		return h.labels[slog.LevelWarn]
	case level >= slog.LevelInfo:
		return h.labels[slog.LevelInfo]
	default:
		return h.labels[slog.LevelDebug]
	}
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteByte(' ')
	buf.WriteString(h.label(r.Level))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&buf, h.group, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(buf, key, ga)
		}
		return
	}
	fmt.Fprintf(buf, " %s=%v", key, a.Value.Any())
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	nh.group = name
	return &nh
}
