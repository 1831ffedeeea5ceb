package rotoframe

import (
	"context"
	"io/fs"
	"log/slog"
	"sync"
	"testing"
)

// recordHandler keeps every record with the attributes bound through With.
type recordHandler struct {
	mu      *sync.Mutex
	records *[]loggedRecord
	attrs   []slog.Attr
}

type loggedRecord struct {
	level slog.Level
	msg   string
	attrs map[string]slog.Value
}

func newRecordHandler() *recordHandler {
	return &recordHandler{mu: &sync.Mutex{}, records: &[]loggedRecord{}}
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	rec := loggedRecord{level: r.Level, msg: r.Message, attrs: make(map[string]slog.Value)}
	for _, a := range h.attrs {
		rec.attrs[a.Key] = a.Value
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.attrs[a.Key] = a.Value
		return true
	})
	h.mu.Lock()
	*h.records = append(*h.records, rec)
	h.mu.Unlock()
	return nil
}

func (h *recordHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *recordHandler) WithGroup(string) slog.Handler { return h }

func (h *recordHandler) find(msg string) (loggedRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range *h.records {
		if r.msg == msg {
			return r, true
		}
	}
	return loggedRecord{}, false
}

func (h *recordHandler) count(msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range *h.records {
		if r.msg == msg {
			n++
		}
	}
	return n
}

func captureLogs(t *testing.T) *recordHandler {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	h := newRecordHandler()
	SetLogger(slog.New(h))
	return h
}

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).(nopHandler); !ok {
		t.Error("WithAttrs should return nopHandler")
	}
	if _, ok := h.WithGroup("g").(nopHandler); !ok {
		t.Error("WithGroup should return nopHandler")
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) should set nop logger, not nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

func TestSwitchLogsInfo(t *testing.T) {
	logs := captureLogs(t)

	s, err := NewSession(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SwitchSource(MustNullSource(10, 10)); err != nil {
		t.Fatal(err)
	}

	if n := logs.count("rotoframe: source switched"); n != 2 {
		t.Fatalf("source switched records = %d, want 2", n)
	}
	rec, _ := logs.find("rotoframe: source switched")
	if rec.level != slog.LevelInfo {
		t.Errorf("level = %v, want INFO", rec.level)
	}
	if got := rec.attrs["kind"].String(); got != "null" {
		t.Errorf("kind = %q, want null", got)
	}
	if _, ok := rec.attrs["generation"]; !ok {
		t.Error("switch record should carry the generation")
	}
}

func TestProbeFailureLogsWarn(t *testing.T) {
	logs := captureLogs(t)

	paths := []string{"gone.png"}
	codec := newCountingCodec(paths...)
	codec.fail["gone.png"] = fs.ErrNotExist

	s, err := NewSession(MustNullSource(6, 4), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SwitchSource(NewImageSequence(paths, WithCodec(codec))); err == nil {
		t.Fatal("expected probe error")
	}

	rec, ok := logs.find("rotoframe: first frame probe failed")
	if !ok {
		t.Fatal("no record for the failed probe")
	}
	if rec.level != slog.LevelWarn {
		t.Errorf("level = %v, want WARN", rec.level)
	}
	if got := rec.attrs["nominal_width"].Int64(); got != 6 {
		t.Errorf("nominal_width = %d, want the kept value 6", got)
	}
	if got := rec.attrs["kind"].String(); got != "image-sequence" {
		t.Errorf("kind = %q, want image-sequence", got)
	}
}

func TestPresentLogsDecodeAndUpload(t *testing.T) {
	logs := captureLogs(t)

	s, err := NewSession(MustNullSource(3, 2), nil)
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if _, err := s.Present(); err != nil {
			t.Fatal(err)
		}
	}

	rec, ok := logs.find("rotoframe: decoded frame")
	if !ok || rec.level != slog.LevelDebug {
		t.Fatalf("decoded frame record = %+v, want a DEBUG record", rec)
	}
	if rec.attrs["width"].Int64() != 3 || rec.attrs["height"].Int64() != 2 {
		t.Errorf("decoded frame attrs = %v", rec.attrs)
	}
	if n := logs.count("rotoframe: texture uploaded"); n != 1 {
		t.Errorf("texture uploaded records = %d, want 1", n)
	}
}
