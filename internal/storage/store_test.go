package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fractalvis/internal/config"
)

func bytesCapture(kind string, data []byte) Capture {
	return Capture{
		Kind: kind, Width: 4, Height: 2, Frames: 1,
		Encode: func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "gallery"))
	cfg := config.DefaultConfig()
	cfg.Mode = "tricorn"
	cfg.ColorMode = 3

	id, err := st.Save(cfg, bytesCapture(KindPNG, []byte("png-bytes")))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty capture id")
	}

	meta, err := st.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Mode != "tricorn" || meta.Kind != KindPNG || meta.Width != 4 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Config.ColorMode != 3 {
		t.Errorf("config not stored: %+v", meta.Config)
	}

	data, err := os.ReadFile(st.ImagePath(meta))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte("png-bytes")) {
		t.Errorf("image bytes: %q", data)
	}

	samples, err := st.LoadTimeline(id)
	if err != nil || samples != nil {
		t.Errorf("stills have no timeline, got %v, %v", samples, err)
	}
}

func TestStoreTimeline(t *testing.T) {
	st := New(t.TempDir())
	c := bytesCapture(KindGIF, []byte("gif"))
	c.Frames = 2
	c.Timeline = []Sample{
		{Time: 0, Zoom: 1, PanX: -0.5, PanY: 0.25, Mode: 2, Palette: 1.5, Iter: 100},
		{Time: 0.1, Zoom: 1.8, PanX: -0.74, PanY: 0.13, Mode: 2, Palette: 1.6, Iter: 120},
	}
	id, err := st.Save(config.DefaultConfig(), c)
	if err != nil {
		t.Fatal(err)
	}

	got, err := st.LoadTimeline(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[1] != c.Timeline[1] {
		t.Errorf("sample mismatch: %+v != %+v", got[1], c.Timeline[1])
	}
}

func TestStoreIDsDoNotCollide(t *testing.T) {
	st := New(t.TempDir())
	cfg := config.DefaultConfig()
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		id, err := st.Save(cfg, bytesCapture(KindPNG, nil))
		if err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}

	list, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Errorf("expected 3 captures, got %d", len(list))
	}
}

func TestStoreErrors(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Save(config.DefaultConfig(), bytesCapture("bmp", nil)); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := st.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	boom := errors.New("encode failed")
	c := bytesCapture(KindPNG, nil)
	c.Encode = func(io.Writer) error { return boom }
	if _, err := st.Save(config.DefaultConfig(), c); !errors.Is(err, boom) {
		t.Errorf("expected encode error, got %v", err)
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	list, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d", len(list))
	}
}
