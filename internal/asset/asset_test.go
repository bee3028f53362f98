package asset

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close png: %v", err)
	}
}

func TestListFiltersImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 2, 2)
	for _, name := range []string{"a.JPG", "c.gif", "d.bmp", "notes.txt", "e.jpeg.bak"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "folder.png"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	paths, err := List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"a.JPG", "b.png", "c.gif", "d.bmp"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d images, got %v", len(want), paths)
	}
	for i, name := range want {
		if paths[i] != filepath.Join(dir, name) {
			t.Fatalf("expected %s at %d, got %s", name, i, paths[i])
		}
	}
}

func TestListMissingDirectoryIsEmpty(t *testing.T) {
	paths, err := List(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no images, got %v", paths)
	}
	if paths, _ := List("  "); len(paths) != 0 {
		t.Fatalf("expected blank directory to yield nothing")
	}
}

func TestFileLoaderDecodesAndReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writePNG(t, good, 4, 3)
	img, err := FileLoader{}.Load(good)
	if err != nil {
		t.Fatalf("load good image: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("unexpected bounds %v", b)
	}

	broken := filepath.Join(dir, "broken.gif")
	if err := os.WriteFile(broken, []byte("not a gif"), 0o644); err != nil {
		t.Fatalf("write broken: %v", err)
	}
	_, err = FileLoader{}.Load(broken)
	var assetErr *Error
	if !errors.As(err, &assetErr) || assetErr.Path != broken {
		t.Fatalf("expected *Error for %s, got %v", broken, err)
	}

	_, err = FileLoader{}.Load(filepath.Join(dir, "vanished.png"))
	if !errors.As(err, &assetErr) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

type firstIndex struct{}

func (firstIndex) Intn(int) int { return 0 }

func TestPoolOrderedSet(t *testing.T) {
	p := NewPool([]string{"a", "b", "a", "c"})
	if p.Len() != 3 {
		t.Fatalf("expected duplicates dropped, got %v", p.paths)
	}
	if p.Pick(firstIndex{}) != "a" {
		t.Fatalf("expected first path")
	}
	if !p.Remove("a") || p.Remove("a") {
		t.Fatalf("remove should report presence once")
	}
	if got := p.paths; len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("unexpected order after remove: %v", got)
	}
	p.Remove("b")
	p.Remove("c")
	if !p.Empty() || p.Pick(firstIndex{}) != "" {
		t.Fatalf("expected empty pool")
	}
}
