package fsfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hrntsm/dmkit/internal/domain"
)

func TestDirSink_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	sink := NewDirSink(dir)

	loc, err := sink.Deliver(context.Background(), "sphere.3dm", []byte("payload"))
	if err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	if loc != filepath.Join(dir, "sphere.3dm") {
		t.Fatalf("unexpected location %q", loc)
	}
	b, err := os.ReadFile(loc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "payload" {
		t.Fatalf("unexpected content %q", b)
	}
	if _, err := os.Stat(loc + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected tmp file to be gone")
	}
}

func TestDirSink_PicksFreeName(t *testing.T) {
	dir := t.TempDir()
	sink := NewDirSink(dir)

	first, err := sink.Deliver(context.Background(), "sphere.3dm", []byte("1"))
	if err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	second, err := sink.Deliver(context.Background(), "sphere.3dm", []byte("2"))
	if err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct files, got %q twice", first)
	}
	if filepath.Base(second) != "sphere (1).3dm" {
		t.Fatalf("unexpected second name %q", filepath.Base(second))
	}
}

func TestDirSink_Overwrite(t *testing.T) {
	dir := t.TempDir()
	sink := NewDirSink(dir, WithOverwrite(true))

	_, _ = sink.Deliver(context.Background(), "sphere.3dm", []byte("1"))
	loc, err := sink.Deliver(context.Background(), "sphere.3dm", []byte("2"))
	if err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	b, _ := os.ReadFile(loc)
	if string(b) != "2" {
		t.Fatalf("expected overwritten content, got %q", b)
	}
}

func TestDirSink_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	loc, err := NewDirSink(dir).Deliver(context.Background(), "../../escape.3dm", []byte("x"))
	if err != nil {
		t.Fatalf("Deliver error: %v", err)
	}
	if filepath.Dir(loc) != dir {
		t.Fatalf("expected file inside %s, got %s", dir, loc)
	}
}

func TestDirSink_InvalidName(t *testing.T) {
	_, err := NewDirSink(t.TempDir()).Deliver(context.Background(), "  ", []byte("x"))
	if !domain.IsKind(err, domain.KindInvalidParameter) {
		t.Fatalf("expected KindInvalidParameter, got %v", err)
	}
}

func TestSource_ReadAll(t *testing.T) {
	p := filepath.Join(t.TempDir(), "in.3dm")
	if err := os.WriteFile(p, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewSource(p)
	if src.Name() != p {
		t.Fatalf("unexpected name %q", src.Name())
	}
	b, err := src.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if string(b) != "abc" {
		t.Fatalf("unexpected content %q", b)
	}
}

func TestSource_Missing(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "nope.3dm")).ReadAll(context.Background())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestSource_Directory(t *testing.T) {
	_, err := NewSource(t.TempDir()).ReadAll(context.Background())
	if !domain.IsKind(err, domain.KindInvalidParameter) {
		t.Fatalf("expected KindInvalidParameter, got %v", err)
	}
	if msg := err.Error(); strings.Contains(msg, "\n") || !strings.Contains(msg, "is a directory: invalid parameter") {
		t.Fatalf("expected a single-line message, got %q", msg)
	}
}

func TestSource_TooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.3dm")
	if err := os.WriteFile(p, make([]byte, 32), 0o644); err != nil {
		t.Fatal(err)
	}
	src := NewSource(p)
	src.maxSize = 16

	_, err := src.ReadAll(context.Background())
	if !domain.IsKind(err, domain.KindInvalidParameter) {
		t.Fatalf("expected KindInvalidParameter, got %v", err)
	}
	if strings.Contains(err.Error(), "\n") {
		t.Fatalf("expected a single-line message, got %q", err.Error())
	}
}

func TestSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSource("whatever").ReadAll(ctx); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSources(t *testing.T) {
	srcs := Sources([]string{"a.3dm", "b.3dm"})
	if len(srcs) != 2 || srcs[1].Name() != "b.3dm" {
		t.Fatalf("unexpected sources %+v", srcs)
	}
}
