package repo

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zlib"

	"gitvet/pkg/diff"
	"gitvet/pkg/object"
)

// fixture builds a real loose-object repository under a temp dir.
type fixture struct {
	t       *testing.T
	workDir string
	gitDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	workDir := t.TempDir()
	gitDir := filepath.Join(workDir, ".git")
	for _, dir := range []string{"objects", "refs/heads"} {
		if err := os.MkdirAll(filepath.Join(gitDir, filepath.FromSlash(dir)), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}
	return &fixture{t: t, workDir: workDir, gitDir: gitDir}
}

func (f *fixture) write(objType object.ObjectType, payload []byte) object.Hash {
	f.t.Helper()
	rec := object.RawRecord{Type: objType, Size: len(payload), Payload: payload}
	h := object.ContentHash(rec)

	dir := filepath.Join(f.gitDir, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		f.t.Fatalf("mkdir: %v", err)
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(object.Encode(rec)); err != nil {
		f.t.Fatalf("deflate: %v", err)
	}
	if err := zw.Close(); err != nil {
		f.t.Fatalf("deflate close: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, string(h[2:])), buf.Bytes(), 0o644); err != nil {
		f.t.Fatalf("write object: %v", err)
	}
	return h
}

func (f *fixture) blob(content string) object.Hash {
	return f.write(object.TypeBlob, []byte(content))
}

func (f *fixture) tree(entries ...object.TreeEntry) object.Hash {
	f.t.Helper()
	var buf bytes.Buffer
	for _, e := range entries {
		raw, err := hex.DecodeString(string(e.Hash))
		if err != nil || len(raw) != 20 {
			f.t.Fatalf("bad hash %q: %v", e.Hash, err)
		}
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return f.write(object.TypeTree, buf.Bytes())
}

func (f *fixture) commit(tree object.Hash, parents ...object.Hash) object.Hash {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", tree)
	for _, p := range parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author A <a@example.com> 1700000000 +0000\n\nfixture\n")
	return f.write(object.TypeCommit, buf.Bytes())
}

func (f *fixture) setHead(h object.Hash) {
	f.t.Helper()
	path := filepath.Join(f.gitDir, "refs", "heads", "main")
	if err := os.WriteFile(path, []byte(string(h)+"\n"), 0o644); err != nil {
		f.t.Fatalf("write ref: %v", err)
	}
}

func entry(mode, name string, h object.Hash) object.TreeEntry {
	return object.TreeEntry{Mode: mode, Name: name, Hash: h}
}

func TestOpenAndFsck(t *testing.T) {
	f := newFixture(t)
	blob := f.blob("hello\n")
	tree := f.tree(entry(object.ModeFile, "a.txt", blob))
	f.setHead(f.commit(tree))

	r, err := Open(f.workDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.Fsck(context.Background()); err != nil {
		t.Fatalf("Fsck: %v", err)
	}
}

func TestFsckDetectsCorruption(t *testing.T) {
	f := newFixture(t)
	blob := f.blob("pristine\n")
	tree := f.tree(entry(object.ModeFile, "a.txt", blob))
	f.setHead(f.commit(tree))

	// Rewrite the blob's file with different payload bytes under the same
	// name.
	rec := object.RawRecord{Type: object.TypeBlob, Size: 9, Payload: []byte("tampered\n")}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(object.Encode(rec)); err != nil {
		t.Fatalf("deflate: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("deflate close: %v", err)
	}
	path := filepath.Join(f.gitDir, "objects", string(blob[:2]), string(blob[2:]))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("overwrite object: %v", err)
	}

	r, err := Open(f.workDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.Fsck(context.Background()); !errors.Is(err, object.ErrInvalidSHA1) {
		t.Fatalf("got %v, want ErrInvalidSHA1", err)
	}
}

func TestChangesAgainstHead(t *testing.T) {
	f := newFixture(t)
	v1 := f.blob("version one\n")
	v2 := f.blob("version two\n")
	parent := f.commit(f.tree(entry(object.ModeFile, "a.txt", v1)))
	head := f.commit(f.tree(entry(object.ModeFile, "a.txt", v2)), parent)
	f.setHead(head)

	r, err := Open(f.workDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	changes, err := r.Changes(context.Background(), "HEAD")
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	want := []diff.Change{
		{Path: "a.txt", Action: diff.Updated, Old: []string{v1.Short()}, New: v2.Short()},
	}
	if !reflect.DeepEqual(changes, want) {
		t.Errorf("changes: got %+v, want %+v", changes, want)
	}
}

func TestChangesByExplicitHash(t *testing.T) {
	f := newFixture(t)
	blob := f.blob("by hash\n")
	root := f.commit(f.tree(entry(object.ModeFile, "a.txt", blob)))
	head := f.commit(f.tree(entry(object.ModeFile, "a.txt", blob)), root)
	f.setHead(head)

	r, err := Open(f.workDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	changes, err := r.Changes(context.Background(), string(root))
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if len(changes) != 1 || changes[0].Action != diff.Created || changes[0].Path != "a.txt" {
		t.Errorf("changes: got %+v", changes)
	}
}

func TestChangesRejectsShortRevision(t *testing.T) {
	f := newFixture(t)
	f.setHead(f.commit(f.tree()))

	r, err := Open(f.workDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := r.Changes(context.Background(), "abc123"); err == nil {
		t.Fatal("expected error for abbreviated revision")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
	if cfg.NoColor {
		t.Error("NoColor should default to false")
	}
	if cfg.RecordCacheSize != 0 {
		t.Errorf("RecordCacheSize: got %d, want 0 (store default applies)", cfg.RecordCacheSize)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "log_level = \"debug\"\nno_color = true\nrecord_cache_size = 64\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogLevel != "debug" || !cfg.NoColor || cfg.RecordCacheSize != 64 {
		t.Errorf("config: %+v", cfg)
	}
}

func TestLoadConfigBadToml(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("log_level = [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected error for malformed config")
	}
}
