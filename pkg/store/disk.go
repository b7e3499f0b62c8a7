// Package store provides the physical object backends consumed by the
// object session: a disk store over a git directory layout and an in-memory
// store used as a test double.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"

	"gitvet/pkg/object"
)

// DefaultRecordCacheSize bounds the decompressed-record cache when the
// caller does not configure one.
const DefaultRecordCacheSize = 512

// DiskStore reads loose objects and refs from a git directory. Records are
// inflated once and kept in a bounded LRU; object identity is not this
// layer's concern, so eviction is safe here.
type DiskStore struct {
	gitDir  string
	records *lru.Cache[object.Hash, object.RawRecord]
	log     *zap.Logger
}

// OpenDisk opens the git directory for a repository path. The path may be a
// work tree containing ".git", the git directory itself, or a bare
// repository.
func OpenDisk(path string, cacheSize int, log *zap.Logger) (*DiskStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultRecordCacheSize
	}

	gitDir, err := findGitDir(path)
	if err != nil {
		return nil, err
	}

	records, err := lru.New[object.Hash, object.RawRecord](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("open %s: record cache: %w", path, err)
	}

	return &DiskStore{gitDir: gitDir, records: records, log: log}, nil
}

// GitDir returns the resolved git directory.
func (s *DiskStore) GitDir() string { return s.gitDir }

func findGitDir(path string) (string, error) {
	if isDir(filepath.Join(path, ".git")) {
		return filepath.Join(path, ".git"), nil
	}
	// The path itself may be a git directory (".git" or a bare repo).
	if isDir(filepath.Join(path, "objects")) && fileExists(filepath.Join(path, "HEAD")) {
		return path, nil
	}
	return "", fmt.Errorf("open %s: not a git repository", path)
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ResolveHead reads HEAD and follows a symbolic ref through loose refs and
// packed-refs. A detached HEAD holds the hash directly.
func (s *DiskStore) ResolveHead() (object.Hash, error) {
	data, err := os.ReadFile(filepath.Join(s.gitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("read HEAD in %s: %w", s.gitDir, object.ErrHeadNotFound)
	}
	line := strings.TrimSpace(string(data))

	ref, symbolic := strings.CutPrefix(line, "ref: ")
	if !symbolic {
		if !isHexHash(line) {
			return "", fmt.Errorf("detached HEAD %q: %w", line, object.ErrHeadNotFound)
		}
		return object.Hash(line), nil
	}

	refData, err := os.ReadFile(filepath.Join(s.gitDir, filepath.FromSlash(ref)))
	if err == nil {
		h := strings.TrimSpace(string(refData))
		if !isHexHash(h) {
			return "", fmt.Errorf("ref %s holds %q: %w", ref, h, object.ErrHeadNotFound)
		}
		return object.Hash(h), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read ref %s: %w", ref, err)
	}

	return s.packedRef(ref)
}

// packedRef scans packed-refs for a ref name. Comment lines and peeled tag
// lines (leading '^') are skipped.
func (s *DiskStore) packedRef(ref string) (object.Hash, error) {
	data, err := os.ReadFile(filepath.Join(s.gitDir, "packed-refs"))
	if err != nil {
		return "", fmt.Errorf("ref %s not found: %w", ref, object.ErrHeadNotFound)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" || line[0] == '#' || line[0] == '^' {
			continue
		}
		hash, name, ok := strings.Cut(line, " ")
		if !ok || strings.TrimSpace(name) != ref {
			continue
		}
		if !isHexHash(hash) {
			continue
		}
		s.log.Debug("resolved packed ref", zap.String("ref", ref), zap.String("hash", hash))
		return object.Hash(hash), nil
	}
	return "", fmt.Errorf("ref %s not found: %w", ref, object.ErrHeadNotFound)
}

// LoadObject reads and inflates the loose object for a hash. Decompressed
// records are cached.
func (s *DiskStore) LoadObject(h object.Hash) (object.RawRecord, error) {
	if !isHexHash(string(h)) {
		return object.RawRecord{}, fmt.Errorf("load %q: not a hash: %w", h, object.ErrMissingObject)
	}
	if rec, ok := s.records.Get(h); ok {
		s.log.Debug("record cache hit", zap.String("hash", string(h)))
		return rec, nil
	}

	path := filepath.Join(s.gitDir, "objects", string(h[:2]), string(h[2:]))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return object.RawRecord{}, fmt.Errorf("object %s not found at %s: %w", h, path, object.ErrMissingObject)
		}
		return object.RawRecord{}, fmt.Errorf("object read %s: %w", h, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return object.RawRecord{}, fmt.Errorf("inflate %s: %w", h, object.ErrMalformedRecord)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return object.RawRecord{}, fmt.Errorf("inflate %s: %w", h, object.ErrMalformedRecord)
	}

	rec, err := object.ParseRecord(raw)
	if err != nil {
		return object.RawRecord{}, fmt.Errorf("object %s: %w", h, err)
	}

	s.records.Add(h, rec)
	s.log.Debug("loaded loose object",
		zap.String("hash", string(h)),
		zap.String("type", string(rec.Type)),
		zap.Int("size", rec.Size))
	return rec, nil
}

func isHexHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
