// Package repo ties the object session, diff engine, and disk store
// together for one opened repository.
package repo

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gitvet/pkg/diff"
	"gitvet/pkg/logging"
	"gitvet/pkg/object"
	"gitvet/pkg/store"
)

// Repo is an opened repository: its disk store, tool config, and logger.
type Repo struct {
	RootDir string
	Store   *store.DiskStore
	Config  Config
	Log     *zap.Logger
}

// Open resolves the git directory under path, loads .gitvet.toml if
// present, and builds the logger and disk store.
func Open(path string) (*Repo, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	st, err := store.OpenDisk(path, cfg.RecordCacheSize, log)
	if err != nil {
		return nil, err
	}

	return &Repo{RootDir: path, Store: st, Config: cfg, Log: log}, nil
}

// Session starts a fresh object session over the repository's store.
func (r *Repo) Session() *object.Session {
	return object.NewSession(r.Store, r.Log)
}

// Fsck validates the object graph reachable from HEAD.
func (r *Repo) Fsck(ctx context.Context) error {
	return r.Session().CheckHead(ctx)
}

// Changes computes the changeset a commit introduces relative to its
// parents. The revision is "HEAD" (or empty) or a full 40-character hash.
func (r *Repo) Changes(ctx context.Context, rev string) ([]diff.Change, error) {
	session := r.Session()

	commit, err := r.resolveCommit(session, rev)
	if err != nil {
		return nil, err
	}
	return diff.New(session, r.Log).CommitDiff(ctx, commit)
}

func (r *Repo) resolveCommit(session *object.Session, rev string) (*object.Object, error) {
	if rev == "" || rev == "HEAD" {
		return session.Head()
	}
	rev = strings.ToLower(rev)
	if len(rev) != 40 {
		return nil, fmt.Errorf("revision %q: only HEAD or a full 40-character hash is supported", rev)
	}
	return session.Get(object.Hash(rev), object.KindCommit, 0)
}
