package object

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Store is the boundary to a physical object backend. Implementations wrap
// resolution failures in ErrHeadNotFound / ErrMissingObject.
type Store interface {
	ResolveHead() (Hash, error)
	LoadObject(h Hash) (RawRecord, error)
}

// Session is a per-run arena of objects indexed by hash. It guarantees at
// most one Object instance per hash, so a subtree reachable from several
// commits is constructed and validated once. Sessions are single-threaded
// and discarded when the run ends.
type Session struct {
	store   Store
	objects map[Hash]*Object
	log     *zap.Logger
}

// NewSession creates an empty session over a store. A nil logger disables
// logging.
func NewSession(store Store, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		store:   store,
		objects: make(map[Hash]*Object),
		log:     log,
	}
}

// Get returns the session's object for a hash, loading and constructing it
// on first request. The caller supplies the variant it expects; a cached
// object is returned as-is regardless of the kind it was first requested
// under. Submodule references are synthesized without touching the store:
// their payload lives in a foreign object graph and is never verified.
func (s *Session) Get(h Hash, kind Kind, depth int) (*Object, error) {
	if o, ok := s.objects[h]; ok {
		return o, nil
	}

	if kind == KindSubmodule {
		o := &Object{Hash: h, Kind: KindSubmodule, Depth: depth, validated: true}
		s.objects[h] = o
		return o, nil
	}

	rec, err := s.store.LoadObject(h)
	if err != nil {
		return nil, err
	}

	o := &Object{Hash: h, Kind: kind, Record: rec, Depth: depth}
	s.objects[h] = o
	s.log.Debug("constructed object",
		zap.String("hash", string(h)),
		zap.Stringer("kind", kind),
		zap.Int("depth", depth))
	return o, nil
}

// Validate checks an object's invariants and recurses into everything it
// references. The check order is fixed: type agreement, then size
// agreement, then content hash, then per-variant structure. Each object is
// validated at most once per session; the first failure aborts the walk.
func (s *Session) Validate(ctx context.Context, o *Object) error {
	if o.validated {
		return nil
	}
	o.validated = true

	if err := ctx.Err(); err != nil {
		return err
	}

	if want := o.Kind.Type(); o.Record.Type != want {
		return fmt.Errorf("object %s: declared %q, expected %q: %w",
			o.Hash, o.Record.Type, want, ErrInvalidType)
	}
	if o.Record.Size != len(o.Record.Payload) {
		return fmt.Errorf("object %s: declared size %d, payload is %d bytes: %w",
			o.Hash, o.Record.Size, len(o.Record.Payload), ErrInvalidSize)
	}
	if got := ContentHash(o.Record); got != o.Hash {
		return fmt.Errorf("object %s: content hashes to %s: %w",
			o.Hash, got, ErrInvalidSHA1)
	}

	switch o.Kind {
	case KindTree:
		return s.validateTree(ctx, o)
	case KindCommit:
		return s.validateCommit(ctx, o)
	default:
		// Blob-family payloads carry no structural constraints.
		return nil
	}
}

func (s *Session) validateTree(ctx context.Context, o *Object) error {
	entries, err := o.Entries()
	if err != nil {
		return fmt.Errorf("tree %s: %w", o.Hash, err)
	}
	for _, entry := range entries {
		child, err := s.Get(entry.Hash, entry.Kind, o.Depth+1)
		if err != nil {
			return fmt.Errorf("tree %s entry %q: %w", o.Hash, entry.Name, err)
		}
		if err := s.Validate(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) validateCommit(ctx context.Context, o *Object) error {
	info, err := o.Commit()
	if err != nil {
		return fmt.Errorf("commit %s: %w", o.Hash, err)
	}

	tree, err := s.Get(info.Tree, KindTree, o.Depth+1)
	if err != nil {
		return fmt.Errorf("commit %s: %w", o.Hash, err)
	}
	if err := s.Validate(ctx, tree); err != nil {
		return err
	}

	for _, parent := range info.Parents {
		p, err := s.Get(parent, KindCommit, o.Depth+1)
		if err != nil {
			return fmt.Errorf("commit %s parent: %w", o.Hash, err)
		}
		if err := s.Validate(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Head resolves the store's head reference and returns its commit.
func (s *Session) Head() (*Object, error) {
	h, err := s.store.ResolveHead()
	if err != nil {
		return nil, err
	}
	return s.Get(h, KindCommit, 0)
}

// CheckHead validates the entire object graph reachable from the head
// commit. Silent on success; otherwise the first depth-first failure.
func (s *Session) CheckHead(ctx context.Context) error {
	head, err := s.Head()
	if err != nil {
		return err
	}
	return s.Validate(ctx, head)
}
