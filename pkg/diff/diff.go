// Package diff computes the changeset a commit introduces relative to its
// parents. Classification is merge-aware: content identical to at least one
// parent is unchanged, and a path counts as deleted only when every parent
// agrees it is gone.
package diff

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gitvet/pkg/object"
)

// Action classifies one changed path.
type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
	Renamed Action = "renamed"
)

// Change is one record of a changeset. Old holds the short hashes of the
// prior versions (empty for creations), New the short hash of the new
// version (empty for deletions). For renames Path is the
// "<old> -> <new>" label and Old and New are equal.
type Change struct {
	Path   string
	Action Action
	Old    []string
	New    string
}

// Engine runs tree and commit diffs over one session. Stateless per call;
// the session cache is the only shared state.
type Engine struct {
	session *object.Session
	log     *zap.Logger
}

// New creates an engine. A nil logger disables diagnostics.
func New(session *object.Session, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{session: session, log: log}
}

// CommitDiff computes the changeset a commit introduces relative to all of
// its parents. A root commit reports its whole tree as created; a merge
// commit reports only what it introduces beyond every parent.
func (e *Engine) CommitDiff(ctx context.Context, commit *object.Object) ([]Change, error) {
	info, err := commit.Commit()
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", commit.Hash, err)
	}

	tree, err := e.session.Get(info.Tree, object.KindTree, commit.Depth+1)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", commit.Hash, err)
	}

	var parentTrees []*object.Object
	for _, ph := range info.Parents {
		parent, err := e.session.Get(ph, object.KindCommit, commit.Depth+1)
		if err != nil {
			return nil, fmt.Errorf("commit %s parent: %w", commit.Hash, err)
		}
		pinfo, err := parent.Commit()
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", parent.Hash, err)
		}
		ptree, err := e.session.Get(pinfo.Tree, object.KindTree, parent.Depth+1)
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", parent.Hash, err)
		}
		parentTrees = append(parentTrees, ptree)
	}

	changes, err := e.TreeDiff(ctx, tree, parentTrees, "")
	if err != nil {
		return nil, err
	}

	deletions, err := e.deletions(ctx, tree, parentTrees)
	if err != nil {
		return nil, err
	}

	return foldRenames(append(changes, deletions...)), nil
}

// deletions runs the reverse diff for each parent and intersects the
// results: a path is deleted only if no parent version survives into the
// commit. A root commit deletes nothing.
func (e *Engine) deletions(ctx context.Context, tree *object.Object, parentTrees []*object.Object) ([]Change, error) {
	var deletions []Change
	for i, ptree := range parentTrees {
		reverse, err := e.TreeDiff(ctx, ptree, []*object.Object{tree}, "")
		if err != nil {
			return nil, err
		}
		var dels []Change
		for _, c := range reverse {
			if c.Action != Created {
				continue
			}
			dels = append(dels, Change{Path: c.Path, Action: Deleted, Old: []string{c.New}})
		}
		if i == 0 {
			deletions = dels
		} else {
			deletions = intersect(deletions, dels)
		}
	}
	return deletions, nil
}

// intersect keeps the changes of a that also appear in b, matching on
// (path, hash) and preserving a's order.
func intersect(a, b []Change) []Change {
	inB := make(map[string]bool, len(b))
	for _, c := range b {
		inB[c.Path+"\x00"+c.Old[0]] = true
	}
	var out []Change
	for _, c := range a {
		if inB[c.Path+"\x00"+c.Old[0]] {
			out = append(out, c)
		}
	}
	return out
}

// foldRenames pairs each created record whose new hash equals a deleted
// record's old hash into a single renamed record. First match in record
// order wins and each deleted record pairs at most once; unmatched records
// keep their classification.
func foldRenames(changes []Change) []Change {
	consumed := make(map[int]bool)
	out := make([]Change, 0, len(changes))
	for i, c := range changes {
		if consumed[i] {
			continue
		}
		if c.Action == Created {
			if j := matchingDeletion(changes, consumed, c.New); j >= 0 {
				consumed[j] = true
				out = append(out, Change{
					Path:   changes[j].Path + " -> " + c.Path,
					Action: Renamed,
					Old:    []string{changes[j].Old[0]},
					New:    c.New,
				})
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func matchingDeletion(changes []Change, consumed map[int]bool, hash string) int {
	for j, c := range changes {
		if c.Action == Deleted && !consumed[j] && c.Old[0] == hash {
			return j
		}
	}
	return -1
}

// TreeDiff reports, for every entry of tree, whether it is created or
// updated relative to the matching entries of the other trees. Sub-trees
// recurse against the sub-tree matches only; blob-family entries emit
// records directly. Entries whose content matches at least one other tree
// are unchanged and emit nothing.
func (e *Engine) TreeDiff(ctx context.Context, tree *object.Object, others []*object.Object, base string) ([]Change, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := tree.Entries()
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", tree.Hash, err)
	}

	otherEntries := make([]map[string]object.TreeEntry, 0, len(others))
	for _, other := range others {
		m, err := entriesByName(other)
		if err != nil {
			return nil, err
		}
		otherEntries = append(otherEntries, m)
	}

	var out []Change
	for _, entry := range entries {
		path := joinPath(base, entry.Name)
		matches := collectMatches(entry.Name, otherEntries)

		unchanged := false
		for _, match := range matches {
			if match.Hash == entry.Hash {
				unchanged = true
				break
			}
		}
		if unchanged {
			continue
		}

		// Matches of the other mode class (tree versus blob) cannot be
		// compared; they are dropped with a diagnostic.
		compat := e.comparableMatches(entry, matches, path)

		if entry.Kind.IsTree() {
			sub, err := e.subTreeDiff(ctx, tree, entry, compat, path)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}

		if len(matches) > 0 && len(compat) == 0 {
			// Only incomparable matches: not reported as a change.
			continue
		}
		change := Change{Path: path, Action: Created, New: entry.Hash.Short()}
		if len(compat) > 0 {
			change.Action = Updated
			change.Old = shortHashes(compat)
		}
		out = append(out, change)
	}
	return out, nil
}

// collectMatches gathers the same-named entries of the other trees,
// order-preserving and deduplicated by hash.
func collectMatches(name string, otherEntries []map[string]object.TreeEntry) []object.TreeEntry {
	var matches []object.TreeEntry
	seen := make(map[object.Hash]bool)
	for _, m := range otherEntries {
		match, ok := m[name]
		if !ok || seen[match.Hash] {
			continue
		}
		seen[match.Hash] = true
		matches = append(matches, match)
	}
	return matches
}

func (e *Engine) comparableMatches(entry object.TreeEntry, matches []object.TreeEntry, path string) []object.TreeEntry {
	var out []object.TreeEntry
	for _, match := range matches {
		if match.Kind.IsTree() != entry.Kind.IsTree() {
			e.log.Warn("mode mismatch, skipping comparison",
				zap.String("path", path),
				zap.String("mode", entry.Mode),
				zap.String("other_mode", match.Mode))
			continue
		}
		out = append(out, match)
	}
	return out
}

func (e *Engine) subTreeDiff(ctx context.Context, tree *object.Object, entry object.TreeEntry, matches []object.TreeEntry, path string) ([]Change, error) {
	child, err := e.session.Get(entry.Hash, object.KindTree, tree.Depth+1)
	if err != nil {
		return nil, fmt.Errorf("tree %s entry %q: %w", tree.Hash, entry.Name, err)
	}
	var subOthers []*object.Object
	for _, match := range matches {
		other, err := e.session.Get(match.Hash, object.KindTree, tree.Depth+1)
		if err != nil {
			return nil, fmt.Errorf("tree entry %q match: %w", entry.Name, err)
		}
		subOthers = append(subOthers, other)
	}
	return e.TreeDiff(ctx, child, subOthers, path)
}

func entriesByName(tree *object.Object) (map[string]object.TreeEntry, error) {
	entries, err := tree.Entries()
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", tree.Hash, err)
	}
	byName := make(map[string]object.TreeEntry, len(entries))
	for _, entry := range entries {
		byName[entry.Name] = entry
	}
	return byName, nil
}

func shortHashes(entries []object.TreeEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Hash.Short())
	}
	return out
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}
