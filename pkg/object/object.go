package object

// Object is one node of the content-addressed graph: the record it was
// loaded from, the variant it was requested as, and lazily parsed payload
// structure. Objects are created by a Session, shared by hash, and never
// mutated after their payload is parsed.
type Object struct {
	Hash   Hash
	Kind   Kind
	Record RawRecord

	// Depth is the traversal depth at which the object was first requested.
	// Diagnostic only.
	Depth int

	treeParsed bool
	treeErr    error
	entries    []TreeEntry

	commitParsed bool
	commitErr    error
	commit       *CommitInfo

	validated bool
}

// Entries parses the payload as tree entries on first call and memoizes the
// result. Parse failure is fatal and memoized too.
func (o *Object) Entries() ([]TreeEntry, error) {
	if !o.treeParsed {
		o.treeParsed = true
		o.entries, o.treeErr = parseTreeEntries(o.Record.Payload)
	}
	return o.entries, o.treeErr
}

// Commit parses the payload as commit fields on first call and memoizes the
// result.
func (o *Object) Commit() (*CommitInfo, error) {
	if !o.commitParsed {
		o.commitParsed = true
		o.commit, o.commitErr = parseCommit(o.Record.Payload)
	}
	return o.commit, o.commitErr
}
