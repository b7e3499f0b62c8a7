package object

// Hash is a 40-character hex-encoded SHA-1 digest identifying an object by
// its content. It is the sole lookup key for every object in a repository.
type Hash string

// Short returns the 7-character display form of a hash.
func (h Hash) Short() string {
	if len(h) < 7 {
		return string(h)
	}
	return string(h[:7])
}

// ObjectType is the type token stored in a record header.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// Kind is the static variant of an object, chosen by whoever dereferences
// the hash (a tree entry's mode, a commit's tree/parent field, the head
// ref). The declared type in the record must agree with it.
type Kind int

const (
	KindBlob Kind = iota
	KindExecutable
	KindGroupWritable
	KindSymlink
	KindSubmodule
	KindTree
	KindCommit
)

var kindNames = map[Kind]string{
	KindBlob:          "blob",
	KindExecutable:    "executable",
	KindGroupWritable: "group-writable",
	KindSymlink:       "symlink",
	KindSubmodule:     "submodule",
	KindTree:          "tree",
	KindCommit:        "commit",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Type returns the record type implied by the variant. Every blob-family
// kind maps to "blob".
func (k Kind) Type() ObjectType {
	switch k {
	case KindTree:
		return TypeTree
	case KindCommit:
		return TypeCommit
	default:
		return TypeBlob
	}
}

// IsTree reports whether the kind is the tree variant. The diff engine uses
// this to decide between recursing and emitting a record.
func (k Kind) IsTree() bool { return k == KindTree }

const (
	// Tree entry mode tokens, matching Git's canonical mode strings.
	ModeFile          = "100644"
	ModeExecutable    = "100755"
	ModeGroupWritable = "100664"
	ModeSymlink       = "120000"
	ModeDir           = "40000"
	ModeSubmodule     = "160000"
)

// RawRecord is the decoded form of a stored object: the declared type and
// size from the record header plus the raw payload bytes.
type RawRecord struct {
	Type    ObjectType
	Size    int
	Payload []byte
}
