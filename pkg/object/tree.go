package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// TreeEntry is one entry of a tree payload: a mode token, a path segment
// name, and the child object's hash. Kind is the variant implied by the
// mode token.
type TreeEntry struct {
	Mode string
	Name string
	Kind Kind
	Hash Hash
}

// KindForMode maps a tree entry mode token to the variant it implies.
func KindForMode(mode string) (Kind, error) {
	switch mode {
	case ModeFile:
		return KindBlob, nil
	case ModeExecutable:
		return KindExecutable, nil
	case ModeGroupWritable:
		return KindGroupWritable, nil
	case ModeSymlink:
		return KindSymlink, nil
	case ModeDir:
		return KindTree, nil
	case ModeSubmodule:
		return KindSubmodule, nil
	default:
		return 0, fmt.Errorf("mode %q: %w", mode, ErrInvalidMode)
	}
}

// parseTreeEntries scans a tree payload for repeated
// "<mode> <name>\0<20-byte hash>" records, preserving payload order.
func parseTreeEntries(payload []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	rest := payload
	for len(rest) > 0 {
		sp := bytes.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("parse tree: truncated mode token: %w", ErrMalformedRecord)
		}
		mode := string(rest[:sp])
		rest = rest[sp+1:]

		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("parse tree: unterminated entry name: %w", ErrMalformedRecord)
		}
		name := string(rest[:nul])
		rest = rest[nul+1:]

		if len(rest) < 20 {
			return nil, fmt.Errorf("parse tree: truncated hash for %q: %w", name, ErrMalformedRecord)
		}
		hash := Hash(hex.EncodeToString(rest[:20]))
		rest = rest[20:]

		kind, err := KindForMode(mode)
		if err != nil {
			return nil, fmt.Errorf("parse tree: entry %q: %w", name, err)
		}

		entries = append(entries, TreeEntry{Mode: mode, Name: name, Kind: kind, Hash: hash})
	}
	return entries, nil
}
