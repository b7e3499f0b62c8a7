package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Signature is the author of a commit: a free-form identity, a unix
// timestamp, and a timezone offset token.
type Signature struct {
	Identity string
	Time     int64
	Zone     string
}

// CommitInfo holds the parsed fields of a commit payload. Tree and Parents
// are hashes, not object pointers; resolution goes through the session.
type CommitInfo struct {
	Tree    Hash
	Parents []Hash
	Author  Signature
	Subject string
}

// parseCommit splits a commit payload into header rows and the subject.
// The header permits exactly one tree row, zero or more parent rows, and
// one author row; unknown rows (committer, gpgsig, ...) are ignored. The
// subject is everything after the first blank line.
func parseCommit(payload []byte) (*CommitInfo, error) {
	sep := bytes.Index(payload, []byte("\n\n"))
	if sep < 0 {
		return nil, fmt.Errorf("parse commit: no subject separator: %w", ErrMissingCommitData)
	}
	header := string(payload[:sep])
	info := &CommitInfo{Subject: string(payload[sep+2:])}

	trees := 0
	haveAuthor := false
	for _, line := range strings.Split(header, "\n") {
		if line == "" || line[0] == ' ' {
			// Continuation lines of multi-line rows (e.g. gpgsig).
			continue
		}
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		switch key {
		case "tree":
			trees++
			if trees > 1 {
				return nil, fmt.Errorf("parse commit: %d tree rows: %w", trees, ErrExcessiveCommitData)
			}
			info.Tree = Hash(val)
		case "parent":
			info.Parents = append(info.Parents, Hash(val))
		case "author":
			if haveAuthor {
				continue
			}
			sig, err := parseSignature(val)
			if err != nil {
				return nil, err
			}
			info.Author = sig
			haveAuthor = true
		}
	}

	if trees == 0 {
		return nil, fmt.Errorf("parse commit: no tree row: %w", ErrMissingCommitData)
	}
	if !haveAuthor {
		return nil, fmt.Errorf("parse commit: no author row: %w", ErrMissingCommitData)
	}
	return info, nil
}

// parseSignature parses "<identity> <unix-timestamp> <timezone-offset>".
// The identity may itself contain spaces, so the row is split from the right.
func parseSignature(val string) (Signature, error) {
	zoneAt := strings.LastIndexByte(val, ' ')
	if zoneAt < 0 {
		return Signature{}, fmt.Errorf("parse commit: author row %q: %w", val, ErrMissingCommitData)
	}
	zone := val[zoneAt+1:]
	rest := val[:zoneAt]

	timeAt := strings.LastIndexByte(rest, ' ')
	if timeAt < 0 {
		return Signature{}, fmt.Errorf("parse commit: author row %q: %w", val, ErrMissingCommitData)
	}
	ts, err := strconv.ParseInt(rest[timeAt+1:], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("parse commit: author timestamp in %q: %w", val, ErrMissingCommitData)
	}

	return Signature{Identity: rest[:timeAt], Time: ts, Zone: zone}, nil
}
