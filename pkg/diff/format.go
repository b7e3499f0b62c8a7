package diff

import (
	"fmt"
	"strings"
)

// PairString renders the old/new short hashes of a change for display, e.g.
// "f0febf9 -> 9ee336d", "-> 92b0a48" for a creation, "92b0a48 ->" for a
// deletion. Multiple old hashes (evil merges) are joined with "|".
func (c Change) PairString() string {
	switch c.Action {
	case Created:
		return "-> " + c.New
	case Deleted:
		return c.Old[0] + " ->"
	default:
		return strings.Join(c.Old, "|") + " -> " + c.New
	}
}

// String renders a change as one display line.
func (c Change) String() string {
	return fmt.Sprintf("%-8s %s (%s)", c.Action, c.Path, c.PairString())
}
