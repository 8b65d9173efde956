package metadata

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/lightningnetwork/lnd/fn/v2"
)

var titleNumberPat = regexp.MustCompile(`#(\d+)`)

// IssueTitle renders the moderation issue title for a flagged parent
// container: "Toxicity in #<parentNumber> in <fullRepoName>".
func IssueTitle(parentNumber int, repoFullName string) string {
	return fmt.Sprintf("Toxicity in #%d in %s", parentNumber,
		repoFullName)
}

// ParentNumberFromTitle extracts the #<number> reference out of a moderation
// issue title, or None when the title carries no reference.
func ParentNumberFromTitle(title string) fn.Option[int] {
	m := titleNumberPat.FindStringSubmatch(title)
	if m == nil {
		return fn.None[int]()
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return fn.None[int]()
	}

	return fn.Some(n)
}

// TitleReferencesParent reports whether a moderation issue title references
// the given parent container number. Used by bulk expiry when an entire
// issue or discussion is deleted.
func TitleReferencesParent(title string, parentNumber int) bool {
	var match bool
	ParentNumberFromTitle(title).WhenSome(func(n int) {
		match = n == parentNumber
	})

	return match
}
