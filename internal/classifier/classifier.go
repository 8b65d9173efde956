package classifier

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrTargetNotFound is returned when the flagged text id does not
	// appear in the fetched thread. The thread may have mutated between
	// webhook delivery and context assembly.
	ErrTargetNotFound = errors.New("target comment not found in thread")

	// ErrMalformedAnswer is returned when the model's completion does not
	// follow the requested answer structure.
	ErrMalformedAnswer = errors.New("malformed model answer")

	// ErrEmptyCompletion is returned when the model returns no content.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Comment is one unit of conversational context: a comment, a review body,
// or the parent container's own body mapped into comment form.
type Comment struct {
	ID        int64
	Timestamp time.Time
	Body      string
	AuthorID  int64
}

// Context is the conversational neighborhood handed to the model: the parent
// container's title, everything said before the flagged text, and the flagged
// text itself.
type Context struct {
	ParentTitle string

	// Author is the login of whoever wrote the target text, used to
	// address them in the reply.
	Author string

	// Previous holds the thread up to (excluding) the target, oldest
	// first. Element zero is the parent container's body when the target
	// is a comment.
	Previous []Comment

	Target Comment
}

// Verdict is the outcome of one classification: the binary decision plus the
// fully composed reply draft to post under the flagged text.
type Verdict struct {
	Toxic bool
	Reply string
}

// Classifier decides whether a piece of repository text is toxic and drafts
// the moderation reply for it.
type Classifier interface {
	Classify(ctx context.Context, c Context) (Verdict, error)
}

// BuildContext assembles a Context from a comment thread. Comments are
// ordered chronologically, the target is located by id, and the parent
// container's body is prepended as the thread opener.
func BuildContext(comments []Comment, targetID int64, parentTitle,
	author string, parent Comment) (Context, error) {

	sorted := make([]Comment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	idx := -1
	for i, c := range sorted {
		if c.ID == targetID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Context{}, fmt.Errorf("%w: id %d", ErrTargetNotFound,
			targetID)
	}

	previous := make([]Comment, 0, idx+1)
	previous = append(previous, parent)
	previous = append(previous, sorted[:idx]...)

	return Context{
		ParentTitle: parentTitle,
		Author:      author,
		Previous:    previous,
		Target:      sorted[idx],
	}, nil
}

// ParentContext assembles a Context for a parent container's own body, where
// no prior conversation exists.
func ParentContext(parentTitle, author string, target Comment) Context {
	return Context{
		ParentTitle: parentTitle,
		Author:      author,
		Target:      target,
	}
}
