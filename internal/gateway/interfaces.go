// Package gateway abstracts the remote issue tracker. The moderation core
// never talks to GitHub directly; it goes through the RepoGateway interface
// so tests can substitute an in-memory tracker and so every remote failure
// surfaces as a single structured error type.
package gateway

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// IssueState is the open/closed state of a remote issue.
type IssueState string

const (
	IssueOpen   IssueState = "open"
	IssueClosed IssueState = "closed"
)

// Issue is the gateway-level view of a remote issue.
type Issue struct {
	ID        int64
	Number    int
	State     IssueState
	Title     string
	Body      string
	Labels    []string
	HTMLURL   string
	CreatedAt time.Time
}

// Comment is the gateway-level view of an issue or review comment.
type Comment struct {
	ID          int64
	Body        string
	AuthorID    int64
	AuthorLogin string
	AuthorIsBot bool
	CreatedAt   time.Time
}

// Review is the gateway-level view of a pull request review.
type Review struct {
	ID          int64
	Body        string
	AuthorID    int64
	SubmittedAt time.Time
}

// IssueUpdate describes a partial issue update. Absent fields are left
// untouched on the remote side.
type IssueUpdate struct {
	Body   fn.Option[string]
	State  fn.Option[IssueState]
	Labels fn.Option[[]string]
}

// RepoGateway is the remote CRUD surface the moderation core depends on.
// All repos are resolved against a single configured owner. Implementations
// return *OperationFailed for transport errors so callers can observe the
// HTTP status.
type RepoGateway interface {
	// GetIssue fetches one issue by number.
	GetIssue(ctx context.Context, repo string, number int) (Issue, error)

	// GetCommentBody fetches the body of an issue comment by id.
	GetCommentBody(ctx context.Context, repo string,
		commentID int64) (string, error)

	// ListIssues returns every issue in the repo regardless of state,
	// newest-created first, paginating until an empty page.
	ListIssues(ctx context.Context, repo string) ([]Issue, error)

	// CreateIssue opens a new issue and returns its number.
	CreateIssue(ctx context.Context, repo, title string) (int, error)

	// UpdateIssue applies a partial update to an issue.
	UpdateIssue(ctx context.Context, repo string, number int,
		update IssueUpdate) error

	// AddLabels appends labels to an issue, leaving existing ones alone.
	AddLabels(ctx context.Context, repo string, number int,
		labels []string) error

	// DeleteIssueComment removes an issue comment by id.
	DeleteIssueComment(ctx context.Context, repo string,
		commentID int64) error

	// DeleteReviewReply removes a pull request review comment by id.
	DeleteReviewReply(ctx context.Context, repo string,
		commentID int64) error

	// CreateComment posts a comment on an issue and returns the new
	// comment's id.
	CreateComment(ctx context.Context, repo string, number int,
		body string) (int64, error)

	// ReplyToReviewComment posts a threaded reply to a review comment
	// and returns the new reply's id.
	ReplyToReviewComment(ctx context.Context, repo string,
		pullNumber int, commentID int64, body string) (int64, error)

	// ListIssueComments returns the comments on an issue, ascending by
	// id.
	ListIssueComments(ctx context.Context, repo string,
		number int) ([]Comment, error)

	// ListReviewComments returns every review comment on a pull request.
	ListReviewComments(ctx context.Context, repo string,
		pullNumber int) ([]Comment, error)

	// ListReviews returns every review on a pull request.
	ListReviews(ctx context.Context, repo string,
		pullNumber int) ([]Review, error)
}
