package event

import (
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// DetectionEvent is the immutable fact set of one inbound delivery from a
// detection repository. It is assembled once by the webhook layer and never
// mutated afterwards; every downstream decision re-derives the rest of its
// state from the remote tracker.
type DetectionEvent struct {
	// DeliveryID correlates every log line produced while handling this
	// delivery.
	DeliveryID string

	// Type is the classified event descriptor.
	Type Type

	// Repo is the detection repository name (without owner).
	Repo string

	// RepoFullName is the owner-qualified repository name.
	RepoFullName string

	// RepoHTMLURL is the repository's browser URL.
	RepoHTMLURL string

	// ParentNumber is the issue/PR/discussion number containing the text.
	ParentNumber int

	// ParentTitle is the container's title at delivery time.
	ParentTitle string

	// ParentBody, ParentAuthorID and ParentCreatedAt describe the
	// container itself, supplied to the classifier as comment zero.
	ParentBody      string
	ParentAuthorID  int64
	ParentCreatedAt time.Time

	// ParentIsPull reports whether the parent issue payload is actually a
	// pull request. GitHub delivers PR conversation comments as
	// issue_comment events, so this flag decides which comment threads
	// form the classification context.
	ParentIsPull bool

	// TextID is the identifier of the comment/issue/PR/review body that
	// triggered this delivery.
	TextID int64

	// Author is the login of whoever wrote the text.
	Author string

	// AuthorIsBot reports whether the author is a bot account. Bot
	// authored text is never moderated.
	AuthorIsBot bool

	// Body is the text under consideration.
	Body string

	// HTMLURL points at the text in the browser.
	HTMLURL string

	// HasChanges reports whether the delivery's change set was non-empty.
	// GitHub re-delivers pull_request_review.submitted as an .edited event
	// with an empty change set; such deliveries are dropped.
	HasChanges bool

	// TransferredTo carries the new location URL when the action is a
	// transfer, when the payload supplied one.
	TransferredTo fn.Option[string]

	// ReceivedAt is the local receive timestamp.
	ReceivedAt time.Time
}

// ModerationClose is the fact set of a moderator closing an issue in the
// moderation repository.
type ModerationClose struct {
	// DeliveryID correlates log lines for this delivery.
	DeliveryID string

	// Repo is the repository the close happened in.
	Repo string

	// IssueNumber is the moderation issue that was closed.
	IssueNumber int

	// Labels is the label name set on the issue at close time.
	Labels []string

	// Body is the issue body, carrying the metadata footer.
	Body string

	// AuthorIsBot reports whether the closer is a bot account.
	AuthorIsBot bool
}
