package event

// ParentKind identifies the container a piece of text lives in: the issue,
// pull request, or discussion whose number anchors the moderation record.
type ParentKind string

const (
	ParentIssue       ParentKind = "issue"
	ParentPullRequest ParentKind = "pull_request"
	ParentDiscussion  ParentKind = "discussion"
)

// PayloadKind identifies which object inside the webhook payload carries the
// text under moderation.
type PayloadKind string

const (
	PayloadIssue       PayloadKind = "issue"
	PayloadPullRequest PayloadKind = "pull_request"
	PayloadComment     PayloadKind = "comment"
	PayloadReview      PayloadKind = "review"
	PayloadDiscussion  PayloadKind = "discussion"
)

// ActionKind is the webhook action that triggered the delivery.
type ActionKind string

const (
	ActionCreated     ActionKind = "created"
	ActionOpened      ActionKind = "opened"
	ActionEdited      ActionKind = "edited"
	ActionDeleted     ActionKind = "deleted"
	ActionTransferred ActionKind = "transferred"
	ActionSubmitted   ActionKind = "submitted"
	ActionClosed      ActionKind = "closed"
)

// Type is the canonical descriptor for one webhook event variant. The
// dotted full name (e.g. "issue_comment.created") is what gets embedded in
// moderation record metadata, so it must stay stable across releases.
type Type struct {
	// Event is the raw webhook event name, e.g. "issue_comment".
	Event string

	// Parent is the container the payload text belongs to.
	Parent ParentKind

	// Payload is the object within the delivery that carries the text.
	Payload PayloadKind

	// Action is the webhook action string.
	Action ActionKind
}

// FullName renders the dotted <event>.<action> name.
func (t Type) FullName() string {
	return t.Event + "." + string(t.Action)
}

// IsZero reports whether the descriptor is the zero value.
func (t Type) IsZero() bool {
	return t.Event == ""
}

// IsReviewReply reports whether bot replies for this event type must go
// through the review-comment reply endpoint rather than a plain issue
// comment.
func (t Type) IsReviewReply() bool {
	return t.Event == "pull_request_review_comment"
}

// IsIssueStyleReply reports whether bot replies for this event type are
// posted as ordinary issue comments. Discussions support neither style.
func (t Type) IsIssueStyleReply() bool {
	if t.IsReviewReply() {
		return false
	}

	return t.Parent == ParentIssue ||
		t.Payload == PayloadPullRequest ||
		t.Payload == PayloadReview ||
		(t.Parent == ParentPullRequest && t.Payload == PayloadComment)
}

// Named descriptors for every event variant the system subscribes to. The
// set mirrors the GitHub webhook surface: issues, issue comments, pull
// requests, reviews, review comments, discussions, discussion comments.
var (
	IssuesOpened      = Type{"issues", ParentIssue, PayloadIssue, ActionOpened}
	IssuesEdited      = Type{"issues", ParentIssue, PayloadIssue, ActionEdited}
	IssuesDeleted     = Type{"issues", ParentIssue, PayloadIssue, ActionDeleted}
	IssuesClosed      = Type{"issues", ParentIssue, PayloadIssue, ActionClosed}
	IssuesTransferred = Type{"issues", ParentIssue, PayloadIssue, ActionTransferred}

	IssueCommentCreated = Type{"issue_comment", ParentIssue, PayloadComment, ActionCreated}
	IssueCommentEdited  = Type{"issue_comment", ParentIssue, PayloadComment, ActionEdited}
	IssueCommentDeleted = Type{"issue_comment", ParentIssue, PayloadComment, ActionDeleted}

	PullRequestOpened = Type{"pull_request", ParentPullRequest, PayloadPullRequest, ActionOpened}
	PullRequestEdited = Type{"pull_request", ParentPullRequest, PayloadPullRequest, ActionEdited}

	ReviewSubmitted = Type{"pull_request_review", ParentPullRequest, PayloadReview, ActionSubmitted}
	ReviewEdited    = Type{"pull_request_review", ParentPullRequest, PayloadReview, ActionEdited}

	ReviewCommentCreated = Type{"pull_request_review_comment", ParentPullRequest, PayloadComment, ActionCreated}
	ReviewCommentEdited  = Type{"pull_request_review_comment", ParentPullRequest, PayloadComment, ActionEdited}
	ReviewCommentDeleted = Type{"pull_request_review_comment", ParentPullRequest, PayloadComment, ActionDeleted}

	DiscussionCreated     = Type{"discussion", ParentDiscussion, PayloadDiscussion, ActionCreated}
	DiscussionEdited      = Type{"discussion", ParentDiscussion, PayloadDiscussion, ActionEdited}
	DiscussionDeleted     = Type{"discussion", ParentDiscussion, PayloadDiscussion, ActionDeleted}
	DiscussionTransferred = Type{"discussion", ParentDiscussion, PayloadDiscussion, ActionTransferred}

	DiscussionCommentCreated = Type{"discussion_comment", ParentDiscussion, PayloadComment, ActionCreated}
	DiscussionCommentEdited  = Type{"discussion_comment", ParentDiscussion, PayloadComment, ActionEdited}
	DiscussionCommentDeleted = Type{"discussion_comment", ParentDiscussion, PayloadComment, ActionDeleted}
)

// allTypes is the fixed classification table. Order is irrelevant; lookups
// key on (event, action).
var allTypes = []Type{
	IssuesOpened, IssuesEdited, IssuesDeleted, IssuesClosed,
	IssuesTransferred,
	IssueCommentCreated, IssueCommentEdited, IssueCommentDeleted,
	PullRequestOpened, PullRequestEdited,
	ReviewSubmitted, ReviewEdited,
	ReviewCommentCreated, ReviewCommentEdited, ReviewCommentDeleted,
	DiscussionCreated, DiscussionEdited, DiscussionDeleted,
	DiscussionTransferred,
	DiscussionCommentCreated, DiscussionCommentEdited,
	DiscussionCommentDeleted,
}
