package webhook

import (
	"encoding/json"
	"time"

	"github.com/google/go-github/v71/github"
	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/reporeferee/reporeferee/internal/event"
)

// changesProbe inspects the raw delivery's "changes" object: its presence
// and emptiness decide the phantom-review-edit skip, and its new_* entries
// carry the destination of a transfer.
type changesProbe struct {
	Changes map[string]json.RawMessage `json:"changes"`
}

type transferTarget struct {
	HTMLURL string `json:"html_url"`
}

// probeChanges reports whether the delivery carried a non-empty change set
// and extracts the transfer destination URL, when one is present.
func probeChanges(raw []byte) (bool, fn.Option[string]) {
	var probe changesProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false, fn.None[string]()
	}

	hasChanges := len(probe.Changes) > 0

	for _, key := range []string{"new_issue", "new_discussion",
		"new_repository"} {

		rawTarget, ok := probe.Changes[key]
		if !ok {
			continue
		}
		var target transferTarget
		if err := json.Unmarshal(rawTarget, &target); err != nil {
			continue
		}
		if target.HTMLURL != "" {
			return hasChanges, fn.Some(target.HTMLURL)
		}
	}

	return hasChanges, fn.None[string]()
}

// textPayload is the normalized slice of a delivery the mapper needs about
// the flagged text itself.
type textPayload struct {
	id      int64
	body    string
	htmlURL string
	author  string
}

// parentPayload is the normalized slice about the containing issue, pull
// request, or discussion.
type parentPayload struct {
	number    int
	title     string
	body      string
	authorID  int64
	createdAt time.Time
	isPull    bool
}

// mapDetection translates one parsed webhook delivery into a DetectionEvent.
// Returns false for payload shapes the system does not consume.
func mapDetection(deliveryID string, t event.Type, parsed any,
	raw []byte) (event.DetectionEvent, bool) {

	var (
		repo   *github.Repository
		sender *github.User
		text   textPayload
		parent parentPayload
	)

	switch p := parsed.(type) {
	case *github.IssuesEvent:
		repo, sender = p.GetRepo(), p.GetSender()
		issue := p.GetIssue()
		text = textPayload{
			id:      issue.GetID(),
			body:    issue.GetBody(),
			htmlURL: issue.GetHTMLURL(),
			author:  issue.GetUser().GetLogin(),
		}
		parent = issueParent(issue)

	case *github.IssueCommentEvent:
		repo, sender = p.GetRepo(), p.GetSender()
		comment := p.GetComment()
		text = textPayload{
			id:      comment.GetID(),
			body:    comment.GetBody(),
			htmlURL: comment.GetHTMLURL(),
			author:  comment.GetUser().GetLogin(),
		}
		parent = issueParent(p.GetIssue())

	case *github.PullRequestEvent:
		repo, sender = p.GetRepo(), p.GetSender()
		pr := p.GetPullRequest()
		text = textPayload{
			id:      pr.GetID(),
			body:    pr.GetBody(),
			htmlURL: pr.GetHTMLURL(),
			author:  pr.GetUser().GetLogin(),
		}
		parent = pullParent(pr)

	case *github.PullRequestReviewEvent:
		repo, sender = p.GetRepo(), p.GetSender()
		review := p.GetReview()
		text = textPayload{
			id:      review.GetID(),
			body:    review.GetBody(),
			htmlURL: review.GetHTMLURL(),
			author:  review.GetUser().GetLogin(),
		}
		parent = pullParent(p.GetPullRequest())

	case *github.PullRequestReviewCommentEvent:
		repo, sender = p.GetRepo(), p.GetSender()
		comment := p.GetComment()
		text = textPayload{
			id:      comment.GetID(),
			body:    comment.GetBody(),
			htmlURL: comment.GetHTMLURL(),
			author:  comment.GetUser().GetLogin(),
		}
		parent = pullParent(p.GetPullRequest())

	case *github.DiscussionEvent:
		repo, sender = p.GetRepo(), p.GetSender()
		disc := p.GetDiscussion()
		text = textPayload{
			id:      disc.GetID(),
			body:    disc.GetBody(),
			htmlURL: disc.GetHTMLURL(),
			author:  disc.GetUser().GetLogin(),
		}
		parent = discussionParent(disc)

	case *github.DiscussionCommentEvent:
		repo, sender = p.GetRepo(), p.GetSender()
		comment := p.GetComment()
		text = textPayload{
			id:      comment.GetID(),
			body:    comment.GetBody(),
			htmlURL: comment.GetHTMLURL(),
			author:  comment.GetUser().GetLogin(),
		}
		parent = discussionParent(p.GetDiscussion())

	default:
		return event.DetectionEvent{}, false
	}

	hasChanges, transferredTo := probeChanges(raw)

	return event.DetectionEvent{
		DeliveryID:      deliveryID,
		Type:            t,
		Repo:            repo.GetName(),
		RepoFullName:    repo.GetFullName(),
		RepoHTMLURL:     repo.GetHTMLURL(),
		ParentNumber:    parent.number,
		ParentTitle:     parent.title,
		ParentBody:      parent.body,
		ParentAuthorID:  parent.authorID,
		ParentCreatedAt: parent.createdAt,
		ParentIsPull:    parent.isPull,
		TextID:          text.id,
		Author:          text.author,
		AuthorIsBot:     sender.GetType() == "Bot",
		Body:            text.body,
		HTMLURL:         text.htmlURL,
		HasChanges:      hasChanges,
		TransferredTo:   transferredTo,
		ReceivedAt:      time.Now(),
	}, true
}

func issueParent(issue *github.Issue) parentPayload {
	return parentPayload{
		number:    issue.GetNumber(),
		title:     issue.GetTitle(),
		body:      issue.GetBody(),
		authorID:  issue.GetUser().GetID(),
		createdAt: issue.GetCreatedAt().Time,
		isPull:    issue.GetPullRequestLinks() != nil,
	}
}

func pullParent(pr *github.PullRequest) parentPayload {
	return parentPayload{
		number:    pr.GetNumber(),
		title:     pr.GetTitle(),
		body:      pr.GetBody(),
		authorID:  pr.GetUser().GetID(),
		createdAt: pr.GetCreatedAt().Time,
		isPull:    true,
	}
}

func discussionParent(disc *github.Discussion) parentPayload {
	return parentPayload{
		number:    disc.GetNumber(),
		title:     disc.GetTitle(),
		body:      disc.GetBody(),
		authorID:  disc.GetUser().GetID(),
		createdAt: disc.GetCreatedAt().Time,
	}
}

// mapModerationClose translates an issues.closed delivery from the
// moderation repo into a ModerationClose.
func mapModerationClose(deliveryID string,
	p *github.IssuesEvent) event.ModerationClose {

	issue := p.GetIssue()
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	return event.ModerationClose{
		DeliveryID:  deliveryID,
		Repo:        p.GetRepo().GetName(),
		IssueNumber: issue.GetNumber(),
		Labels:      labels,
		Body:        issue.GetBody(),
		AuthorIsBot: p.GetSender().GetType() == "Bot",
	}
}
