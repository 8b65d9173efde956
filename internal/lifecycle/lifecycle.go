// Package lifecycle implements the moderation state machine. One controller
// instance handles every inbound event: detection-side create/edit/delete/
// transfer deliveries and moderator closes on the moderation repo. All state
// is re-derived from the remote tracker on every invocation, which keeps
// duplicate deliveries safe; nothing is cached between events.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/reporeferee/reporeferee/internal/classifier"
	"github.com/reporeferee/reporeferee/internal/event"
	"github.com/reporeferee/reporeferee/internal/gateway"
	"github.com/reporeferee/reporeferee/internal/record"
)

// Config is the immutable controller configuration. It is injected once at
// construction so tests never need environment mocking.
type Config struct {
	// DetectionRepos are the monitored repository names (without owner).
	DetectionRepos []string

	// ModerationRepo hosts the moderation records.
	ModerationRepo string

	// Owner is the account owning all involved repositories.
	Owner string

	// Automatic switches the bot from semi-automatic (moderator approves
	// every reply) to fully automatic replies.
	Automatic bool
}

// Controller drives every moderation transition. It owns no state beyond its
// immutable configuration and its collaborators.
type Controller struct {
	cfg   Config
	gw    gateway.RepoGateway
	store *record.Store
	cls   classifier.Classifier
	log   *slog.Logger
}

// NewController wires the state machine to its collaborators.
func NewController(cfg Config, gw gateway.RepoGateway, store *record.Store,
	cls classifier.Classifier, log *slog.Logger) *Controller {

	if log == nil {
		log = slog.Default()
	}

	return &Controller{
		cfg:   cfg,
		gw:    gw,
		store: store,
		cls:   cls,
		log:   log.With("component", "lifecycle"),
	}
}

func (c *Controller) isDetectionRepo(name string) bool {
	return slices.Contains(c.cfg.DetectionRepos, name)
}

// HandleDetection processes one classified delivery from a detection repo.
// Transport errors propagate to the caller; everything else is resolved (or
// logged and dropped) here.
func (c *Controller) HandleDetection(ctx context.Context,
	ev event.DetectionEvent) error {

	log := c.log.With("delivery", ev.DeliveryID,
		"event", ev.Type.FullName(), "repo", ev.Repo)

	if ev.AuthorIsBot || !c.isDetectionRepo(ev.Repo) {
		log.Info("Ignoring delivery")
		return nil
	}
	log.Info("Handling delivery", "text_id", ev.TextID)

	switch ev.Type.Action {
	case event.ActionDeleted, event.ActionTransferred:
		// Deleting the parent container retires every record under
		// it, whether or not the container's own body ever had one.
		if ev.Type.Action == event.ActionDeleted &&
			(ev.Type.Payload == event.PayloadIssue ||
				ev.Type.Payload == event.PayloadDiscussion) {

			return c.expireParentRecords(ctx, ev)
		}

		// Deleted and transferred content needs the expired records
		// too: the text may have been classified non-toxic before and
		// still have a tombstone around.
		rec, err := c.store.FindByToxicTextID(ctx, ev.TextID, true)
		if err != nil {
			return err
		}

		var handleErr error
		found := false
		rec.WhenSome(func(r record.Record) {
			found = true
			handleErr = c.retireRecord(ctx, ev, r, false)
		})
		if !found {
			log.Info("No record for removed text")
		}

		return handleErr
	}

	if skip, reason := shouldSkip(ev); skip {
		log.Info("Skipping delivery", "reason", reason)
		return nil
	}

	if IsAppeal(ev) {
		if err := c.handleAppeal(ctx, ev); err != nil {
			log.Error("Failed to handle appeal", "err", err)
		}
		return nil
	}

	cctx, err := c.buildContext(ctx, ev)
	if err != nil {
		return fmt.Errorf("build classification context: %w", err)
	}

	verdict, err := c.cls.Classify(ctx, cctx)
	if err != nil {
		log.Error("Classification failed", "err", err)
		return nil
	}

	return c.handleToxicity(ctx, ev, verdict)
}

// shouldSkip filters deliveries that carry nothing to classify: empty bodies
// outside of edits, and the phantom pull_request_review.edited delivery
// GitHub fires right after a review submission with an empty change set.
func shouldSkip(ev event.DetectionEvent) (bool, string) {
	if ev.Body == "" && ev.Type.Action != event.ActionEdited {
		return true, "empty body"
	}
	if ev.Type == event.ReviewEdited && !ev.HasChanges {
		return true, "review edit without changes"
	}

	return false, ""
}

// buildContext assembles the classifier's conversational context. Only
// comment-style payloads have prior conversation to fetch; for container
// bodies the flagged text stands alone.
func (c *Controller) buildContext(ctx context.Context,
	ev event.DetectionEvent) (classifier.Context, error) {

	var comments []classifier.Comment

	switch {
	case ev.Type.Event == "issue_comment" && !ev.ParentIsPull:
		issueComments, err := c.gw.ListIssueComments(ctx, ev.Repo,
			ev.ParentNumber)
		if err != nil {
			return classifier.Context{}, err
		}
		comments = mapComments(issueComments)

	case ev.Type.IsReviewReply() ||
		(ev.Type.Event == "issue_comment" && ev.ParentIsPull):

		// A PR conversation spans three comment kinds; pull them all
		// so the model sees the full thread.
		issueComments, err := c.gw.ListIssueComments(ctx, ev.Repo,
			ev.ParentNumber)
		if err != nil {
			return classifier.Context{}, err
		}
		reviewComments, err := c.gw.ListReviewComments(ctx, ev.Repo,
			ev.ParentNumber)
		if err != nil {
			return classifier.Context{}, err
		}
		reviews, err := c.gw.ListReviews(ctx, ev.Repo, ev.ParentNumber)
		if err != nil {
			return classifier.Context{}, err
		}

		comments = mapComments(issueComments)
		comments = append(comments, mapComments(reviewComments)...)
		for _, r := range reviews {
			if r.Body == "" {
				continue
			}
			comments = append(comments, classifier.Comment{
				ID:        r.ID,
				Timestamp: r.SubmittedAt,
				Body:      r.Body,
				AuthorID:  r.AuthorID,
			})
		}
	}

	if len(comments) > 0 {
		parent := classifier.Comment{
			Timestamp: ev.ParentCreatedAt,
			Body:      ev.ParentBody,
			AuthorID:  ev.ParentAuthorID,
		}

		return classifier.BuildContext(comments, ev.TextID,
			ev.ParentTitle, ev.Author, parent)
	}

	// Discussions lack a comment-listing endpoint and container bodies
	// have no preceding conversation.
	return classifier.ParentContext("", ev.Author, classifier.Comment{
		ID:        ev.TextID,
		Timestamp: ev.ReceivedAt,
		Body:      ev.Body,
		AuthorID:  ev.ParentAuthorID,
	}), nil
}

func mapComments(in []gateway.Comment) []classifier.Comment {
	out := make([]classifier.Comment, 0, len(in))
	for _, c := range in {
		out = append(out, classifier.Comment{
			ID:        c.ID,
			Timestamp: c.CreatedAt,
			Body:      c.Body,
			AuthorID:  c.AuthorID,
		})
	}

	return out
}
