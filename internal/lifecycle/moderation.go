package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/reporeferee/reporeferee/internal/event"
	"github.com/reporeferee/reporeferee/internal/gateway"
	"github.com/reporeferee/reporeferee/internal/metadata"
	"github.com/reporeferee/reporeferee/internal/record"
)

// HandleModerationClose processes a human closing an issue in the moderation
// repo. The closing label set decides the transition: APPEALED and REJECT
// are no-ops, APPROVE publishes the stored draft into the detection repo,
// and anything else reopens the record with instructions.
func (c *Controller) HandleModerationClose(ctx context.Context,
	mc event.ModerationClose) error {

	log := c.log.With("delivery", mc.DeliveryID, "record", mc.IssueNumber)

	if mc.AuthorIsBot || mc.Repo != c.cfg.ModerationRepo {
		log.Info("Ignoring close event", "repo", mc.Repo)
		return nil
	}

	rec, err := record.FromIssue(gateway.Issue{
		Number: mc.IssueNumber,
		State:  gateway.IssueClosed,
		Labels: mc.Labels,
		Body:   mc.Body,
	})
	if err != nil {
		// Hand-opened issues in the moderation repo are not records.
		log.Info("Closed issue carries no record metadata")
		return nil
	}

	state, err := rec.DeriveState()
	if err != nil {
		if errors.Is(err, record.ErrAmbiguousLabels) {
			log.Warn("Record closed with ambiguous labels",
				"err", err)
			return c.requestValidClose(ctx, mc.IssueNumber)
		}
		return err
	}

	switch state {
	case record.StateAppealed:
		log.Info("Record closed while appealed, nothing to do")
		return nil

	case record.StateApproved:
		log.Info("Moderator approved, publishing response")
		return c.publishApproved(ctx, mc, rec)

	case record.StateRejected:
		log.Info("Moderator rejected, record stays closed")
		return nil

	case record.StateExpired:
		// Tombstones are never reactivated, not even to ask for a
		// proper label.
		log.Info("Expired record closed, nothing to do")
		return nil

	default:
		log.Warn("Record closed without a decision label",
			"state", state)
		return c.requestValidClose(ctx, mc.IssueNumber)
	}
}

// publishApproved pushes the moderator-approved draft into the detection
// repo the record points at, then finalizes the record with EXECUTED and the
// reply id.
func (c *Controller) publishApproved(ctx context.Context,
	mc event.ModerationClose, rec record.Record) error {

	repoName := metadata.RepoNameFromBody(mc.Body, c.cfg.Owner)
	if !c.isDetectionRepo(repoName) {
		c.log.Error("Record references an unmonitored repo",
			"record", mc.IssueNumber, "repo", repoName)
		return nil
	}

	t, err := event.TypeFromFullName(rec.Meta.EventTypeFullName)
	if err != nil {
		return fmt.Errorf("record #%d: %w", mc.IssueNumber, err)
	}

	draft, err := c.gw.GetCommentBody(ctx, c.cfg.ModerationRepo,
		rec.Meta.ModCommentID)
	if err != nil {
		return fmt.Errorf("fetch draft for #%d: %w", mc.IssueNumber,
			err)
	}

	return c.publishReply(ctx, publishParams{
		eventType:    t,
		repo:         repoName,
		parentNumber: rec.Meta.ParentNumber,
		targetID:     rec.Meta.ToxicTextID,
		recordNumber: mc.IssueNumber,
		recordBody:   mc.Body,
		draft:        draft,
		automatic:    false,
	})
}

// requestValidClose reopens a record that was closed without a single usable
// decision label and asks the moderator to label and re-close it.
func (c *Controller) requestValidClose(ctx context.Context,
	number int) error {

	msg := metadata.SystemInfoTag + "No moderation action was taken. " +
		"Issue is reopened, please add a label and then close the " +
		"issue to take action."
	if err := c.comment(ctx, number, msg); err != nil {
		return err
	}

	err := c.gw.UpdateIssue(ctx, c.cfg.ModerationRepo, number,
		gateway.IssueUpdate{State: fn.Some(gateway.IssueOpen)})
	if err != nil {
		return fmt.Errorf("reopen record #%d: %w", number, err)
	}

	return nil
}
