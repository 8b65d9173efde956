package lifecycle

import (
	"context"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/reporeferee/reporeferee/internal/event"
	"github.com/reporeferee/reporeferee/internal/gateway"
	"github.com/reporeferee/reporeferee/internal/metadata"
	"github.com/reporeferee/reporeferee/internal/record"
)

const closingNote = "\nThis moderation issue will be closed and marked as " +
	"expired."

// retireRecord closes out an existing record after its flagged text was
// edited, deleted, or transferred: run the reply-removal policy, leave an
// explanatory comment, then close and tombstone the record. stillToxic only
// matters for edits, where it shapes the comment.
func (c *Controller) retireRecord(ctx context.Context,
	ev event.DetectionEvent, rec record.Record, stillToxic bool) error {

	log := c.log.With("delivery", ev.DeliveryID, "record", rec.Number)
	log.Info("Retiring record", "action", ev.Type.Action)

	// Nothing was ever posted for records the moderator rejected or has
	// not yet decided on, and discussions never receive replies, so there
	// is no reply to remove in those cases.
	alreadyCleaned := rec.HasLabel(record.LabelResponseCleaned)
	nothingPosted := !c.cfg.Automatic &&
		(rec.HasLabel(record.LabelReject) ||
			(rec.Open && rec.LabelCount() == 0))
	skipRemoval := ev.Type.Parent == event.ParentDiscussion ||
		nothingPosted

	note := fmt.Sprintf("%sThis instance in %s", metadata.SystemInfoTag,
		ev.Repo)

	switch ev.Type.Action {
	case event.ActionDeleted:
		removed := false
		if !skipRemoval && !alreadyCleaned {
			if err := c.removeReply(ctx, ev.Repo, rec); err != nil {
				return err
			}
			removed = true
		}

		msg := note + " was deleted. "
		if removed {
			msg += "Associated moderation responses were " +
				"deleted. "
		}
		err := c.comment(ctx, rec.Number, msg+closingNote)
		if err != nil {
			return err
		}

	case event.ActionEdited:
		if alreadyCleaned {
			break
		}

		editNote := "After edit it is no longer toxic.\n"
		if stillToxic {
			editNote = "After edit it is still toxic.\nLook " +
				"into a newly opened moderation issue for " +
				"more details.\n"
		}

		msg := note + " was edited. " + editNote
		if !skipRemoval {
			if err := c.removeReply(ctx, ev.Repo, rec); err != nil {
				return err
			}
			msg += "Associated moderation responses were " +
				"deleted. "
		}
		err := c.comment(ctx, rec.Number, msg+closingNote)
		if err != nil {
			return err
		}

	case event.ActionTransferred:
		location := ev.TransferredTo.UnwrapOr("an unknown location")
		msg := fmt.Sprintf("%s was transferred to new repo: %s. %s",
			note, location, closingNote)
		if err := c.comment(ctx, rec.Number, msg); err != nil {
			return err
		}
	}

	return c.expire(ctx, rec.Number)
}

// expireParentRecords tombstones every record whose title references the
// deleted parent container, each with its own explanatory comment.
func (c *Controller) expireParentRecords(ctx context.Context,
	ev event.DetectionEvent) error {

	c.log.Info("Parent container deleted, expiring related records",
		"delivery", ev.DeliveryID, "parent", ev.ParentNumber)

	issues, err := c.gw.ListIssues(ctx, c.cfg.ModerationRepo)
	if err != nil {
		return fmt.Errorf("list records for bulk expiry: %w", err)
	}

	msg := fmt.Sprintf("%sThis moderation issue was closed and marked "+
		"as expired because the entire parent %s was deleted.",
		metadata.SystemInfoTag, ev.Type.Payload)

	for _, issue := range issues {
		if !metadata.TitleReferencesParent(issue.Title,
			ev.ParentNumber) {

			continue
		}

		if err := c.expire(ctx, issue.Number); err != nil {
			return err
		}
		if err := c.comment(ctx, issue.Number, msg); err != nil {
			return err
		}
	}

	return nil
}

// removeReply deletes the bot's reply from the detection repo and marks the
// record RESPONSE_CLEANED. The reply id is re-read from the remote record
// body; a record that should carry one but does not is an invariant
// violation, never a silent skip.
func (c *Controller) removeReply(ctx context.Context, detectionRepo string,
	rec record.Record) error {

	issue, err := c.gw.GetIssue(ctx, c.cfg.ModerationRepo, rec.Number)
	if err != nil {
		return fmt.Errorf("re-read record #%d: %w", rec.Number, err)
	}

	replayID, err := metadata.DecodeReplayID(issue.Body)
	if err != nil {
		return fmt.Errorf("record #%d: %w", rec.Number, err)
	}
	if replayID.IsNone() {
		return fmt.Errorf("record #%d has no reply id to remove",
			rec.Number)
	}
	id := replayID.UnwrapOr(0)

	t, err := event.TypeFromFullName(rec.Meta.EventTypeFullName)
	if err != nil {
		return fmt.Errorf("record #%d: %w", rec.Number, err)
	}

	if t.IsReviewReply() {
		err = c.gw.DeleteReviewReply(ctx, detectionRepo, id)
	} else {
		err = c.gw.DeleteIssueComment(ctx, detectionRepo, id)
	}
	if err != nil {
		return fmt.Errorf("delete reply %d: %w", id, err)
	}

	c.log.Info("Bot reply removed", "record", rec.Number, "reply_id", id)

	return c.gw.AddLabels(ctx, c.cfg.ModerationRepo, rec.Number,
		[]string{string(record.LabelResponseCleaned)})
}

// expire closes a record and applies the terminal tombstone label.
func (c *Controller) expire(ctx context.Context, number int) error {
	err := c.gw.UpdateIssue(ctx, c.cfg.ModerationRepo, number,
		gateway.IssueUpdate{State: fn.Some(gateway.IssueClosed)})
	if err != nil {
		return fmt.Errorf("close record #%d: %w", number, err)
	}

	err = c.gw.AddLabels(ctx, c.cfg.ModerationRepo, number,
		[]string{string(record.LabelExpired)})
	if err != nil {
		return fmt.Errorf("tombstone record #%d: %w", number, err)
	}

	return nil
}

// comment posts a bot bookkeeping comment on a moderation record.
func (c *Controller) comment(ctx context.Context, number int,
	msg string) error {

	_, err := c.gw.CreateComment(ctx, c.cfg.ModerationRepo, number, msg)
	if err != nil {
		return fmt.Errorf("comment on record #%d: %w", number, err)
	}

	return nil
}
