package lifecycle

import (
	"context"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/reporeferee/reporeferee/internal/classifier"
	"github.com/reporeferee/reporeferee/internal/event"
	"github.com/reporeferee/reporeferee/internal/gateway"
	"github.com/reporeferee/reporeferee/internal/metadata"
	"github.com/reporeferee/reporeferee/internal/record"
)

// handleToxicity applies the created/edited transition. Edits first retire
// the previous record for the same text (whatever the new verdict); a toxic
// verdict then opens a fresh record, and in automatic mode immediately posts
// the reply.
func (c *Controller) handleToxicity(ctx context.Context,
	ev event.DetectionEvent, verdict classifier.Verdict) error {

	log := c.log.With("delivery", ev.DeliveryID, "text_id", ev.TextID)

	if ev.Type.Action == event.ActionEdited {
		prev, err := c.store.FindByToxicTextID(ctx, ev.TextID, false)
		if err != nil {
			return err
		}

		var retireErr error
		prev.WhenSome(func(r record.Record) {
			retireErr = c.retireRecord(ctx, ev, r, verdict.Toxic)
		})
		if retireErr != nil {
			return retireErr
		}
	}

	if !verdict.Toxic {
		log.Info("Text is not toxic, no moderation needed")
		return nil
	}

	// At most one non-expired record may exist per text; a duplicate
	// delivery of the same creation event must not open a second one.
	existing, err := c.store.FindByToxicTextID(ctx, ev.TextID, false)
	if err != nil {
		return err
	}
	if existing.IsSome() {
		log.Info("Active record already exists, skipping creation")
		return nil
	}
	log.Info("Text is toxic, opening moderation record")

	number, body, err := c.createRecord(ctx, ev, verdict.Reply)
	if err != nil {
		return err
	}

	if !c.cfg.Automatic {
		log.Info("Semi-automatic mode, awaiting moderator",
			"record", number)
		return nil
	}

	return c.publishReply(ctx, publishParams{
		eventType:    ev.Type,
		repo:         ev.Repo,
		parentNumber: ev.ParentNumber,
		targetID:     ev.TextID,
		recordNumber: number,
		recordBody:   body,
		draft:        verdict.Reply,
		automatic:    true,
	})
}

// createRecord opens a fresh moderation issue: title referencing the parent,
// draft reply as the first comment, then the full description with the
// metadata footer. Returns the new issue number and its body.
func (c *Controller) createRecord(ctx context.Context,
	ev event.DetectionEvent, draft string) (int, string, error) {

	title := metadata.IssueTitle(ev.ParentNumber, ev.RepoFullName)
	number, err := c.gw.CreateIssue(ctx, c.cfg.ModerationRepo, title)
	if err != nil {
		return 0, "", fmt.Errorf("create moderation issue: %w", err)
	}

	draftID, err := c.gw.CreateComment(ctx, c.cfg.ModerationRepo, number,
		draft)
	if err != nil {
		return 0, "", fmt.Errorf("post draft response: %w", err)
	}

	body := metadata.Description(metadata.DescriptionParams{
		ActionName:     string(ev.Type.Action),
		PayloadName:    string(ev.Type.Payload),
		RepoFullName:   ev.RepoFullName,
		RepoHTMLURL:    ev.RepoHTMLURL,
		ToxicBody:      ev.Body,
		ContentHTMLURL: ev.HTMLURL,
		Automatic:      c.cfg.Automatic,
		Fields: metadata.Fields{
			ToxicTextID:       ev.TextID,
			ParentNumber:      ev.ParentNumber,
			EventTypeFullName: ev.Type.FullName(),
			ModCommentID:      draftID,
		},
	})

	err = c.gw.UpdateIssue(ctx, c.cfg.ModerationRepo, number,
		gateway.IssueUpdate{Body: fn.Some(body)})
	if err != nil {
		return 0, "", fmt.Errorf("write record body: %w", err)
	}

	c.log.Info("Moderation record created", "record", number,
		"text_id", ev.TextID)

	return number, body, nil
}

// publishParams describes one reply publication into a detection repo.
type publishParams struct {
	eventType    event.Type
	repo         string
	parentNumber int

	// targetID is the flagged text's id, used as the reply anchor for
	// review-comment threads.
	targetID int64

	recordNumber int
	recordBody   string
	draft        string
	automatic    bool
}

// publishReply posts the moderation response into the detection repo and
// finalizes the record: EXECUTED label (plus AUTOMATIC_RESPONSE and close in
// automatic mode) and the REPLAY_ID footer line. Discussions have no reply
// endpoint; the record is left as-is.
func (c *Controller) publishReply(ctx context.Context,
	p publishParams) error {

	text := p.draft + metadata.ReplyFooter(p.automatic)

	var (
		replyID int64
		err     error
	)
	switch {
	case p.eventType.IsReviewReply():
		replyID, err = c.gw.ReplyToReviewComment(ctx, p.repo,
			p.parentNumber, p.targetID, text)

	case p.eventType.IsIssueStyleReply():
		replyID, err = c.gw.CreateComment(ctx, p.repo, p.parentNumber,
			text)

	default:
		c.log.Info("Replies are not supported for this event type",
			"event", p.eventType.FullName())
		return nil
	}
	if err != nil {
		return fmt.Errorf("publish reply: %w", err)
	}

	c.log.Info("Reply published", "record", p.recordNumber,
		"reply_id", replyID)

	return c.finalizeRecord(ctx, p.recordNumber, p.recordBody, replyID,
		p.automatic)
}

// finalizeRecord marks a record as acted upon and appends the reply id to
// its metadata footer. In semi-automatic mode the moderator already closed
// the issue, so only the label and body change.
func (c *Controller) finalizeRecord(ctx context.Context, number int,
	body string, replyID int64, automatic bool) error {

	labels := []string{string(record.LabelExecuted)}
	update := gateway.IssueUpdate{
		Body: fn.Some(metadata.AppendReplayID(body, replyID)),
	}
	if automatic {
		labels = append(labels,
			string(record.LabelAutomaticResponse))
		update.State = fn.Some(gateway.IssueClosed)
	}

	err := c.gw.UpdateIssue(ctx, c.cfg.ModerationRepo, number, update)
	if err != nil {
		return fmt.Errorf("finalize record #%d: %w", number, err)
	}
	err = c.gw.AddLabels(ctx, c.cfg.ModerationRepo, number, labels)
	if err != nil {
		return fmt.Errorf("label record #%d: %w", number, err)
	}

	return nil
}
