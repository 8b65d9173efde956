package lifecycle

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/reporeferee/reporeferee/internal/event"
	"github.com/reporeferee/reporeferee/internal/gateway"
	"github.com/reporeferee/reporeferee/internal/record"
)

const appealCommand = "/appeal"

var (
	githubURLPat = regexp.MustCompile(`https://github\.com/`)
	trailingID   = regexp.MustCompile(`(\d+)$`)
)

// IsAppeal reports whether a delivery is an appeal: a comment (or discussion
// post) whose trimmed, case-folded text starts with the appeal command and
// links a github.com URL ending in the appealed reply's id.
func IsAppeal(ev event.DetectionEvent) bool {
	if ev.Type.Payload != event.PayloadComment &&
		ev.Type.Parent != event.ParentDiscussion {

		return false
	}

	body := strings.TrimSpace(ev.Body)
	if !strings.HasPrefix(strings.ToLower(body), appealCommand) {
		return false
	}

	return githubURLPat.MatchString(body) &&
		trailingID.MatchString(body)
}

// handleAppeal resolves the appealed reply id to its record and reopens it
// under the APPEALED label. This is the only transition allowed to resurrect
// a closed record; expired records stay tombstoned, and a repeated appeal is
// ignored. All failures here are branch-local: logged by the caller, never
// escalated.
func (c *Controller) handleAppeal(ctx context.Context,
	ev event.DetectionEvent) error {

	log := c.log.With("delivery", ev.DeliveryID)
	log.Info("Handling appeal", "author", ev.Author)

	m := trailingID.FindStringSubmatch(strings.TrimSpace(ev.Body))
	if m == nil {
		return fmt.Errorf("appeal carries no reply id")
	}
	replyID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return fmt.Errorf("appeal reply id: %w", err)
	}

	// FindByReplayID never returns expired records, so a stale appeal
	// against a tombstoned record resolves to None here.
	rec, err := c.store.FindByReplayID(ctx, replyID)
	if err != nil {
		return err
	}

	var (
		target record.Record
		found  bool
	)
	rec.WhenSome(func(r record.Record) {
		target = r
		found = true
	})
	if !found {
		log.Info("Appeal does not match any record",
			"reply_id", replyID)
		return nil
	}

	if target.HasLabel(record.LabelAppealed) ||
		target.HasLabel(record.LabelExpired) {

		log.Info("Appeal not relevant for record",
			"record", target.Number)
		return nil
	}

	err = c.gw.AddLabels(ctx, c.cfg.ModerationRepo, target.Number,
		[]string{string(record.LabelAppealed)})
	if err != nil {
		return fmt.Errorf("label appeal on #%d: %w", target.Number,
			err)
	}

	// Force the record open whatever its current state.
	err = c.gw.UpdateIssue(ctx, c.cfg.ModerationRepo, target.Number,
		gateway.IssueUpdate{State: fn.Some(gateway.IssueOpen)})
	if err != nil {
		return fmt.Errorf("reopen record #%d: %w", target.Number, err)
	}

	log.Info("Record appealed and reopened", "record", target.Number)

	return nil
}
