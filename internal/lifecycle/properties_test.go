package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/reporeferee/reporeferee/internal/classifier"
	"github.com/reporeferee/reporeferee/internal/event"
	"github.com/reporeferee/reporeferee/internal/gateway"
	"github.com/reporeferee/reporeferee/internal/record"
)

// issueEvent builds a delivery for an issue-level payload, where the text id
// is the issue's own id and no comment thread needs seeding.
func issueEvent(t event.Type, textID int64, body string) event.DetectionEvent {
	number := int(textID) + 100

	return event.DetectionEvent{
		DeliveryID:      fmt.Sprintf("trace-%d", textID),
		Type:            t,
		Repo:            detRepo,
		RepoFullName:    owner + "/" + detRepo,
		RepoHTMLURL:     "https://github.com/octo-org/community",
		ParentNumber:    number,
		ParentTitle:     fmt.Sprintf("issue %d", number),
		ParentBody:      body,
		ParentAuthorID:  2,
		ParentCreatedAt: time.Unix(1699990000, 0),
		TextID:          textID,
		Author:          "mallory",
		Body:            body,
		HTMLURL: fmt.Sprintf(
			"https://github.com/octo-org/community/issues/%d",
			number),
		HasChanges: true,
		ReceivedAt: time.Unix(1700001000, 0),
	}
}

// TestTraceSingleActiveRecordProperty drives the controller with random
// event traces and checks the core invariant after every step: at most one
// non-expired record exists per toxic text id.
func TestTraceSingleActiveRecordProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		gw := gateway.NewMockGateway()
		store := record.NewStore(gw, modRepo, nil)
		cls := classifier.NewMockClassifier()
		ctrl := NewController(Config{
			DetectionRepos: []string{detRepo},
			ModerationRepo: modRepo,
			Owner:          owner,
			Automatic:      true,
		}, gw, store, cls, slog.New(slog.DiscardHandler))

		// Seed the parent issues the trace events reference.
		textIDs := []int64{1, 2, 3}
		for _, id := range textIDs {
			gw.SeedIssue(detRepo, gateway.Issue{
				Number: int(id) + 100,
				Title:  fmt.Sprintf("issue %d", int(id)+100),
			})
		}

		ops := rapid.SliceOfN(rapid.SampledFrom([]string{
			"create-toxic", "create-clean", "edit-toxic",
			"edit-clean", "delete",
		}), 1, 15).Draw(rt, "ops")

		for step, op := range ops {
			id := rapid.SampledFrom(textIDs).Draw(rt, "id")

			var ev event.DetectionEvent
			switch op {
			case "create-toxic":
				cls.Script(id, classifier.Verdict{
					Toxic: true, Reply: "rephrase please",
				})
				ev = issueEvent(event.IssuesOpened, id,
					"toxic text")
			case "create-clean":
				cls.Script(id, classifier.Verdict{})
				ev = issueEvent(event.IssuesOpened, id,
					"clean text")
			case "edit-toxic":
				cls.Script(id, classifier.Verdict{
					Toxic: true, Reply: "rephrase please",
				})
				ev = issueEvent(event.IssuesEdited, id,
					"edited toxic text")
			case "edit-clean":
				cls.Script(id, classifier.Verdict{})
				ev = issueEvent(event.IssuesEdited, id,
					"edited clean text")
			case "delete":
				ev = issueEvent(event.IssuesDeleted, id, "")
			}

			if err := ctrl.HandleDetection(ctx, ev); err != nil {
				rt.Fatalf("step %d (%s): %v", step, op, err)
			}

			active := make(map[int64]int)
			for _, issue := range gw.AllIssues(modRepo) {
				rec, err := record.FromIssue(issue)
				if err != nil {
					continue
				}
				if rec.HasLabel(record.LabelExpired) {
					continue
				}
				active[rec.Meta.ToxicTextID]++
			}
			for textID, n := range active {
				if n > 1 {
					rt.Fatalf("step %d (%s): %d active "+
						"records for text %d",
						step, op, n, textID)
				}
			}
		}
	})
}
