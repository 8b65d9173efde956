package record

import (
	"context"
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"

	"github.com/reporeferee/reporeferee/internal/gateway"
	"github.com/reporeferee/reporeferee/internal/metadata"
)

const modRepo = "moderation"

func seedRecord(gw *gateway.MockGateway, fields metadata.Fields,
	labels ...Label) int {

	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = string(l)
	}

	return gw.SeedIssue(modRepo, gateway.Issue{
		Title:  metadata.IssueTitle(fields.ParentNumber, "o/r"),
		Body:   metadata.Footer(fields),
		Labels: names,
	})
}

func TestListActiveExcludesExpired(t *testing.T) {
	gw := gateway.NewMockGateway()
	store := NewStore(gw, modRepo, nil)

	seedRecord(gw, metadata.Fields{ToxicTextID: 1, ParentNumber: 10,
		EventTypeFullName: "issues.opened", ModCommentID: 100})
	seedRecord(gw, metadata.Fields{ToxicTextID: 2, ParentNumber: 11,
		EventTypeFullName: "issues.opened", ModCommentID: 101},
		LabelExpired)

	// Hand-opened issue with no footer must be tolerated.
	gw.SeedIssue(modRepo, gateway.Issue{Title: "ops question"})

	active, err := store.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, int64(1), active[0].Meta.ToxicTextID)
}

func TestFindByToxicTextIDNewestWins(t *testing.T) {
	gw := gateway.NewMockGateway()
	store := NewStore(gw, modRepo, nil)

	fields := metadata.Fields{ToxicTextID: 42, ParentNumber: 5,
		EventTypeFullName: "issue_comment.created", ModCommentID: 1}
	older := seedRecord(gw, fields, LabelExpired)
	newer := seedRecord(gw, fields)

	// Active search skips the expired tombstone.
	got, err := store.FindByToxicTextID(context.Background(), 42, false)
	require.NoError(t, err)
	rec := got.UnwrapOrFail(t)
	require.Equal(t, newer, rec.Number)

	// Including expired still returns the newest first.
	got, err = store.FindByToxicTextID(context.Background(), 42, true)
	require.NoError(t, err)
	require.Equal(t, newer, got.UnwrapOrFail(t).Number)

	// With only the tombstone left, includeExpired finds it.
	require.NoError(t, gw.AddLabels(context.Background(), modRepo, newer,
		[]string{string(LabelExpired)}))
	got, err = store.FindByToxicTextID(context.Background(), 42, false)
	require.NoError(t, err)
	require.True(t, got.IsNone())

	got, err = store.FindByToxicTextID(context.Background(), 42, true)
	require.NoError(t, err)
	require.Equal(t, newer, got.UnwrapOrFail(t).Number)
	_ = older
}

func TestFindByReplayID(t *testing.T) {
	gw := gateway.NewMockGateway()
	store := NewStore(gw, modRepo, nil)

	fields := metadata.Fields{ToxicTextID: 7, ParentNumber: 3,
		EventTypeFullName: "issue_comment.created", ModCommentID: 9,
		ReplayID: fn.Some[int64](555)}
	number := seedRecord(gw, fields)

	got, err := store.FindByReplayID(context.Background(), 555)
	require.NoError(t, err)
	require.Equal(t, number, got.UnwrapOrFail(t).Number)

	got, err = store.FindByReplayID(context.Background(), 556)
	require.NoError(t, err)
	require.True(t, got.IsNone())
}

func TestStorePropagatesTransportError(t *testing.T) {
	gw := gateway.NewMockGateway()
	store := NewStore(gw, modRepo, nil)

	gw.FailNextList = true
	_, err := store.ListActive(context.Background())
	require.Error(t, err)

	var opErr *gateway.OperationFailed
	require.ErrorAs(t, err, &opErr)
	require.Equal(t, 503, opErr.StatusCode)
}
