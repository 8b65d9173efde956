package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-github/v71/github"
	"github.com/stretchr/testify/require"

	"github.com/reporeferee/reporeferee/internal/classifier"
	"github.com/reporeferee/reporeferee/internal/event"
	"github.com/reporeferee/reporeferee/internal/gateway"
	"github.com/reporeferee/reporeferee/internal/lifecycle"
	"github.com/reporeferee/reporeferee/internal/record"
)

const (
	testSecret = "hush"
	detRepo    = "community"
	modRepo    = "moderation"
)

func newTestServer(automatic bool) (*Server, *Dispatcher,
	*gateway.MockGateway, *classifier.MockClassifier) {

	gw := gateway.NewMockGateway()
	store := record.NewStore(gw, modRepo, nil)
	cls := classifier.NewMockClassifier()
	ctrl := lifecycle.NewController(lifecycle.Config{
		DetectionRepos: []string{detRepo},
		ModerationRepo: modRepo,
		Owner:          "octo-org",
		Automatic:      automatic,
	}, gw, store, cls, slog.New(slog.DiscardHandler))

	disp := NewDispatcher(ctrl, slog.New(slog.DiscardHandler))
	srv := NewServer(Config{
		Secret:         testSecret,
		ModerationRepo: modRepo,
	}, disp, slog.New(slog.DiscardHandler))

	return srv, disp, gw, cls
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)

	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func deliver(t *testing.T, srv *Server, eventName,
	payload string) *httptest.ResponseRecorder {

	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventName)
	req.Header.Set("X-GitHub-Delivery", "test-delivery")
	req.Header.Set("X-Hub-Signature-256", sign([]byte(payload)))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	return rec
}

func issueCommentPayload(action, commentBody string) string {
	return fmt.Sprintf(`{
		"action": %q,
		"issue": {
			"id": 900, "number": 5, "title": "Flaky tests",
			"body": "The suite fails intermittently.",
			"created_at": "2024-01-01T00:00:00Z",
			"user": {"id": 1, "login": "alice"}
		},
		"comment": {
			"id": 500, "body": %q,
			"html_url": "https://github.com/octo-org/community/issues/5#issuecomment-500",
			"user": {"id": 2, "login": "mallory"}
		},
		"repository": {
			"name": "community",
			"full_name": "octo-org/community",
			"html_url": "https://github.com/octo-org/community"
		},
		"sender": {"id": 2, "login": "mallory", "type": "User"}
	}`, action, commentBody)
}

func TestBadSignatureRejected(t *testing.T) {
	srv, _, _, _ := newTestServer(true)

	payload := issueCommentPayload("created", "hello")
	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "issue_comment")
	req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestToxicCommentDeliveryEndToEnd(t *testing.T) {
	srv, disp, gw, cls := newTestServer(true)

	gw.SeedIssue(detRepo, gateway.Issue{Number: 5, Title: "Flaky tests"})
	gw.SeedIssueComment(detRepo, 5, gateway.Comment{
		ID: 500, Body: "you are all idiots", AuthorID: 2,
	})
	cls.Script(500, classifier.Verdict{
		Toxic: true, Reply: "Please rephrase.",
	})

	rec := deliver(t, srv, "issue_comment",
		issueCommentPayload("created", "you are all idiots"))
	require.Equal(t, http.StatusAccepted, rec.Code)
	disp.Wait()

	issues := gw.AllIssues(modRepo)
	require.Len(t, issues, 1)
	require.Contains(t, issues[0].Title, "Toxicity in #5")
}

func TestUnsubscribedEventAccepted(t *testing.T) {
	srv, disp, gw, cls := newTestServer(true)

	rec := deliver(t, srv, "issue_comment",
		issueCommentPayload("locked", "whatever"))
	require.Equal(t, http.StatusAccepted, rec.Code)
	disp.Wait()

	require.Zero(t, cls.CallCount())
	require.Empty(t, gw.AllIssues(modRepo))
}

func TestModerationCloseRouted(t *testing.T) {
	srv, disp, gw, _ := newTestServer(false)

	// Seed a record so the undecided close has something to reopen.
	number := gw.SeedIssue(modRepo, gateway.Issue{
		State: gateway.IssueClosed,
		Title: "Toxicity in #5 in octo-org/community",
		Body: ">TOXIC_TEXT_ID: 500\n>PARENT_NUMBER: 5\n" +
			">EVENT_TYPE: issue_comment.created\n" +
			">MOD_COMMENT_ID: 1001",
	})

	payload := fmt.Sprintf(`{
		"action": "closed",
		"issue": {
			"id": 1, "number": %d, "labels": [],
			"body": ">TOXIC_TEXT_ID: 500\n>PARENT_NUMBER: 5\n>EVENT_TYPE: issue_comment.created\n>MOD_COMMENT_ID: 1001"
		},
		"repository": {"name": %q, "full_name": "octo-org/moderation"},
		"sender": {"id": 3, "login": "mod", "type": "User"}
	}`, number, modRepo)

	rec := deliver(t, srv, "issues", payload)
	require.Equal(t, http.StatusAccepted, rec.Code)
	disp.Wait()

	updated, ok := gw.IssueSnapshot(modRepo, number)
	require.True(t, ok)
	require.Equal(t, gateway.IssueOpen, updated.State)
}

func TestDetectionRepoIssueCloseIgnored(t *testing.T) {
	srv, disp, gw, cls := newTestServer(true)

	payload := `{
		"action": "closed",
		"issue": {"id": 900, "number": 5, "body": "done"},
		"repository": {"name": "community", "full_name": "octo-org/community"},
		"sender": {"id": 2, "login": "alice", "type": "User"}
	}`
	rec := deliver(t, srv, "issues", payload)
	require.Equal(t, http.StatusAccepted, rec.Code)
	disp.Wait()

	require.Zero(t, cls.CallCount())
	require.Empty(t, gw.AllIssues(modRepo))
}

func TestMapDetectionIssueComment(t *testing.T) {
	payload := issueCommentPayload("created", "some text")
	parsed, err := github.ParseWebHook("issue_comment", []byte(payload))
	require.NoError(t, err)

	ev, ok := mapDetection("d1", event.IssueCommentCreated, parsed,
		[]byte(payload))
	require.True(t, ok)

	require.Equal(t, detRepo, ev.Repo)
	require.Equal(t, "octo-org/community", ev.RepoFullName)
	require.Equal(t, 5, ev.ParentNumber)
	require.Equal(t, "Flaky tests", ev.ParentTitle)
	require.Equal(t, int64(1), ev.ParentAuthorID)
	require.False(t, ev.ParentIsPull)
	require.Equal(t, int64(500), ev.TextID)
	require.Equal(t, "mallory", ev.Author)
	require.False(t, ev.AuthorIsBot)
	require.Equal(t, "some text", ev.Body)
	require.False(t, ev.HasChanges)
	require.True(t, ev.TransferredTo.IsNone())
}

func TestMapDetectionTransferCarriesDestination(t *testing.T) {
	payload := `{
		"action": "transferred",
		"changes": {
			"new_issue": {"html_url": "https://github.com/octo-org/archive/issues/9"}
		},
		"issue": {
			"id": 900, "number": 5, "title": "Flaky tests",
			"body": "desc", "user": {"id": 1, "login": "alice"}
		},
		"repository": {"name": "community", "full_name": "octo-org/community"},
		"sender": {"id": 1, "login": "alice", "type": "User"}
	}`
	parsed, err := github.ParseWebHook("issues", []byte(payload))
	require.NoError(t, err)

	ev, ok := mapDetection("d1", event.IssuesTransferred, parsed,
		[]byte(payload))
	require.True(t, ok)
	require.True(t, ev.HasChanges)
	require.Equal(t, "https://github.com/octo-org/archive/issues/9",
		ev.TransferredTo.UnwrapOr(""))
}

func TestMapDetectionEmptyChangeSet(t *testing.T) {
	payload := `{
		"action": "edited",
		"changes": {},
		"review": {
			"id": 700, "body": "looks wrong",
			"user": {"id": 2, "login": "mallory"}
		},
		"pull_request": {
			"id": 800, "number": 6, "title": "Refactor",
			"body": "desc", "user": {"id": 1, "login": "alice"}
		},
		"repository": {"name": "community", "full_name": "octo-org/community"},
		"sender": {"id": 2, "login": "mallory", "type": "User"}
	}`
	parsed, err := github.ParseWebHook("pull_request_review",
		[]byte(payload))
	require.NoError(t, err)

	ev, ok := mapDetection("d1", event.ReviewEdited, parsed,
		[]byte(payload))
	require.True(t, ok)
	require.False(t, ev.HasChanges)
	require.True(t, ev.ParentIsPull)
	require.Equal(t, int64(700), ev.TextID)
}

func TestMapDetectionDiscussionComment(t *testing.T) {
	payload := `{
		"action": "created",
		"discussion": {
			"id": 300, "number": 12, "title": "Roadmap",
			"body": "plans", "user": {"id": 1, "login": "alice"}
		},
		"comment": {
			"id": 301, "body": "this roadmap is garbage",
			"html_url": "https://github.com/octo-org/community/discussions/12",
			"user": {"id": 2, "login": "mallory"}
		},
		"repository": {"name": "community", "full_name": "octo-org/community"},
		"sender": {"id": 2, "login": "mallory", "type": "Bot"}
	}`
	parsed, err := github.ParseWebHook("discussion_comment",
		[]byte(payload))
	require.NoError(t, err)

	ev, ok := mapDetection("d1", event.DiscussionCommentCreated, parsed,
		[]byte(payload))
	require.True(t, ok)
	require.Equal(t, 12, ev.ParentNumber)
	require.Equal(t, int64(301), ev.TextID)
	require.True(t, ev.AuthorIsBot)
}
