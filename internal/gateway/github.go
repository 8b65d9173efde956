package gateway

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v71/github"
	"golang.org/x/oauth2"
)

// listPageSize is the per-page size used for all paginated listings.
const listPageSize = 100

// GitHubGateway implements RepoGateway against the GitHub REST API using an
// installation or personal access token. All repositories are resolved
// against a single owner.
type GitHubGateway struct {
	client *github.Client
	owner  string
	log    *slog.Logger
}

// Compile-time interface check.
var _ RepoGateway = (*GitHubGateway)(nil)

// NewGitHubGateway creates a gateway authenticated with the given token.
func NewGitHubGateway(owner, token string,
	log *slog.Logger) *GitHubGateway {

	if log == nil {
		log = slog.Default()
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(context.Background(), ts)

	return &GitHubGateway{
		client: github.NewClient(httpClient),
		owner:  owner,
		log:    log.With("component", "gateway"),
	}
}

// failed wraps a go-github error into an OperationFailed carrying the HTTP
// status, logging it once at the call site.
func (g *GitHubGateway) failed(op string, resp *github.Response,
	err error) error {

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	g.log.Error("Remote call failed", "op", op, "status", status,
		"error", err)

	return &OperationFailed{Op: op, StatusCode: status, Err: err}
}

// GetIssue fetches one issue by number.
func (g *GitHubGateway) GetIssue(ctx context.Context, repo string,
	number int) (Issue, error) {

	issue, resp, err := g.client.Issues.Get(ctx, g.owner, repo, number)
	if err != nil {
		return Issue{}, g.failed("get issue", resp, err)
	}

	return issueFromGitHub(issue), nil
}

// GetCommentBody fetches the body of an issue comment by id.
func (g *GitHubGateway) GetCommentBody(ctx context.Context, repo string,
	commentID int64) (string, error) {

	comment, resp, err := g.client.Issues.GetComment(
		ctx, g.owner, repo, commentID,
	)
	if err != nil {
		return "", g.failed("get comment", resp, err)
	}

	return comment.GetBody(), nil
}

// ListIssues returns every issue in the repo regardless of state, newest
// first. Pagination continues until an empty page comes back.
func (g *GitHubGateway) ListIssues(ctx context.Context,
	repo string) ([]Issue, error) {

	var all []Issue
	for page := 1; ; page++ {
		issues, resp, err := g.client.Issues.ListByRepo(
			ctx, g.owner, repo, &github.IssueListByRepoOptions{
				State:     "all",
				Sort:      "created",
				Direction: "desc",
				ListOptions: github.ListOptions{
					PerPage: listPageSize,
					Page:    page,
				},
			},
		)
		if err != nil {
			return nil, g.failed("list issues", resp, err)
		}
		if len(issues) == 0 {
			break
		}

		for _, issue := range issues {
			all = append(all, issueFromGitHub(issue))
		}
	}

	return all, nil
}

// CreateIssue opens a new issue and returns its number.
func (g *GitHubGateway) CreateIssue(ctx context.Context, repo,
	title string) (int, error) {

	issue, resp, err := g.client.Issues.Create(
		ctx, g.owner, repo, &github.IssueRequest{
			Title: github.Ptr(title),
		},
	)
	if err != nil {
		return 0, g.failed("create issue", resp, err)
	}

	return issue.GetNumber(), nil
}

// UpdateIssue applies a partial update to an issue.
func (g *GitHubGateway) UpdateIssue(ctx context.Context, repo string,
	number int, update IssueUpdate) error {

	req := &github.IssueRequest{}
	update.Body.WhenSome(func(body string) {
		req.Body = github.Ptr(body)
	})
	update.State.WhenSome(func(state IssueState) {
		req.State = github.Ptr(string(state))
	})
	update.Labels.WhenSome(func(labels []string) {
		req.Labels = &labels
	})

	_, resp, err := g.client.Issues.Edit(ctx, g.owner, repo, number, req)
	if err != nil {
		return g.failed("update issue", resp, err)
	}

	return nil
}

// AddLabels appends labels to an issue.
func (g *GitHubGateway) AddLabels(ctx context.Context, repo string,
	number int, labels []string) error {

	_, resp, err := g.client.Issues.AddLabelsToIssue(
		ctx, g.owner, repo, number, labels,
	)
	if err != nil {
		return g.failed("add labels", resp, err)
	}

	return nil
}

// DeleteIssueComment removes an issue comment by id.
func (g *GitHubGateway) DeleteIssueComment(ctx context.Context, repo string,
	commentID int64) error {

	resp, err := g.client.Issues.DeleteComment(
		ctx, g.owner, repo, commentID,
	)
	if err != nil {
		return g.failed("delete issue comment", resp, err)
	}

	return nil
}

// DeleteReviewReply removes a pull request review comment by id.
func (g *GitHubGateway) DeleteReviewReply(ctx context.Context, repo string,
	commentID int64) error {

	resp, err := g.client.PullRequests.DeleteComment(
		ctx, g.owner, repo, commentID,
	)
	if err != nil {
		return g.failed("delete review reply", resp, err)
	}

	return nil
}

// CreateComment posts a comment on an issue and returns its id.
func (g *GitHubGateway) CreateComment(ctx context.Context, repo string,
	number int, body string) (int64, error) {

	comment, resp, err := g.client.Issues.CreateComment(
		ctx, g.owner, repo, number, &github.IssueComment{
			Body: github.Ptr(body),
		},
	)
	if err != nil {
		return 0, g.failed("create comment", resp, err)
	}

	return comment.GetID(), nil
}

// ReplyToReviewComment posts a threaded reply to a review comment.
func (g *GitHubGateway) ReplyToReviewComment(ctx context.Context,
	repo string, pullNumber int, commentID int64,
	body string) (int64, error) {

	reply, resp, err := g.client.PullRequests.CreateCommentInReplyTo(
		ctx, g.owner, repo, pullNumber, body, commentID,
	)
	if err != nil {
		return 0, g.failed("reply to review comment", resp, err)
	}

	return reply.GetID(), nil
}

// ListIssueComments returns the comments on an issue, ascending by id.
func (g *GitHubGateway) ListIssueComments(ctx context.Context, repo string,
	number int) ([]Comment, error) {

	comments, resp, err := g.client.Issues.ListComments(
		ctx, g.owner, repo, number, nil,
	)
	if err != nil {
		return nil, g.failed("list issue comments", resp, err)
	}

	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, Comment{
			ID:          c.GetID(),
			Body:        c.GetBody(),
			AuthorID:    c.GetUser().GetID(),
			AuthorLogin: c.GetUser().GetLogin(),
			AuthorIsBot: c.GetUser().GetType() == "Bot",
			CreatedAt:   c.GetCreatedAt().Time,
		})
	}

	return out, nil
}

// ListReviewComments returns every review comment on a pull request.
func (g *GitHubGateway) ListReviewComments(ctx context.Context, repo string,
	pullNumber int) ([]Comment, error) {

	comments, resp, err := g.client.PullRequests.ListComments(
		ctx, g.owner, repo, pullNumber, nil,
	)
	if err != nil {
		return nil, g.failed("list review comments", resp, err)
	}

	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, Comment{
			ID:          c.GetID(),
			Body:        c.GetBody(),
			AuthorID:    c.GetUser().GetID(),
			AuthorLogin: c.GetUser().GetLogin(),
			AuthorIsBot: c.GetUser().GetType() == "Bot",
			CreatedAt:   c.GetCreatedAt().Time,
		})
	}

	return out, nil
}

// ListReviews returns every review on a pull request.
func (g *GitHubGateway) ListReviews(ctx context.Context, repo string,
	pullNumber int) ([]Review, error) {

	reviews, resp, err := g.client.PullRequests.ListReviews(
		ctx, g.owner, repo, pullNumber, nil,
	)
	if err != nil {
		return nil, g.failed("list reviews", resp, err)
	}

	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, Review{
			ID:          r.GetID(),
			Body:        r.GetBody(),
			AuthorID:    r.GetUser().GetID(),
			SubmittedAt: r.GetSubmittedAt().Time,
		})
	}

	return out, nil
}

// issueFromGitHub converts a go-github issue into the gateway view.
func issueFromGitHub(issue *github.Issue) Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.GetName())
	}

	return Issue{
		ID:        issue.GetID(),
		Number:    issue.GetNumber(),
		State:     IssueState(issue.GetState()),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		Labels:    labels,
		HTMLURL:   issue.GetHTMLURL(),
		CreatedAt: issue.GetCreatedAt().Time,
	}
}
