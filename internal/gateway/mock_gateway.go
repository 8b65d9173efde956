package gateway

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// MockGateway provides an in-memory implementation of RepoGateway for
// testing. All data lives in maps protected by a mutex; creation order
// doubles as a logical clock so newest-first listings are deterministic.
type MockGateway struct {
	mu sync.Mutex

	repos map[string]*mockRepo

	// nextID hands out globally unique comment/review/issue ids.
	nextID int64

	// clock is a logical timestamp source for created-at ordering.
	clock time.Time

	// DeletedComments records the ids passed to DeleteIssueComment and
	// DeleteReviewReply, for assertions.
	DeletedComments []int64

	// FailNextList forces the next ListIssues call to fail with a
	// transport error.
	FailNextList bool
}

type mockRepo struct {
	issues         map[int]*Issue
	issueComments  map[int]map[int64]Comment
	reviewComments map[int]map[int64]Comment
	reviews        map[int][]Review
	nextIssue      int
}

// Compile-time interface check.
var _ RepoGateway = (*MockGateway)(nil)

// NewMockGateway creates an empty in-memory gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		repos:  make(map[string]*mockRepo),
		nextID: 1000,
		clock:  time.Unix(1700000000, 0),
	}
}

func (m *MockGateway) repo(name string) *mockRepo {
	r, ok := m.repos[name]
	if !ok {
		r = &mockRepo{
			issues:         make(map[int]*Issue),
			issueComments:  make(map[int]map[int64]Comment),
			reviewComments: make(map[int]map[int64]Comment),
			reviews:        make(map[int][]Review),
			nextIssue:      1,
		}
		m.repos[name] = r
	}

	return r
}

func (m *MockGateway) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MockGateway) id() int64 {
	m.nextID++
	return m.nextID
}

func notFound(op string) error {
	return &OperationFailed{Op: op, StatusCode: 404, Err: ErrNotFound}
}

// GetIssue returns an issue by number.
func (m *MockGateway) GetIssue(_ context.Context, repo string,
	number int) (Issue, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	issue, ok := m.repo(repo).issues[number]
	if !ok {
		return Issue{}, notFound("get issue")
	}

	return *issue, nil
}

// GetCommentBody returns a comment body by id, searching both comment kinds.
func (m *MockGateway) GetCommentBody(_ context.Context, repo string,
	commentID int64) (string, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.repo(repo)
	for _, byID := range r.issueComments {
		if c, ok := byID[commentID]; ok {
			return c.Body, nil
		}
	}
	for _, byID := range r.reviewComments {
		if c, ok := byID[commentID]; ok {
			return c.Body, nil
		}
	}

	return "", notFound("get comment")
}

// ListIssues returns all issues newest-created first.
func (m *MockGateway) ListIssues(_ context.Context,
	repo string) ([]Issue, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNextList {
		m.FailNextList = false
		return nil, &OperationFailed{
			Op: "list issues", StatusCode: 503,
			Err: errors.New("unavailable"),
		}
	}

	r := m.repo(repo)
	out := make([]Issue, 0, len(r.issues))
	for _, issue := range r.issues {
		out = append(out, *issue)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// CreateIssue opens a new issue.
func (m *MockGateway) CreateIssue(_ context.Context, repo,
	title string) (int, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.repo(repo)
	number := r.nextIssue
	r.nextIssue++
	r.issues[number] = &Issue{
		ID:        m.id(),
		Number:    number,
		State:     IssueOpen,
		Title:     title,
		CreatedAt: m.tick(),
	}

	return number, nil
}

// UpdateIssue applies a partial update.
func (m *MockGateway) UpdateIssue(_ context.Context, repo string, number int,
	update IssueUpdate) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	issue, ok := m.repo(repo).issues[number]
	if !ok {
		return notFound("update issue")
	}

	update.Body.WhenSome(func(body string) { issue.Body = body })
	update.State.WhenSome(func(state IssueState) { issue.State = state })
	update.Labels.WhenSome(func(labels []string) { issue.Labels = labels })

	return nil
}

// AddLabels appends labels not already present.
func (m *MockGateway) AddLabels(_ context.Context, repo string, number int,
	labels []string) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	issue, ok := m.repo(repo).issues[number]
	if !ok {
		return notFound("add labels")
	}

	for _, label := range labels {
		present := false
		for _, existing := range issue.Labels {
			if existing == label {
				present = true
				break
			}
		}
		if !present {
			issue.Labels = append(issue.Labels, label)
		}
	}

	return nil
}

// DeleteIssueComment removes an issue comment.
func (m *MockGateway) DeleteIssueComment(_ context.Context, repo string,
	commentID int64) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.repo(repo)
	for number, byID := range r.issueComments {
		if _, ok := byID[commentID]; ok {
			delete(r.issueComments[number], commentID)
			m.DeletedComments = append(m.DeletedComments,
				commentID)
			return nil
		}
	}

	return notFound("delete issue comment")
}

// DeleteReviewReply removes a review comment.
func (m *MockGateway) DeleteReviewReply(_ context.Context, repo string,
	commentID int64) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.repo(repo)
	for number, byID := range r.reviewComments {
		if _, ok := byID[commentID]; ok {
			delete(r.reviewComments[number], commentID)
			m.DeletedComments = append(m.DeletedComments,
				commentID)
			return nil
		}
	}

	return notFound("delete review reply")
}

// CreateComment posts an issue comment.
func (m *MockGateway) CreateComment(_ context.Context, repo string,
	number int, body string) (int64, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.repo(repo)
	if _, ok := r.issues[number]; !ok {
		return 0, notFound("create comment")
	}
	if r.issueComments[number] == nil {
		r.issueComments[number] = make(map[int64]Comment)
	}

	id := m.id()
	r.issueComments[number][id] = Comment{
		ID:        id,
		Body:      body,
		CreatedAt: m.tick(),
	}

	return id, nil
}

// ReplyToReviewComment posts a review comment reply.
func (m *MockGateway) ReplyToReviewComment(_ context.Context, repo string,
	pullNumber int, commentID int64, body string) (int64, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.repo(repo)
	if r.reviewComments[pullNumber] == nil {
		r.reviewComments[pullNumber] = make(map[int64]Comment)
	}

	id := m.id()
	r.reviewComments[pullNumber][id] = Comment{
		ID:        id,
		Body:      body,
		CreatedAt: m.tick(),
	}
	_ = commentID

	return id, nil
}

// ListIssueComments returns an issue's comments ascending by id.
func (m *MockGateway) ListIssueComments(_ context.Context, repo string,
	number int) ([]Comment, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	return sortedComments(m.repo(repo).issueComments[number]), nil
}

// ListReviewComments returns a pull request's review comments.
func (m *MockGateway) ListReviewComments(_ context.Context, repo string,
	pullNumber int) ([]Comment, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	return sortedComments(m.repo(repo).reviewComments[pullNumber]), nil
}

// ListReviews returns a pull request's reviews.
func (m *MockGateway) ListReviews(_ context.Context, repo string,
	pullNumber int) ([]Review, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	reviews := m.repo(repo).reviews[pullNumber]
	out := make([]Review, len(reviews))
	copy(out, reviews)

	return out, nil
}

func sortedComments(byID map[int64]Comment) []Comment {
	out := make([]Comment, 0, len(byID))
	for _, c := range byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out
}

// ==========================================================================
// Test helpers: direct state access without going through the interface.
// ==========================================================================

// SeedIssue inserts an issue with explicit fields, returning its number.
func (m *MockGateway) SeedIssue(repo string, issue Issue) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.repo(repo)
	if issue.Number == 0 {
		issue.Number = r.nextIssue
	}
	if issue.Number >= r.nextIssue {
		r.nextIssue = issue.Number + 1
	}
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = m.tick()
	}
	if issue.State == "" {
		issue.State = IssueOpen
	}
	if issue.ID == 0 {
		issue.ID = m.id()
	}
	r.issues[issue.Number] = &issue

	return issue.Number
}

// SeedIssueComment inserts an issue comment with explicit fields.
func (m *MockGateway) SeedIssueComment(repo string, number int, c Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.repo(repo)
	if r.issueComments[number] == nil {
		r.issueComments[number] = make(map[int64]Comment)
	}
	if c.ID == 0 {
		c.ID = m.id()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.tick()
	}
	r.issueComments[number][c.ID] = c
}

// SeedReviewComment inserts a review comment with explicit fields.
func (m *MockGateway) SeedReviewComment(repo string, pullNumber int,
	c Comment) {

	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.repo(repo)
	if r.reviewComments[pullNumber] == nil {
		r.reviewComments[pullNumber] = make(map[int64]Comment)
	}
	if c.ID == 0 {
		c.ID = m.id()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = m.tick()
	}
	r.reviewComments[pullNumber][c.ID] = c
}

// SeedReview inserts a review.
func (m *MockGateway) SeedReview(repo string, pullNumber int, r Review) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == 0 {
		r.ID = m.id()
	}
	rep := m.repo(repo)
	rep.reviews[pullNumber] = append(rep.reviews[pullNumber], r)
}

// IssueSnapshot returns a copy of an issue's current remote state.
func (m *MockGateway) IssueSnapshot(repo string, number int) (Issue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	issue, ok := m.repo(repo).issues[number]
	if !ok {
		return Issue{}, false
	}

	return *issue, true
}

// CommentsSnapshot returns a copy of an issue's comments ascending by id.
func (m *MockGateway) CommentsSnapshot(repo string, number int) []Comment {
	m.mu.Lock()
	defer m.mu.Unlock()

	return sortedComments(m.repo(repo).issueComments[number])
}

// ReviewCommentsSnapshot returns a copy of a PR's review comments.
func (m *MockGateway) ReviewCommentsSnapshot(repo string,
	pullNumber int) []Comment {

	m.mu.Lock()
	defer m.mu.Unlock()

	return sortedComments(m.repo(repo).reviewComments[pullNumber])
}

// AllIssues returns every issue in a repo, newest first.
func (m *MockGateway) AllIssues(repo string) []Issue {
	issues, _ := m.ListIssues(context.Background(), repo)
	return issues
}
