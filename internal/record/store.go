package record

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/reporeferee/reporeferee/internal/gateway"
)

// Store provides the read-side queries over the moderation repository's
// issue list. Every query re-reads the remote source of truth; there is no
// cache and no index. Cost is O(open+closed issues) per call, which is fine
// at webhook volume.
type Store struct {
	gw   gateway.RepoGateway
	repo string
	log  *slog.Logger
}

// NewStore creates a store over the given moderation repository.
func NewStore(gw gateway.RepoGateway, moderationRepo string,
	log *slog.Logger) *Store {

	if log == nil {
		log = slog.Default()
	}

	return &Store{
		gw:   gw,
		repo: moderationRepo,
		log:  log.With("component", "record-store"),
	}
}

// list fetches and parses every moderation issue, newest-created first.
// Issues without a decodable metadata footer are skipped: the moderation
// repo may hold hand-opened issues and records whose body update has not
// landed yet.
func (s *Store) list(ctx context.Context,
	includeExpired bool) ([]Record, error) {

	issues, err := s.gw.ListIssues(ctx, s.repo)
	if err != nil {
		return nil, fmt.Errorf("list moderation issues: %w", err)
	}

	records := make([]Record, 0, len(issues))
	for _, issue := range issues {
		rec, err := FromIssue(issue)
		if err != nil {
			s.log.Debug("Skipping issue without metadata",
				"issue", issue.Number)
			continue
		}
		if !includeExpired && rec.HasLabel(LabelExpired) {
			continue
		}

		records = append(records, rec)
	}

	return records, nil
}

// ListActive returns every record lacking the EXPIRED tombstone label,
// newest-created first.
func (s *Store) ListActive(ctx context.Context) ([]Record, error) {
	return s.list(ctx, false)
}

// ListAll returns every record, expired tombstones included, newest-created
// first.
func (s *Store) ListAll(ctx context.Context) ([]Record, error) {
	return s.list(ctx, true)
}

// FindByToxicTextID returns the newest record whose metadata references the
// given toxic text id, or None. Expired tombstones are only searched when
// includeExpired is set (deletion and transfer handling needs them).
func (s *Store) FindByToxicTextID(ctx context.Context, id int64,
	includeExpired bool) (fn.Option[Record], error) {

	records, err := s.list(ctx, includeExpired)
	if err != nil {
		return fn.None[Record](), err
	}

	for _, rec := range records {
		if rec.Meta.ToxicTextID == id {
			return fn.Some(rec), nil
		}
	}

	return fn.None[Record](), nil
}

// FindByReplayID returns the newest non-expired record whose metadata
// references the given bot reply id, or None. Appeals resolve through this:
// the appeal URL's trailing number is the reply's id.
func (s *Store) FindByReplayID(ctx context.Context,
	id int64) (fn.Option[Record], error) {

	records, err := s.list(ctx, false)
	if err != nil {
		return fn.None[Record](), err
	}

	for _, rec := range records {
		var match bool
		rec.Meta.ReplayID.WhenSome(func(replayID int64) {
			match = replayID == id
		})
		if match {
			return fn.Some(rec), nil
		}
	}

	return fn.None[Record](), nil
}
