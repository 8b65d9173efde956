// Package record models moderation records: the issues in the moderation
// repository that track one piece of flagged text each. A record's state is
// never cached locally; it is re-derived from the remote issue's labels and
// body on every read.
package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/reporeferee/reporeferee/internal/gateway"
	"github.com/reporeferee/reporeferee/internal/metadata"
)

// Label is one of the seven moderation labels. The values are the literal
// GitHub label names; any other label on a moderation issue is tolerated and
// ignored.
type Label string

const (
	LabelApprove           Label = "✅ MODERATOR APPROVED"
	LabelReject            Label = "❌ MODERATOR REJECTED"
	LabelExpired           Label = "🕛 EXPIRED"
	LabelAutomaticResponse Label = "🤖 AUTOMATIC RESPONSE"
	LabelExecuted          Label = "👍 EXECUTED SUCCESSFULLY"
	LabelAppealed          Label = "⚖️ APPEALED"
	LabelResponseCleaned   Label = "🧹 RESPONSE CLEANED"
)

// ErrNoMetadata is returned when an issue in the moderation repo carries no
// decodable metadata footer. Freshly created issues look like this until
// their body update lands.
var ErrNoMetadata = errors.New("issue has no metadata footer")

// Record is the parsed view of one moderation issue.
type Record struct {
	// Number is the moderation issue number.
	Number int

	// Open reports whether the issue is currently open.
	Open bool

	// Title is the issue title ("Toxicity in #N in owner/repo").
	Title string

	// Body is the raw issue body, kept for body-rewriting updates.
	Body string

	// HTMLURL points at the issue in the browser.
	HTMLURL string

	// CreatedAt is the remote creation timestamp.
	CreatedAt time.Time

	// Meta is the decoded metadata footer.
	Meta metadata.Fields

	labels map[Label]struct{}
}

// FromIssue parses a gateway issue into a Record. Issues without a decodable
// footer fail with ErrNoMetadata wrapped around the codec error.
func FromIssue(issue gateway.Issue) (Record, error) {
	meta, err := metadata.Decode(issue.Body)
	if err != nil {
		return Record{}, fmt.Errorf("%w: issue #%d: %v",
			ErrNoMetadata, issue.Number, err)
	}

	labels := make(map[Label]struct{}, len(issue.Labels))
	for _, name := range issue.Labels {
		labels[Label(name)] = struct{}{}
	}

	return Record{
		Number:    issue.Number,
		Open:      issue.State == gateway.IssueOpen,
		Title:     issue.Title,
		Body:      issue.Body,
		HTMLURL:   issue.HTMLURL,
		CreatedAt: issue.CreatedAt,
		Meta:      meta,
		labels:    labels,
	}, nil
}

// HasLabel reports whether the record carries the given label.
func (r *Record) HasLabel(l Label) bool {
	_, ok := r.labels[l]
	return ok
}

// LabelCount returns how many of the known moderation labels the record
// carries. Unrecognized labels never count.
func (r *Record) LabelCount() int {
	return len(r.knownLabels())
}

func (r *Record) knownLabels() []Label {
	known := []Label{
		LabelApprove, LabelReject, LabelExpired,
		LabelAutomaticResponse, LabelExecuted, LabelAppealed,
		LabelResponseCleaned,
	}

	var out []Label
	for _, l := range known {
		if r.HasLabel(l) {
			out = append(out, l)
		}
	}

	return out
}
