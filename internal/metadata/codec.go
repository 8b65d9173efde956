// Package metadata implements the footer protocol embedded in moderation
// issue bodies. The footer is the only cross-repository "foreign key" the
// system has: it records which detection-repo text a moderation record
// refers to, which event produced it, where the draft response lives, and —
// once a reply has been posted — the reply's id. All format coupling lives
// here; the controller never touches raw footer text.
package metadata

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Footer key prefixes. Each field occupies its own ">KEY: value" line.
const (
	keyToxicTextID = "TOXIC_TEXT_ID: "
	keyParentNum   = "PARENT_NUMBER: "
	keyEventType   = "EVENT_TYPE: "
	keyModComment  = "MOD_COMMENT_ID: "
	keyReplayID    = "REPLAY_ID: "
)

var (
	// ErrMissingField is returned when a mandatory footer field is absent
	// from the body.
	ErrMissingField = errors.New("missing metadata field")

	// ErrInvalidFormat is returned when a footer field is present but its
	// value cannot be parsed.
	ErrInvalidFormat = errors.New("invalid metadata format")
)

// Each key is anchored independently so decoding is order-insensitive and
// tolerates arbitrary free text before (and between) footer lines. The value
// capture is deliberately loose; numeric validation happens in parseInt so
// that a present-but-malformed field is distinguishable from an absent one.
var (
	toxicTextIDPat = regexp.MustCompile(`>\s*` + keyToxicTextID + `(\S+)`)
	parentNumPat   = regexp.MustCompile(`>\s*` + keyParentNum + `(\S+)`)
	eventTypePat   = regexp.MustCompile(`>\s*` + keyEventType + `([\w.]+)`)
	modCommentPat  = regexp.MustCompile(`>\s*` + keyModComment + `(\S+)`)
	replayIDPat    = regexp.MustCompile(`>\s*` + keyReplayID + `(\S+)`)
)

// Fields is the decoded footer of one moderation record. All fields except
// ReplayID are set at record creation and never change; ReplayID is appended
// exactly once when a reply is posted back into the detection repo.
type Fields struct {
	// ToxicTextID identifies the flagged comment/issue/PR/review.
	ToxicTextID int64

	// ParentNumber is the issue/PR/discussion number containing the text.
	ParentNumber int

	// EventTypeFullName is the dotted event name that produced the record.
	EventTypeFullName string

	// ModCommentID is the moderation-repo comment holding the draft
	// response.
	ModCommentID int64

	// ReplayID is the id of the bot reply posted into the detection repo,
	// once one exists.
	ReplayID fn.Option[int64]
}

// Footer renders the fields as footer lines. Values must not contain
// newlines; no escaping is performed.
func Footer(f Fields) string {
	var b strings.Builder
	fmt.Fprintf(&b, ">%s%d\n", keyToxicTextID, f.ToxicTextID)
	fmt.Fprintf(&b, ">%s%d\n", keyParentNum, f.ParentNumber)
	fmt.Fprintf(&b, ">%s%s\n", keyEventType, f.EventTypeFullName)
	fmt.Fprintf(&b, ">%s%d", keyModComment, f.ModCommentID)
	f.ReplayID.WhenSome(func(id int64) {
		fmt.Fprintf(&b, "\n>%s%d", keyReplayID, id)
	})

	return b.String()
}

// AppendReplayID appends the REPLAY_ID footer line to an existing body. The
// caller is responsible for calling this at most once per record.
func AppendReplayID(body string, replayID int64) string {
	return fmt.Sprintf("%s\n>%s%d", body, keyReplayID, replayID)
}

// Decode extracts the footer fields out of a moderation issue body. The four
// mandatory fields fail with ErrMissingField when absent; REPLAY_ID decodes
// to None when structurally absent. Any present field with a non-numeric
// value (where a number is required) fails with ErrInvalidFormat.
func Decode(body string) (Fields, error) {
	var f Fields

	toxicID, err := matchInt64(toxicTextIDPat, body, keyToxicTextID)
	if err != nil {
		return f, err
	}
	f.ToxicTextID = toxicID

	parentNum, err := matchInt64(parentNumPat, body, keyParentNum)
	if err != nil {
		return f, err
	}
	f.ParentNumber = int(parentNum)

	m := eventTypePat.FindStringSubmatch(body)
	if m == nil {
		return f, fmt.Errorf("%w: %s", ErrMissingField, keyEventType)
	}
	f.EventTypeFullName = m[1]

	modComment, err := matchInt64(modCommentPat, body, keyModComment)
	if err != nil {
		return f, err
	}
	f.ModCommentID = modComment

	replayID, err := DecodeReplayID(body)
	if err != nil {
		return f, err
	}
	f.ReplayID = replayID

	return f, nil
}

// DecodeReplayID extracts just the optional REPLAY_ID field. Absence is not
// an error; a malformed value is.
func DecodeReplayID(body string) (fn.Option[int64], error) {
	m := replayIDPat.FindStringSubmatch(body)
	if m == nil {
		return fn.None[int64](), nil
	}

	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return fn.None[int64](), fmt.Errorf("%w: %s%q",
			ErrInvalidFormat, keyReplayID, m[1])
	}

	return fn.Some(id), nil
}

// matchInt64 applies a mandatory-field pattern and parses its capture as a
// base-10 integer.
func matchInt64(pat *regexp.Regexp, body, key string) (int64, error) {
	m := pat.FindStringSubmatch(body)
	if m == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, key)
	}

	v, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s%q", ErrInvalidFormat, key, m[1])
	}

	return v, nil
}
