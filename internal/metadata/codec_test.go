package metadata

import (
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecodeRoundTrip(t *testing.T) {
	f := Fields{
		ToxicTextID:       2170548037,
		ParentNumber:      74,
		EventTypeFullName: "issue_comment.created",
		ModCommentID:      918273645,
		ReplayID:          fn.None[int64](),
	}

	got, err := Decode(Footer(f))
	require.NoError(t, err)
	require.Equal(t, f, got)

	// With a reply id appended the round trip still holds.
	body := AppendReplayID(Footer(f), 2168266972)
	f.ReplayID = fn.Some[int64](2168266972)

	got, err = Decode(body)
	require.NoError(t, err)
	require.Equal(t, f, got)
}

// TestDecodeRoundTripProperty verifies decode(encode(fields)) == fields for
// arbitrary well-formed field sets.
func TestDecodeRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := Fields{
			ToxicTextID: rapid.Int64Range(0, 1<<62).Draw(
				t, "toxicTextID"),
			ParentNumber: rapid.IntRange(0, 1<<30).Draw(
				t, "parentNumber"),
			EventTypeFullName: rapid.StringMatching(
				`[a-z_]+\.[a-z]+`).Draw(t, "eventType"),
			ModCommentID: rapid.Int64Range(0, 1<<62).Draw(
				t, "modCommentID"),
			ReplayID: fn.None[int64](),
		}
		if rapid.Bool().Draw(t, "hasReplay") {
			f.ReplayID = fn.Some(rapid.Int64Range(0, 1<<62).Draw(
				t, "replayID"))
		}

		got, err := Decode(Footer(f))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != f {
			t.Fatalf("round trip mismatch: %+v != %+v", got, f)
		}
	})
}

func TestDecodeToleratesLeadingText(t *testing.T) {
	body := "### 🚨 Toxicity Alert\nSome free text with #99 references\n" +
		"and a > quoted line\n---\n" +
		">TOXIC_TEXT_ID: 42\n" +
		">PARENT_NUMBER: 7\n" +
		">EVENT_TYPE: discussion.edited\n" +
		">MOD_COMMENT_ID: 1001"

	f, err := Decode(body)
	require.NoError(t, err)
	require.Equal(t, int64(42), f.ToxicTextID)
	require.Equal(t, 7, f.ParentNumber)
	require.Equal(t, "discussion.edited", f.EventTypeFullName)
	require.Equal(t, int64(1001), f.ModCommentID)
	require.True(t, f.ReplayID.IsNone())
}

func TestDecodeOrderInsensitive(t *testing.T) {
	body := ">MOD_COMMENT_ID: 3\n>EVENT_TYPE: issues.opened\n" +
		">REPLAY_ID: 9\n>PARENT_NUMBER: 2\n>TOXIC_TEXT_ID: 1"

	f, err := Decode(body)
	require.NoError(t, err)
	require.Equal(t, int64(1), f.ToxicTextID)
	require.Equal(t, 2, f.ParentNumber)
	require.Equal(t, int64(3), f.ModCommentID)
	require.Equal(t, fn.Some[int64](9), f.ReplayID)
}

func TestDecodeMissingField(t *testing.T) {
	body := ">TOXIC_TEXT_ID: 42\n>PARENT_NUMBER: 7\n" +
		">EVENT_TYPE: issues.opened"

	_, err := Decode(body)
	require.ErrorIs(t, err, ErrMissingField)
}

func TestDecodeInvalidFormat(t *testing.T) {
	body := ">TOXIC_TEXT_ID: not-a-number\n>PARENT_NUMBER: 7\n" +
		">EVENT_TYPE: issues.opened\n>MOD_COMMENT_ID: 1"

	_, err := Decode(body)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDecodeReplayIDAbsentVsMalformed(t *testing.T) {
	opt, err := DecodeReplayID("no footer here")
	require.NoError(t, err)
	require.True(t, opt.IsNone())

	_, err = DecodeReplayID(">REPLAY_ID: zzz")
	require.ErrorIs(t, err, ErrInvalidFormat)
}
