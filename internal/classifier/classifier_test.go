package classifier

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ts(sec int) time.Time {
	return time.Unix(1700000000+int64(sec), 0).UTC()
}

func TestBuildContextOrdersAndSplits(t *testing.T) {
	parent := Comment{ID: 1, Timestamp: ts(0), Body: "opening post",
		AuthorID: 10}
	comments := []Comment{
		{ID: 4, Timestamp: ts(30), Body: "third", AuthorID: 13},
		{ID: 2, Timestamp: ts(10), Body: "first", AuthorID: 11},
		{ID: 3, Timestamp: ts(20), Body: "second", AuthorID: 12},
	}

	c, err := BuildContext(comments, 3, "broken build", "mallory", parent)
	require.NoError(t, err)

	require.Equal(t, "broken build", c.ParentTitle)
	require.Equal(t, "mallory", c.Author)
	require.Equal(t, int64(3), c.Target.ID)

	// Parent first, then everything said before the target, oldest first.
	// The later comment (id 4) must not leak into the context.
	require.Len(t, c.Previous, 2)
	require.Equal(t, int64(1), c.Previous[0].ID)
	require.Equal(t, int64(2), c.Previous[1].ID)
}

func TestBuildContextTargetMissing(t *testing.T) {
	_, err := BuildContext([]Comment{{ID: 2, Timestamp: ts(1)}}, 99,
		"t", "a", Comment{ID: 1})
	require.ErrorIs(t, err, ErrTargetNotFound)
}

func TestParseAnswerToxic(t *testing.T) {
	completion := "TEXT_TOXICITY: Yes\n" +
		"TOXICITY_REASONS: The text mocks the reporter.\n" +
		"VIOLATED_GUIDELINE: Be Respectful.\n" +
		"REPHRASED TEXT OPTIONS: 1. Could you clarify?\n" +
		"2. Please add details.\n3. What did you try?\n"

	a, err := parseAnswer(completion)
	require.NoError(t, err)
	require.True(t, a.toxic)
	require.Equal(t, "The text mocks the reporter.", a.reasons)
	require.Equal(t, "Be Respectful.", a.guideline)
	require.Contains(t, a.rephrasings, "1. Could you clarify?")
}

func TestParseAnswerClean(t *testing.T) {
	a, err := parseAnswer("TEXT_TOXICITY: No\n")
	require.NoError(t, err)
	require.False(t, a.toxic)
}

func TestParseAnswerMalformed(t *testing.T) {
	_, err := parseAnswer("I think this text is fine.")
	require.ErrorIs(t, err, ErrMalformedAnswer)

	// A toxic verdict without the follow-up sections is unusable.
	_, err = parseAnswer("TEXT_TOXICITY: Yes\nsomething unstructured")
	require.ErrorIs(t, err, ErrMalformedAnswer)
}

func TestComposeReplyShortOptions(t *testing.T) {
	a := answer{
		toxic:     true,
		reasons:   "Insulting tone.",
		guideline: "Be Respectful.",
		rephrasings: "1. Could you take another look?\n" +
			"2. I think this needs a second pass.\n" +
			"3. Would you mind revisiting this?",
	}
	c := Context{Author: "mallory",
		Target: Comment{Body: "this is garbage\n"}}

	reply := composeReply(a, c)
	require.Contains(t, reply, "<pre><i>this is garbage</i></pre>")
	require.Contains(t, reply, "Hi @mallory")
	require.Contains(t, reply, "Insulting tone.")
	require.Contains(t, reply, "Here are possible rephrasing options:")
	require.Contains(t, reply, "2. I think this needs a second pass.")
}

func TestComposeReplyLongFirstOption(t *testing.T) {
	long := "1. " + strings.Repeat("please reconsider ", 60)
	a := answer{toxic: true, rephrasings: long + "\n2. short"}
	c := Context{Author: "m", Target: Comment{Body: "x"}}

	reply := composeReply(a, c)
	require.Contains(t, reply, "Here is a possible rephrasing option:")
	require.NotContains(t, reply, "2. short")
}

func TestShortenExcerpt(t *testing.T) {
	short := "brief remark"
	require.Equal(t, short, shortenExcerpt(short))

	long := strings.Repeat("0123456789", 30)
	got := shortenExcerpt(long)
	require.Len(t, []rune(got), excerptLimit+3)
	require.True(t, len(got) < len(long))
}

func TestStripQuotedReplies(t *testing.T) {
	body := "I disagree with this.\n" +
		"> you wrote something earlier\n" +
		"> and a second quoted line\n" +
		"My actual reply here.\n" +
		">TOXIC_TEXT_ID: 42\n"

	got := StripQuotedReplies(body)
	require.Contains(t, got, "I disagree with this.")
	require.Contains(t, got, "My actual reply here.")
	require.NotContains(t, got, "you wrote something earlier")
	require.NotContains(t, got, "TOXIC_TEXT_ID")
}

func TestStripQuotedRepliesNoQuotes(t *testing.T) {
	body := "plain text\nwith two lines"
	require.Equal(t, body, StripQuotedReplies(body))
}

func TestPromptContainsThreadContext(t *testing.T) {
	c := Context{
		ParentTitle: "flaky test",
		Author:      "mallory",
		Previous: []Comment{
			{ID: 1, Timestamp: ts(0), Body: "opener",
				AuthorID: 10},
		},
		Target: Comment{ID: 2, Timestamp: ts(5),
			Body: "you are useless", AuthorID: 11},
	}

	prompt := buildPrompt(c)
	require.Contains(t, prompt, "Title: flaky test")
	require.Contains(t, prompt, "TARGET comment")
	require.Contains(t, prompt, "you are useless")
	require.Contains(t, prompt, "TEXT_TOXICITY: [Yes/No]")
	require.Contains(t, prompt, "Community Participation Guidelines")
}

func TestPromptWithoutContext(t *testing.T) {
	c := ParentContext("angry issue", "mallory",
		Comment{ID: 9, Timestamp: ts(0), Body: "fix your garbage"})

	prompt := buildPrompt(c)
	require.NotContains(t, prompt, "Comments before the TARGET comment")
	require.Contains(t, prompt, "fix your garbage")
}
