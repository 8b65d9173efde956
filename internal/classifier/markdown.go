package classifier

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var mdParser parser.Parser = goldmark.New().Parser()

// StripQuotedReplies removes markdown blockquote lines from a comment body.
// Reply-style comments quote the text they answer, and an appeal or a reply
// to the bot would otherwise feed the quoted (possibly toxic, possibly
// bot-authored) text back into classification. The metadata footer lines are
// blockquotes too and get stripped the same way.
func StripQuotedReplies(body string) string {
	src := []byte(body)
	doc := mdParser.Parse(text.NewReader(src))

	starts := lineStarts(src)
	drop := make(map[int]struct{})

	_ = ast.Walk(doc, func(n ast.Node,
		entering bool) (ast.WalkStatus, error) {

		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*ast.Blockquote); !ok {
			return ast.WalkContinue, nil
		}

		markQuotedLines(n, starts, drop)
		return ast.WalkSkipChildren, nil
	})
	if len(drop) == 0 {
		return body
	}

	lines := strings.Split(body, "\n")
	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if _, quoted := drop[i]; quoted {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

// markQuotedLines records the source line index of every text segment under a
// blockquote node. Only block nodes carry line segments.
func markQuotedLines(n ast.Node, starts []int, drop map[int]struct{}) {
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			drop[lineIndexAt(starts, seg.Start)] = struct{}{}
		}
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		markQuotedLines(c, starts, drop)
	}
}

// lineStarts returns the byte offset of each line's first byte.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' && i+1 < len(src) {
			starts = append(starts, i+1)
		}
	}

	return starts
}

// lineIndexAt maps a byte offset to the index of the line containing it.
func lineIndexAt(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool {
		return starts[i] > offset
	}) - 1
}
