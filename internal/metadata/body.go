package metadata

import (
	"fmt"
	"regexp"
	"strings"
)

// SystemInfoTag prefixes every comment the bot writes on a moderation issue,
// so moderators can tell bot bookkeeping apart from human discussion.
const SystemInfoTag = "#### [SYSTEM_INFO]\n"

// guidelinesURL points at the community participation guidelines referenced
// from every bot reply.
const guidelinesURL = "https://www.mozilla.org/en-US/about/governance/policies/participation/"

// DescriptionParams carries everything needed to render a fresh moderation
// issue body.
type DescriptionParams struct {
	// ActionName and PayloadName describe what was flagged, e.g.
	// "created" "comment".
	ActionName  string
	PayloadName string

	// RepoFullName and RepoHTMLURL identify the detection repository.
	RepoFullName string
	RepoHTMLURL  string

	// ToxicBody is the flagged text, quoted verbatim in the description.
	ToxicBody string

	// ContentHTMLURL links back to the flagged content.
	ContentHTMLURL string

	// Automatic toggles the moderator checklist: in automatic mode the
	// record is informational and no action items are rendered.
	Automatic bool

	// Fields is the footer to embed.
	Fields Fields
}

// Description renders the full moderation issue body: alert header, quoted
// excerpt, moderator checklist (semi-automatic mode only), review link,
// feedback survey, and the metadata footer.
func Description(p DescriptionParams) string {
	var b strings.Builder

	fmt.Fprintf(&b,
		"### 🚨 Toxicity Alert for %s %s in [%s](%s).\n",
		p.ActionName, p.PayloadName, p.RepoFullName, p.RepoHTMLURL)
	fmt.Fprintf(&b, "**Detected Toxic Content:**\n <pre><i>%s</i></pre>\n\n",
		strings.TrimRight(p.ToxicBody, "\r\n"))

	if !p.Automatic {
		b.WriteString("**Action Required:**\n")
		b.WriteString("- [ ] Please review and address the toxic " +
			"content identified in the description of the issue.\n")
		b.WriteString("- [ ] You can edit the moderation response in " +
			"the comment below or leave it as is.\n\n")
		b.WriteString("- [ ] You can then set a label to this issue, " +
			"either `✅ MODERATOR APPROVED` or " +
			"`❌ MODERATOR REJECTED`.\n\n")
		b.WriteString("- [ ] Finally, please answer the quick survey " +
			"below by editing this comment.\n\n")
	}

	fmt.Fprintf(&b, "👉 [Review Detected Content](%s)\n\n",
		p.ContentHTMLURL)

	b.WriteString("---\n")
	b.WriteString("📢 **Feedback:**\n")
	b.WriteString("1. How much time did you need to review or handle " +
		"this comment?\n")
	b.WriteString("> 00:00:00 (HH:MM:SS)\n")
	b.WriteString("2. How satisfied are you with the <ins>toxicity " +
		"explanation</ins>?\n")
	b.WriteString("  - [ ] Very dissatisfied\n")
	b.WriteString("  - [ ] Dissatisfied\n")
	b.WriteString("  - [ ] Neutral\n")
	b.WriteString("  - [ ] Satisfied\n")
	b.WriteString("  - [ ] Very Satisfied\n")

	b.WriteString("---\n")
	b.WriteString("*⚠️do not delete the below comment with moderation " +
		"response!*\n")
	b.WriteString(Footer(p.Fields))

	return b.String()
}

// ReplyFooter renders the trailer appended to every bot reply in a detection
// repo, distinguishing automatic from human-reviewed responses and carrying
// the appeal instructions.
func ReplyFooter(automatic bool) string {
	var b strings.Builder
	if automatic {
		b.WriteString("> 🤖 Automated response\n")
	} else {
		b.WriteString("> ✅ Response reviewed and approved by a " +
			"human moderator\n")
	}
	b.WriteString("📢 If you have concerns or want to discuss this " +
		"decision, reply using ```/appeal link_to_the_bot_comment```.\n")
	fmt.Fprintf(&b, "👉 Link to [Guidelines](%s)", guidelinesURL)

	return b.String()
}

// RepoNameFromBody extracts the detection repository name out of the
// "[owner/repo](url)" link the Description header embeds. Returns "" when no
// link for the given owner is present.
func RepoNameFromBody(body, owner string) string {
	pat := regexp.MustCompile(`\[` + regexp.QuoteMeta(owner) +
		`/([^\]]+)\]`)
	m := pat.FindStringSubmatch(body)
	if m == nil {
		return ""
	}

	return m[1]
}
