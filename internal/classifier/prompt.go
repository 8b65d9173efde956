package classifier

import (
	"fmt"
	"strings"
	"time"
)

// toxicityDefinition is the umbrella definition the model is asked to apply.
const toxicityDefinition = "A text is considered as toxic in open-source " +
	"communication, if it includes any of the following: identity " +
	"attacks/name-calling, insults, vulgarity, flirtations, reference to " +
	"sexual activities, threats, entitlement, arrogance, bitter " +
	"frustration, mocking, impatience or irony. A text that does not fit " +
	"this definition would be marked as non-toxic."

// subConcept is one named facet of toxicity with its definition and three
// few-shot examples.
type subConcept struct {
	name       string
	definition string
	examples   [3]string
}

var subConcepts = []subConcept{
	{
		name: "identity attack/name-calling",
		definition: "race, religion, nationality, gender, " +
			"sexual-oriented, or any other kind of attack and " +
			"mean/offensive words directed at someone or a group " +
			"of people",
		examples: [3]string{
			"Stupid fucking superstitious Christians.",
			"I would not be surprised if this database is " +
				"maintained by the Russians",
			"Let's at least blame it at the programmers for " +
				"trusting visual similarity instead of reading " +
				"the manual thoroughly.",
		},
	},
	{
		name: "insult",
		definition: "disrespectful or scornful expressions, often " +
			"using curse words or intentionally offensive " +
			"language directed at another person",
		examples: [3]string{
			"Seems like only thing you can do so far is talk, " +
				"come back when you will have any skill to show",
			"Sorry, but you don't do anything for this project, " +
				"only exhibit destructive activity, so your " +
				"opinion does not matter here.",
			"Developers who can't even find the official website " +
				"should change careers ASAP",
		},
	},
	{
		name: "vulgarity",
		definition: "using of language that is considered improper, " +
			"including profanity, curse words, acronyms referring " +
			"to expletives, or swearing",
		examples: [3]string{
			"And instead of switching to type strict TypeScript, " +
				"let's keep JS and no types in database, who " +
				"cares, same sh*t. It's probably the right time " +
				"to write another blog post for a falling open " +
				"source project.",
			"My comments aren't here anymore, because I wasted " +
				"hours articulating the problems, only to " +
				"remember no one here actually gives a shit " +
				"about my time, and I'm only hurting myself by " +
				"trying to contribute.",
			"Trying to download ubuntu/xenial64. Download speed " +
				"maxes out at 150 KB/s on a 1 Gbps symmetrical " +
				"fiber connection. WTF. Remaining time 1 hour? " +
				"I could probably download the ISO, read the " +
				"guide on how to set up my own box, and finish " +
				"earlier.",
		},
	},
	{
		name: "flirtation",
		definition: "behaviour that demonstrates a playful sexual " +
			"attraction to someone",
		examples: [3]string{
			"I really miss you my girl.",
			"Hello, sweetie… what's up?",
			"I think you might be the cure for my loneliness.",
		},
	},
	{
		name: "reference to sexual activities",
		definition: "both implicit or explicit references to sexual " +
			"activities",
		examples: [3]string{
			"This code makes me so horny. It's beautiful.",
			"I really want to suck on your tits.",
			"That suggestion was bold and direct, just how I like " +
				"my more intimate encounters.",
		},
	},
	{
		name: "threat",
		definition: "intention to inflict harm, loss, or damage on " +
			"another individual, their career, or a community, " +
			"either through aggressive behavior or by imposing " +
			"conditions that potentially impact the outcome of a " +
			"discussion",
		examples: [3]string{
			"@[user_name] Your employee is closing bugs that " +
				"actually exist, because he's upset I called " +
				"him out for lacking any curiosity about the " +
				"project he maintains. Personally, I'd fire him",
			"Closing, erasing, locking and blocking the author. " +
				"This is their first and last interaction on " +
				"this communication level.",
			"Well we can create a branch for sure, no biggie. " +
				"Still, creating a major release just for this " +
				"would be a bit overkill. Why don't you apply " +
				"the alternate solution mentioned in the " +
				"deprecation message? Then we can merge, after " +
				"you provide a convincing apology for your " +
				"behavior of course.",
		},
	},
	{
		name: "entitlement",
		definition: "expecting special privileges, attention, or " +
			"resources, often making demands of people or " +
			"projects without regard for the norms of " +
			"collaboration and respect, as if the author had an " +
			"expectation due to a contractual relationship or " +
			"payment",
		examples: [3]string{
			"I file an issue, maintainers close, reopen, again " +
				"close - whilst ignoring the essence of the " +
				"issue",
			"Sorry no, see other previous issues if you are " +
				"interested in a longer answer.",
			"Please fix this or offer a proper solution, I don't " +
				"care if we have to run a script to do it, but " +
				"something that can be automated would be nice. " +
				"We've positioned our whole infrastructure on " +
				"Nomad, and this is killing us.",
		},
	},
	{
		name: "arrogance",
		definition: "imposition of one's views on others from a " +
			"position of perceived authority or superiority " +
			"(earned or not) and demands that others act as " +
			"recommended",
		examples: [3]string{
			"Never hear about [standard]? A baseline for " +
				"developers. Use Google.",
			"And as a hint to you that you should'not use XP " +
				"anymore under any circumstances, I'll leave it " +
				"up to you to figure that out yourself. " +
				"Seriously: XP???",
			"Obviously, the solution is to use " +
				"[technology/approach]. It's not rocket science.",
		},
	},
	{
		name:       "bitter frustration",
		definition: "expressing strong frustration",
		examples: [3]string{
			"The way it is written is correct. Installation " +
				"problems is correct. Your PR is invalid, " +
				"useless, and it costs me time to triage. " +
				"You're the 4th person to open a spam PR.",
			"Wow, just \"closed the issue\" as a non-issue? " +
				"That's mature :D",
			"How has it taken nearly 3 years to just add a simple " +
				"250ms delay on that damn emoji button?",
		},
	},
	{
		name: "mocking",
		definition: "involves making fun of someone, typically " +
			"highlighting their mistakes",
		examples: [3]string{
			"congrats, you won an award for the best support of " +
				"the month",
			"For normal people on windows u can make small " +
				"version without these bloatwared things, " +
				"simple structure of folders, no tons of files " +
				"in root, some cores are included out of box",
			"Says who? You?",
		},
	},
	{
		name: "impatience",
		definition: "expressing a feeling that it is taking too long " +
			"to solve a problem, understand a solution, or " +
			"receive an answer to a question",
		examples: [3]string{
			"I am locking this thread. It is becoming useless",
			"Hey, still broken.",
			"Any update on this issue? Facing it and it's causing " +
				"very annoying stability issues on a select " +
				"few hosts.",
		},
	},
	{
		name:       "irony",
		definition: "signify the opposite in a mocking or blaming tone",
		examples: [3]string{
			"Ok, you win, have fun arguing forever instead of " +
				"proposing a solution",
			"Maybe you should actually write that down somewhere. " +
				"You know, like in the documentation.",
			"\"It seems you missed the point again\" oh, so you " +
				"know me well and you know how many times I " +
				"missed a point. and it is now my fault. I'm " +
				"sorry that you had a bad day...",
		},
	},
}

// renderThread flattens a Context into the textual thread representation the
// prompt embeds. Returns "" when there is no prior conversation.
func renderThread(c Context) string {
	if len(c.Previous) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", c.ParentTitle)
	b.WriteString("Comments before the TARGET comment:\n")
	for i, comment := range c.Previous {
		fmt.Fprintf(&b,
			"Comment nr.%d (created at: %s, by user ID: %d): "+
				"'''%s'''\n\n",
			i+1, comment.Timestamp.Format(time.RFC3339),
			comment.AuthorID, comment.Body)
	}
	fmt.Fprintf(&b,
		"TARGET comment (created at: %s, by user ID: %d): '''%s'''\n",
		c.Target.Timestamp.Format(time.RFC3339), c.Target.AuthorID,
		StripQuotedReplies(c.Target.Body))

	return b.String()
}

// buildPrompt assembles the full single-turn prompt: definition, sub-concept
// catalog with examples, the target text (with optional thread context), the
// community guidelines, and the required answer structure.
func buildPrompt(c Context) string {
	var b strings.Builder

	b.WriteString(toxicityDefinition)
	b.WriteString("\nSub-concepts of toxicity are defined below:\n")
	for _, sc := range subConcepts {
		fmt.Fprintf(&b, " - %s: %s. Examples of %s: ", sc.name,
			sc.definition, sc.name)
		fmt.Fprintf(&b, "%q, %q, %q;\n", sc.examples[0],
			sc.examples[1], sc.examples[2])
	}

	target := StripQuotedReplies(c.Target.Body)
	if thread := renderThread(c); thread != "" {
		fmt.Fprintf(&b, "Based on the provided toxicity definition "+
			"and context analyze the text and decide whether this "+
			"TARGET text is toxic: '''%s'''\n", target)
		fmt.Fprintf(&b, "Context:\n'''%s'''\n\n", thread)
	} else {
		fmt.Fprintf(&b, "Based on the provided toxicity definition "+
			"analyze the text and decide whether this TARGET "+
			"text is toxic: '''%s'''\n\n", target)
	}

	fmt.Fprintf(&b, "Additionally, these are Community Participation "+
		"Guidelines:\n'''%s'''\n\n", communityGuidelines)
	b.WriteString("If the comment is toxic, explain why the text is " +
		"considered toxic, referencing the specific sub-concept " +
		"definition, indicate which specific guideline from the " +
		"Community Participation Guidelines was violated and provide " +
		"three rephrased versions of the text that maintain the " +
		"original intent but without the toxicity.\n")

	b.WriteString("Structure your answer in the following format:\n")
	b.WriteString("TEXT_TOXICITY: [Yes/No]\n")
	b.WriteString("TOXICITY_REASONS: [Short explanation based on the " +
		"definitions provided, citing specific sub-concepts]\n")
	b.WriteString("VIOLATED_GUIDELINE: [Short explanation of the " +
		"specific guideline broken]\n")
	b.WriteString("REPHRASED TEXT OPTIONS: [Option 1, Option 2, " +
		"Option 3]\n")

	return b.String()
}
