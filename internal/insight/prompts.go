package insight

// monthlySystemPrompt instructs the model on the structured response format.
// %s is the output language.
const monthlySystemPrompt = `You are a community analyst. You read one month of chat messages from a group channel and produce a short narrative digest.

Write all output text in %s.

Respond with valid JSON matching this schema:
{
  "summary": ["bullet 1", "bullet 2", "bullet 3"],
  "sentiment": "one short label for the month's overall mood",
  "funniest_quote": { "text": "verbatim quote", "author": "display name" },
  "impactful_quote": { "text": "verbatim quote", "author": "display name" }
}

Rules:
- "summary" holds 3-5 bullets covering the main topics, events and running jokes
- quotes must be verbatim messages from the transcript, never invented
- omit "funniest_quote" or "impactful_quote" if nothing qualifies
- return ONLY the JSON object, no markdown fences or other text`

// monthlyUserPrompt frames one chunk. Args: period label, transcript.
const monthlyUserPrompt = `Chat messages for %s, one message per "author: text" line (bodies may wrap onto further lines):

---
%s
---

Produce the JSON digest for this period.`

// synthesisSystemPrompt asks for a free-form narrative, not JSON. %s is the
// output language.
const synthesisSystemPrompt = `You are a community analyst. You are given a series of monthly digests of a group chat and write a single cohesive retrospective for the whole period.

Write in %s. Two to four paragraphs of flowing prose: the arc of the period, recurring themes, mood shifts, standout moments. No headings, no bullet lists, no JSON.`

// synthesisUserPrompt frames the merged digests. Args: period description,
// rendered digest list.
const synthesisUserPrompt = `Monthly digests for %s:

%s

Write the retrospective for the whole period.`
