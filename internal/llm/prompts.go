// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"text/template"
)

// metadataSystemPrompt instructs the model to extract bibliographic fields
// from a paper's first page line by line. The response is bound to the
// PaperMeta JSON schema.
const metadataSystemPrompt = `Extract the following information from the scientific paper:

author: Extract the authors of the scientific paper. Write them in the format 'Name, Family Name'. If there are multiple authors, separate them with a ';'.

title: Extract the title of the scientific paper.

journal: Extract the name of the journal where the paper was published.

year: Extract the year of publication of the scientific paper.

volume: Extract the volume number of the journal where the paper was published.

number: Extract the issue number of the journal where the paper was published.

pages: Extract the page range of the scientific paper in the journal.

doi: Extract the DOI (Digital Object Identifier) of the scientific paper.`

// answerSystemTmpl is the system prompt for grounded summarization. The
// formatted source blocks are appended so the model can only cite what it
// was given.
var answerSystemTmpl = template.Must(template.New("answer").Parse(`You're a helpful AI assistant. You help scientists to write
scientific papers by summarizing the information provided in the context.
The summary should:
- Use the information in the context to answer the question. If no information is available, say you don't know.
- Avoid personal opinions or assumptions not supported by the text.
- Be formal, objective, and precise in tone.
The summary must:
- Include inline citations using the format: [value] - for one, [value1, value2, ...] - for many.

Always cite specific findings and clearly attribute ideas to the original source.
If multiple studies are mentioned, keep the structure logical and cohesive.

{{.Context}}`))

// renderAnswerSystem executes the summarization system prompt with the
// formatted context.
func renderAnswerSystem(formattedContext string) (string, error) {
	var buf bytes.Buffer
	err := answerSystemTmpl.Execute(&buf, struct{ Context string }{Context: formattedContext})
	return buf.String(), err
}
