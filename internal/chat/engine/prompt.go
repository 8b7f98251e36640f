package engine

import (
	"fmt"
	"strings"

	"github.com/jvcl/datachat/internal/chat/entity"
)

// buildSystemPrompt describes the dataset to the model and pins the
// reply format to the JSON envelope parseAnswer understands.
func buildSystemPrompt(dataset *entity.Dataset, maxSampleRows int) string {
	var b strings.Builder

	b.WriteString("You are a data analyst answering questions about one table.\n")
	fmt.Fprintf(&b, "The table has %d rows and these columns: %s\n",
		dataset.RowCount(), strings.Join(dataset.Columns, "; "))

	sample := dataset.Tail(maxSampleRows)
	if len(sample) > 0 {
		fmt.Fprintf(&b, "The last %d rows, semicolon-separated, header first:\n", len(sample))
		b.WriteString(strings.Join(dataset.Columns, ";"))
		b.WriteString("\n")
		for _, row := range sample {
			b.WriteString(strings.Join(row, ";"))
			b.WriteString("\n")
		}
	}

	b.WriteString(`Reply with a single JSON object and nothing else:
{"type":"text","text":"..."} for a prose answer,
{"type":"table","columns":["..."],"rows":[["..."]]} for a tabular answer,
{"type":"image","url":"..."} when the answer is a chart or image URL.
`)

	return b.String()
}
