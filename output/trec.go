package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/eval"
	"github.com/hscells/trecresults"
)

// TrecWriter writes rankings in the six column trec run format "query Q0 docno rank score runid".
type TrecWriter struct {
	w *bufio.Writer
}

// NewTrecWriter creates a run writer.
func NewTrecWriter(w io.Writer) *TrecWriter {
	return &TrecWriter{w: bufio.NewWriter(w)}
}

// WriteResults writes a result list, replacing the run name of every result with runID.
func (t *TrecWriter) WriteResults(results trecresults.ResultList, runID string) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(t.w, "%s Q0 %s %d %s %s\n", r.Topic, r.DocId, r.Rank, FormatValue(r.Score), runID); err != nil {
			return err
		}
	}
	return nil
}

// WriteHits writes the ranking of one query.
func (t *TrecWriter) WriteHits(query string, hits docexp.SearchHits, runID string) error {
	return t.WriteResults(eval.ResultList(query, hits), runID)
}

// Flush writes any buffered lines.
func (t *TrecWriter) Flush() error {
	return t.w.Flush()
}
