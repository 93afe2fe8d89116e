package collection

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Document is one line of a document list: a document, optionally with the query it was judged for and the
// collection it belongs to.
type Document struct {
	Docno      string
	Query      string
	Collection string
}

// ReadDocuments reads "docno[,query[,collection]]" lines. Blank lines are skipped.
func ReadDocuments(r io.Reader) ([]Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	var docs []Document
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading document list")
		}
		if len(record) > 3 {
			line, _ := cr.FieldPos(0)
			return nil, errors.Errorf("document list line %d has %d fields", line, len(record))
		}
		d := Document{Docno: strings.TrimSpace(record[0])}
		if len(d.Docno) == 0 {
			continue
		}
		if len(record) > 1 {
			d.Query = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			d.Collection = strings.TrimSpace(record[2])
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// LoadDocuments reads a document list from a file.
func LoadDocuments(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening document list")
	}
	defer f.Close()
	return ReadDocuments(f)
}
