package query

import (
	"io"
	"os"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/preprocess"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
	"github.com/pkg/errors"
)

// JSONQueriesSource reads query sets of the form
// {"queries":[{"title":"301","text":"...","model":[{"weight":1,"feature":"term"}]}]}.
// A query with no model is built by analysing its text.
type JSONQueriesSource struct {
	analyser preprocess.Analyser
}

// NewJSONQueriesSource creates a JSON query source that analyses query text with a.
func NewJSONQueriesSource(a preprocess.Analyser) JSONQueriesSource {
	return JSONQueriesSource{analyser: a}
}

type feature struct {
	weight float64
	term   string
}

type jsonQuery struct {
	title string
	text  string
	model []feature
}

// Load reads a JSON query set from a file.
func (j JSONQueriesSource) Load(path string) (*Queries, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening queries")
	}
	return j.Parse(b)
}

// Parse decodes a JSON query set.
func (j JSONQueriesSource) Parse(data []byte) (*Queries, error) {
	in := &jlexer.Lexer{Data: data}
	var raw []jsonQuery
	decodeQueries(in, &raw)
	in.Consumed()
	if err := in.Error(); err != nil {
		return nil, errors.Wrap(err, "decoding queries")
	}

	queries := NewQueries()
	for _, r := range raw {
		if len(r.model) == 0 {
			q, err := analyse(j.analyser, r.title, r.text)
			if err != nil {
				return nil, errors.Wrapf(err, "query %s", r.title)
			}
			queries.Add(q)
			continue
		}
		v := docexp.NewTermVector()
		for _, f := range r.model {
			v.Add(f.term, f.weight)
		}
		queries.Add(&docexp.Query{Title: r.title, Text: r.text, Vector: v})
	}
	return queries, nil
}

func decodeQueries(in *jlexer.Lexer, out *[]jsonQuery) {
	if in.IsNull() {
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "queries":
			if in.IsNull() {
				in.Skip()
				break
			}
			in.Delim('[')
			for !in.IsDelim(']') {
				var q jsonQuery
				decodeQuery(in, &q)
				*out = append(*out, q)
				in.WantComma()
			}
			in.Delim(']')
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

func decodeQuery(in *jlexer.Lexer, out *jsonQuery) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "title":
			out.title = in.String()
		case "text":
			out.text = in.String()
		case "model":
			in.Delim('[')
			for !in.IsDelim(']') {
				var f feature
				in.Delim('{')
				for !in.IsDelim('}') {
					k := in.UnsafeFieldName(false)
					in.WantColon()
					switch k {
					case "weight":
						f.weight = in.Float64()
					case "feature":
						f.term = in.String()
					default:
						in.SkipRecursive()
					}
					in.WantComma()
				}
				in.Delim('}')
				out.model = append(out.model, f)
				in.WantComma()
			}
			in.Delim(']')
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

// WriteJSON encodes queries in the format read by JSONQueriesSource, with terms in descending weight order.
func WriteJSON(w io.Writer, queries []*docexp.Query) error {
	out := &jwriter.Writer{}
	out.RawString(`{"queries":[`)
	for i, q := range queries {
		if i > 0 {
			out.RawByte(',')
		}
		out.RawString(`{"title":`)
		out.String(q.Title)
		out.RawString(`,"text":`)
		out.String(q.Text)
		out.RawString(`,"model":[`)
		if q.Vector != nil {
			for j, term := range q.Vector.RankedTerms() {
				if j > 0 {
					out.RawByte(',')
				}
				out.RawString(`{"weight":`)
				out.Float64(q.Vector.Weight(term))
				out.RawString(`,"feature":`)
				out.String(term)
				out.RawByte('}')
			}
		}
		out.RawString(`]}`)
	}
	out.RawString(`]}`)
	if out.Error != nil {
		return out.Error
	}
	_, err := out.DumpTo(w)
	return err
}
