package preprocess

import (
	"strings"
	"unicode"

	"github.com/dan-locke/clean-html"
	"github.com/hscells/docexp"
	"github.com/hscells/go-unidecode"
	"github.com/jdkato/prose/v2"
	"github.com/pkg/errors"
	"github.com/reiver/go-porterstemmer"
)

// Analyser turns raw text into a sequence of index terms.
type Analyser interface {
	Analyse(text string) ([]string, error)
}

// StandardAnalyser strips markup, transliterates to ASCII, lowercases and tokenises text, then optionally removes
// stop words and stems the remaining tokens.
type StandardAnalyser struct {
	Processors []TextProcessor
	Stopper    *docexp.Stopper
	Stem       bool
}

// AnalyserStopper configures the analyser to drop stop words.
func AnalyserStopper(s *docexp.Stopper) func(*StandardAnalyser) {
	return func(a *StandardAnalyser) {
		a.Stopper = s
	}
}

// AnalyserStemming configures the analyser to Porter stem tokens.
func AnalyserStemming(stem bool) func(*StandardAnalyser) {
	return func(a *StandardAnalyser) {
		a.Stem = stem
	}
}

// AnalyserProcessors adds text processors that are applied before tokenisation.
func AnalyserProcessors(processors ...TextProcessor) func(*StandardAnalyser) {
	return func(a *StandardAnalyser) {
		a.Processors = append(a.Processors, processors...)
	}
}

// NewStandardAnalyser creates a new analyser. By default text is lowercased and tokens are neither stopped nor stemmed.
func NewStandardAnalyser(options ...func(*StandardAnalyser)) *StandardAnalyser {
	a := &StandardAnalyser{
		Processors: []TextProcessor{Lowercase},
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Analyse implements the Analyser interface.
func (a *StandardAnalyser) Analyse(text string) ([]string, error) {
	txt := unidecode.Unidecode(text)
	for _, p := range a.Processors {
		txt = p(txt)
	}

	// Only the text portions of any markup are tokenised.
	portions, err := clean_html.TextPos([]byte(txt))
	if err != nil {
		return nil, errors.Wrap(err, "stripping markup")
	}

	var sb strings.Builder
	for i := range portions.Positions {
		sb.WriteString(txt[portions.Positions[i][0]:portions.Positions[i][1]])
		sb.WriteRune(' ')
	}

	doc, err := prose.NewDocument(sb.String(), prose.WithTagging(false), prose.WithExtraction(false), prose.WithSegmentation(false))
	if err != nil {
		return nil, errors.Wrap(err, "tokenising")
	}

	var terms []string
	for _, tok := range doc.Tokens() {
		term := strings.TrimFunc(tok.Text, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(term) == 0 || a.Stopper.IsStopWord(term) {
			continue
		}
		if a.Stem {
			term = porterstemmer.StemString(term)
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// Vector analyses text into a term vector of raw counts.
func Vector(a Analyser, text string) (*docexp.TermVector, error) {
	terms, err := a.Analyse(text)
	if err != nil {
		return nil, err
	}
	return docexp.TermVectorFromTerms(terms), nil
}

// Stem Porter stems each term.
func Stem(terms []string) []string {
	stemmed := make([]string, len(terms))
	for i, term := range terms {
		stemmed[i] = porterstemmer.StemString(term)
	}
	return stemmed
}
