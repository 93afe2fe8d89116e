// Package params reads per-query tuned expansion parameters.
package params

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// OptimalParameters are the expansion parameters tuned for one query.
type OptimalParameters struct {
	OrigWeight float64
	NumDocs    int
	NumTerms   int
	// VectorSize is 0 when it was not tuned.
	VectorSize       int
	ExpansionWeights []float64
}

// Default are the parameters used for a query with no tuned parameters.
func Default() OptimalParameters {
	return OptimalParameters{
		OrigWeight:       1.0,
		NumDocs:          5,
		NumTerms:         5,
		ExpansionWeights: []float64{0.0},
	}
}

// Table holds the lines of a parameters file, keyed by query title. The first line for a query wins.
type Table struct {
	params map[string]OptimalParameters
}

// Read parses "<queryTitle> key:val,key:val,..." lines. Recognised keys are origW, expDocs, expTerms, v and the
// repeatable expW.
func Read(r io.Reader) (*Table, error) {
	t := &Table{params: make(map[string]OptimalParameters)}
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		if _, ok := t.params[fields[0]]; ok {
			continue
		}
		p, err := parse(strings.Join(fields[1:], ""))
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		t.params[fields[0]] = p
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "reading parameters")
	}
	return t, nil
}

func parse(record string) (OptimalParameters, error) {
	p := Default()
	var expW []float64
	for _, pair := range strings.Split(record, ",") {
		if len(pair) == 0 {
			continue
		}
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 {
			return p, errors.Errorf("malformed parameter %q", pair)
		}
		key, val := kv[0], kv[1]
		var err error
		switch key {
		case "origW":
			p.OrigWeight, err = strconv.ParseFloat(val, 64)
		case "expDocs":
			p.NumDocs, err = strconv.Atoi(val)
		case "expTerms":
			p.NumTerms, err = strconv.Atoi(val)
		case "v":
			p.VectorSize, err = strconv.Atoi(val)
		case "expW":
			var w float64
			w, err = strconv.ParseFloat(val, 64)
			expW = append(expW, w)
		}
		if err != nil {
			return p, errors.Wrapf(err, "parameter %s", key)
		}
	}
	// A matched line lists all of its expansion weights, possibly none.
	p.ExpansionWeights = expW
	return p, nil
}

// Load reads a parameters file. A missing file is an error.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening optimal parameters")
	}
	defer f.Close()
	return Read(f)
}

// For returns the parameters of a query, or the defaults when the query has none.
func (t *Table) For(query string) OptimalParameters {
	if p, ok := t.params[query]; ok {
		return p
	}
	return Default()
}

// Contains reports whether the query has tuned parameters.
func (t *Table) Contains(query string) bool {
	_, ok := t.params[query]
	return ok
}

// Weights are the interpolation weights of the original document followed by each expansion index.
func (p OptimalParameters) Weights() []float64 {
	return append([]float64{p.OrigWeight}, p.ExpansionWeights...)
}

// RunID describes the parameters in the form used to label runs. Expansion weights are only listed when there is
// more than one expansion index, since a single index takes the remaining weight.
func (p OptimalParameters) RunID() string {
	id := "origW:" + strconv.FormatFloat(p.OrigWeight, 'f', -1, 64) +
		",expDocs:" + strconv.Itoa(p.NumDocs) +
		",expTerms:" + strconv.Itoa(p.NumTerms)
	if len(p.ExpansionWeights) > 1 {
		for _, w := range p.ExpansionWeights {
			id += ",expW:" + strconv.FormatFloat(w, 'f', -1, 64)
		}
	}
	return id
}
