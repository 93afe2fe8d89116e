package output

import (
	"io"
	"sort"

	"github.com/mailru/easyjson/jwriter"
)

// WriteEvaluation writes evaluation scores keyed by run or query and then measurement as JSON. Keys are sorted so
// that the output is stable.
func WriteEvaluation(w io.Writer, results map[string]map[string]float64) error {
	out := &jwriter.Writer{}
	out.RawByte('{')
	for i, key := range sortedKeys(results) {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(key)
		out.RawString(`:{`)
		scores := results[key]
		names := make([]string, 0, len(scores))
		for name := range scores {
			names = append(names, name)
		}
		sort.Strings(names)
		for j, name := range names {
			if j > 0 {
				out.RawByte(',')
			}
			out.String(name)
			out.RawByte(':')
			out.Float64(scores[name])
		}
		out.RawByte('}')
	}
	out.RawByte('}')
	if out.Error != nil {
		return out.Error
	}
	_, err := out.DumpTo(w)
	return err
}

func sortedKeys(m map[string]map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
