package output_test

import (
	"bytes"
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hscells/docexp"
	"github.com/hscells/docexp/output"
)

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := output.NewCSVWriter(&buf)
	if err := w.WriteHeader([]string{"docno", "query", "length", "clarity"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(output.NewRow([]string{"d1", "301"}, 12, 0.25)); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(output.NewRow([]string{"d2", "301"}, -1, math.NaN())); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	expected := "docno,query,length,clarity\nd1,301,12,0.25\nd2,301,-1,NaN\n"
	if buf.String() != expected {
		t.Fatalf("expected\n%s\ngot\n%s", expected, buf.String())
	}
}

func TestSQLiteWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.db")
	var buf bytes.Buffer
	w, err := output.FeatureWriters(&buf, path, "features")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteHeader([]string{"docno", "query", "length"}); err != nil {
		t.Fatal(err)
	}
	for _, row := range []output.Row{
		output.NewRow([]string{"d1", "301"}, 12),
		output.NewRow([]string{"d2", "301"}, 7),
	} {
		if err := w.Write(row); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Write(output.NewRow([]string{"d3"}, 1)); err == nil {
		t.Fatal("expected an error for a short row")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "docno,query,length\n") {
		t.Fatalf("expected csv output alongside the database, got %q", buf.String())
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	var total float64
	if err := db.QueryRowContext(context.Background(), `SELECT COUNT(*), SUM("length") FROM "features" WHERE "query" = '301'`).Scan(&n, &total); err != nil {
		t.Fatal(err)
	}
	if n != 2 || total != 19 {
		t.Fatalf("expected 2 rows with a total length of 19, got %d and %f", n, total)
	}
}

func TestTrecWriter(t *testing.T) {
	var buf bytes.Buffer
	w := output.NewTrecWriter(&buf)
	hits := docexp.SearchHits{
		docexp.NewVectorHit("d3", -4.5, nil),
		docexp.NewVectorHit("d1", -6, nil),
	}
	if err := w.WriteHits("301", hits, "origW:1,expDocs:5,expTerms:5"); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	expected := "301 Q0 d3 1 -4.5 origW:1,expDocs:5,expTerms:5\n301 Q0 d1 2 -6 origW:1,expDocs:5,expTerms:5\n"
	if buf.String() != expected {
		t.Fatalf("expected\n%s\ngot\n%s", expected, buf.String())
	}
}

func TestWriteEvaluation(t *testing.T) {
	var buf bytes.Buffer
	err := output.WriteEvaluation(&buf, map[string]map[string]float64{
		"run2": {"AP": 0.5},
		"run1": {"nDCG@10": 0.75, "AP": 0.25},
	})
	if err != nil {
		t.Fatal(err)
	}
	expected := `{"run1":{"AP":0.25,"nDCG@10":0.75},"run2":{"AP":0.5}}`
	if buf.String() != expected {
		t.Fatalf("expected %s, got %s", expected, buf.String())
	}
}
