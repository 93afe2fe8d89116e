// Package pipeline runs feature extraction over a list of items concurrently while writing the resulting rows in
// the order of the items.
package pipeline

import (
	"context"
	"io"
	"log"
	"runtime"
	"sync"

	"github.com/cheggaaa/pb/v3"
	goerrors "github.com/go-errors/errors"
	"github.com/hscells/docexp/output"
	"golang.org/x/sync/errgroup"
)

// Task computes the rows for the item at index i.
type Task func(i int) ([]output.Row, error)

// FeaturePipeline contains the configuration for extracting rows of features.
type FeaturePipeline struct {
	Header   []string
	Workers  int
	Output   output.FeatureWriter
	Progress io.Writer
}

type workers int

type progress struct {
	io.Writer
}

// Workers sets the number of items processed at once.
func Workers(n int) func() interface{} {
	return func() interface{} {
		return workers(n)
	}
}

// Output sets where rows are written.
func Output(w output.FeatureWriter) func() interface{} {
	return func() interface{} {
		return w
	}
}

// Progress shows a progress bar on w.
func Progress(w io.Writer) func() interface{} {
	return func() interface{} {
		return progress{w}
	}
}

// NewFeaturePipeline creates a pipeline writing rows under a header. Additional components are provided via the
// optional functional arguments; without them rows are not written anywhere and every CPU is used.
func NewFeaturePipeline(header []string, components ...func() interface{}) FeaturePipeline {
	p := FeaturePipeline{
		Header:  header,
		Workers: runtime.NumCPU(),
	}
	for _, component := range components {
		switch v := component().(type) {
		case workers:
			if v > 0 {
				p.Workers = int(v)
			}
		case output.FeatureWriter:
			p.Output = v
		case progress:
			p.Progress = v.Writer
		}
	}
	return p
}

// Execute runs task for every item from 0 to n. Rows are written as soon as every earlier item has finished. The
// first error stops new items from starting and is returned once running items finish. A panicking task is
// reported with its stack trace and treated as an error.
func (p FeaturePipeline) Execute(n int, task Task) error {
	if p.Output != nil {
		if err := p.Output.WriteHeader(p.Header); err != nil {
			return err
		}
	}

	var bar *pb.ProgressBar
	if p.Progress != nil {
		bar = pb.New(n)
		bar.SetWriter(p.Progress)
		bar.Start()
		defer bar.Finish()
	}

	var (
		mu      sync.Mutex
		pending = make(map[int][]output.Row)
		next    int
	)
	emit := func(i int, rows []output.Row) error {
		mu.Lock()
		defer mu.Unlock()
		pending[i] = rows
		for {
			rows, ok := pending[next]
			if !ok {
				return nil
			}
			delete(pending, next)
			next++
			if p.Output == nil {
				continue
			}
			for _, row := range rows {
				if err := p.Output.Write(row); err != nil {
					return err
				}
			}
		}
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(p.Workers)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() (err error) {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					e := goerrors.Wrap(r, 2)
					log.Println(e.ErrorStack())
					err = e
				}
			}()
			rows, err := task(i)
			if err != nil {
				return err
			}
			if bar != nil {
				bar.Increment()
			}
			return emit(i, rows)
		})
	}
	return g.Wait()
}
