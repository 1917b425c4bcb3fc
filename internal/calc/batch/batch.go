package batch

import (
	"context"
	"fmt"

	"Framecheck/internal/calc/cfss"

	"golang.org/x/sync/errgroup"
)

// MaxItems caps a single HTTP batch request.
const MaxItems = 500

type Input struct {
	Items []cfss.Input `json:"items"`
}

// Item is the outcome for one wall. Error holds a fatal failure (unknown
// stud, invalid input); soft failures stay in Result.Error.
type Item struct {
	Index  int          `json:"index"`
	Result *cfss.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

type Output struct {
	Items  []Item `json:"items"`
	Passed int    `json:"passed"`
	Failed int    `json:"failed"`
}

// Evaluate checks every wall with at most workers running at once. Results
// keep the order of items. A failing wall never stops the others; only ctx
// cancellation does.
func Evaluate(ctx context.Context, tables cfss.Tables, items []cfss.Input, workers int) (Output, error) {
	if len(items) == 0 {
		return Output{}, fmt.Errorf("no items")
	}
	if workers <= 0 {
		workers = 1
	}

	out := Output{Items: make([]Item, len(items))}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out.Items[i] = evaluateOne(tables, i, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Output{}, err
	}

	for _, it := range out.Items {
		if it.Result != nil && it.Result.Checks != nil && it.Result.Checks.AllPass() {
			out.Passed++
		} else {
			out.Failed++
		}
	}
	return out, nil
}

func evaluateOne(tables cfss.Tables, i int, in cfss.Input) Item {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Item{Index: i, Error: err.Error()}
	}
	res, err := cfss.Evaluate(tables, in)
	if err != nil {
		return Item{Index: i, Error: err.Error()}
	}
	return Item{Index: i, Result: &res}
}
