package backtest

import (
	"math"
	"time"
)

const (
	PriceColumnAdjClose = "adj_close"
	PriceColumnClose    = "close"
)

// PriceBar is one daily observation from the market data source. Missing
// prices are represented as NaN.
type PriceBar struct {
	Date     time.Time
	Close    float64
	AdjClose float64
}

// PriceTable is the raw fetch result: bars ordered by strictly increasing
// date. HasAdjClose records whether the source supplied a dividend/split
// adjusted close column at all.
type PriceTable struct {
	Ticker      string
	Bars        []PriceBar
	HasAdjClose bool
}

// NormalizedSeries is the cleaned series the evaluator and metrics engine
// operate on. All slices share one index; rows without a defined return (the
// first raw row, and any row directly after a gap) are gone.
type NormalizedSeries struct {
	Dates       []time.Time
	Prices      []float64
	Returns     []float64
	PriceColumn string
}

func (s *NormalizedSeries) Len() int {
	return len(s.Returns)
}

// Normalize selects the price column, derives daily simple returns and drops
// rows invalidated by the shift. A return is defined only against the
// immediately preceding bar, so a gap drops both the missing row and its
// successor rather than bridging a fabricated return across the hole. The
// adjusted close is preferred when the source provides it, so splits and
// dividends do not show up as phantom returns.
func Normalize(table *PriceTable) (*NormalizedSeries, error) {
	if table == nil || len(table.Bars) == 0 {
		return nil, ErrNoData
	}

	column := PriceColumnClose
	if table.HasAdjClose {
		column = PriceColumnAdjClose
	}

	series := &NormalizedSeries{PriceColumn: column}
	prev := math.NaN()
	for _, bar := range table.Bars {
		price := bar.Close
		if column == PriceColumnAdjClose {
			price = bar.AdjClose
		}
		if math.IsNaN(price) || price <= 0 {
			prev = math.NaN()
			continue
		}
		if !math.IsNaN(prev) {
			series.Dates = append(series.Dates, bar.Date)
			series.Prices = append(series.Prices, price)
			series.Returns = append(series.Returns, price/prev-1)
		}
		prev = price
	}

	// Statistics need at least two return rows.
	if series.Len() < 2 {
		return nil, ErrInsufficientData
	}
	return series, nil
}
