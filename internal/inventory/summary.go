package inventory

import (
	"sort"
	"strings"

	"samplewms/domain/sample"

	"github.com/montanaflynn/stats"
)

const (
	// LowStockThreshold is the stock level below which a sample needs restocking
	LowStockThreshold = 10
	// HotPickThreshold is the selection count above which a sample counts as popular
	HotPickThreshold = 10
)

// Summary holds the dashboard counters
type Summary struct {
	TotalSamples int     `json:"total_samples"`
	TotalStock   int     `json:"total_stock"`
	LowStock     int     `json:"low_stock"`
	HotPicks     int     `json:"hot_picks"`
	MeanPrice    float64 `json:"mean_price"`
	MedianPrice  float64 `json:"median_price"`
}

// Summarize computes counters over samples. Price statistics are zero for
// an empty list.
func Summarize(samples []sample.Sample) (Summary, error) {
	summary := Summary{TotalSamples: len(samples)}
	prices := make(stats.Float64Data, 0, len(samples))
	for i := range samples {
		s := &samples[i]
		summary.TotalStock += s.StockQuantity
		if s.StockQuantity < LowStockThreshold {
			summary.LowStock++
		}
		if s.SelectionCount > HotPickThreshold {
			summary.HotPicks++
		}
		prices = append(prices, s.Price)
	}
	if len(prices) == 0 {
		return summary, nil
	}

	mean, err := stats.Mean(prices)
	if err != nil {
		return summary, err
	}
	median, err := stats.Median(prices)
	if err != nil {
		return summary, err
	}
	summary.MeanPrice, _ = stats.Round(mean, 2)
	summary.MedianPrice, _ = stats.Round(median, 2)
	return summary, nil
}

// Shelf groups the samples stored at one location code
type Shelf struct {
	Location string          `json:"location"`
	Zone     string          `json:"zone"`
	Stock    int             `json:"stock"`
	Samples  []sample.Sample `json:"samples"`
}

// GroupByShelf groups samples by location code, sorted ascending. The zone
// is the text before the first "-", or "?" when there is none.
func GroupByShelf(samples []sample.Sample) []Shelf {
	index := make(map[string]int)
	var shelves []Shelf
	for i := range samples {
		loc := strings.TrimSpace(samples[i].LocationCode)
		idx, ok := index[loc]
		if !ok {
			idx = len(shelves)
			index[loc] = idx
			shelves = append(shelves, Shelf{Location: loc, Zone: zoneOf(loc)})
		}
		shelves[idx].Samples = append(shelves[idx].Samples, samples[i])
		shelves[idx].Stock += samples[i].StockQuantity
	}
	sort.SliceStable(shelves, func(i, j int) bool {
		return shelves[i].Location < shelves[j].Location
	})
	return shelves
}

func zoneOf(location string) string {
	zone, _, found := strings.Cut(location, "-")
	if !found || zone == "" {
		return "?"
	}
	return zone
}
