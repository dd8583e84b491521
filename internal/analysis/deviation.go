package analysis

import (
	"fmt"

	"haa-backtest/internal/model"
)

// TrailingMean is the arithmetic mean of the last window values of prices.
func TrailingMean(prices []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("window must be > 0")
	}
	if len(prices) < window {
		return 0, fmt.Errorf("need %d rows, have %d: %w", window, len(prices), model.ErrInsufficientHistory)
	}
	sum := 0.0
	for _, v := range prices[len(prices)-window:] {
		sum += v
	}
	return sum / float64(window), nil
}

// ReferenceDeviation is the latest price minus the trailing-window mean.
// It is a diagnostic only and does not feed the allocation decision.
func ReferenceDeviation(prices []float64, window int) (float64, error) {
	mean, err := TrailingMean(prices, window)
	if err != nil {
		return 0, err
	}
	return prices[len(prices)-1] - mean, nil
}
