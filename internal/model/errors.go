package model

import "errors"

var (
	// ErrDataUnavailable means an instrument's file is missing, empty or unreadable.
	ErrDataUnavailable = errors.New("price data unavailable")
	// ErrDataIncomplete means an instrument's series has missing values inside the window.
	ErrDataIncomplete = errors.New("price data incomplete")
	// ErrInsufficientHistory means the aligned panel is too short for the lookbacks.
	ErrInsufficientHistory = errors.New("insufficient price history")
	// ErrMissingSignalScore means the signal instrument could not be scored.
	ErrMissingSignalScore = errors.New("missing signal score")
)
