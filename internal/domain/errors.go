package domain

import "errors"

var (
	// ErrNoText is returned when a receipt contains no extractable text.
	// This is the only whole-request failure.
	ErrNoText = errors.New("no extractable text in receipt")

	// ErrNoMatch is a normal waterfall fall-through, not a failure
	ErrNoMatch = errors.New("no dictionary match")

	// ErrLowSimilarity is returned when the best fuzzy score is below the floor
	ErrLowSimilarity = errors.New("similarity below floor")

	// ErrClassifierFailure is returned when the semantic-fallback collaborator
	// times out, errors, or returns a malformed response
	ErrClassifierFailure = errors.New("classifier request failed")

	// ErrClassifierDisabled is returned when no classifier is configured
	ErrClassifierDisabled = errors.New("classifier not configured")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoResult is returned by the result sink before any receipt has been processed
	ErrNoResult = errors.New("no receipt processed yet")
)
