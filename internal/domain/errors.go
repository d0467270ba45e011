package domain

import "errors"

var (
	// ErrUnknownAnalysisType is returned for analysis types other than
	// compute, storage, or comprehensive.
	ErrUnknownAnalysisType = errors.New("unknown analysis type")

	// ErrUnsupportedRegion is returned when a pricing lookup targets a
	// region the provider catalog does not list.
	ErrUnsupportedRegion = errors.New("unsupported region")

	// ErrAnalysisNotFound is returned by stores when an analysis ID does
	// not exist.
	ErrAnalysisNotFound = errors.New("analysis not found")
)
