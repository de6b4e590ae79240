package utils

import "errors"

// Error taxonomy for the ingestion and archival paths. Handlers map
// these onto HTTP statuses; services wrap causes with %w so errors.Is
// still matches.
var (
	// ErrImageDecode: the uploaded photo could not be decoded. User
	// input problem, not retryable as-is.
	ErrImageDecode = errors.New("image decode failed")

	// ErrRecognitionService: transport or parse failure talking to the
	// vision service. Retryable by re-submitting the same photo.
	ErrRecognitionService = errors.New("recognition service failure")

	// ErrNothingRecognized: the vision service answered but found no
	// food in the photo. Valid result, distinct from a failure.
	ErrNothingRecognized = errors.New("no food recognized in photo")

	// ErrEnrichmentUnavailable is never surfaced to callers; the
	// enrichment stage degrades to "not found" instead.
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

	// ErrArchivalConflict: another scheduler pass already archived the
	// day. Benign, treated as success.
	ErrArchivalConflict = errors.New("day already archived")

	// ErrArchivalStorage: transient storage failure during archival,
	// retried on the next scheduled pass.
	ErrArchivalStorage = errors.New("archival storage failure")

	// ErrValidation: request rejected before any storage write.
	ErrValidation = errors.New("validation failed")

	ErrNotFound = errors.New("not found")
)
