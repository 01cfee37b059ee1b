package detector

import "errors"

var (
	// ErrImageTooLarge indicates the image exceeds the configured size guard.
	ErrImageTooLarge = errors.New("image exceeds maximum size")
	// ErrRead indicates the image bytes could not be read from storage.
	ErrRead = errors.New("image read failed")
	// ErrInference indicates the model failed on the image.
	ErrInference = errors.New("inference failed")
)
