// Package images discovers channel images in the data lake and extracts
// the upstream message identifier carried in each filename.
package images

// ImagesDir is the fixed sub-directory of a channel that holds its images.
const ImagesDir = "images"

// DefaultExtensions is the extension filter applied when none is configured.
var DefaultExtensions = []string{".jpg"}

// Task is one discovered image awaiting processing. It is created by the
// Scanner and consumed once by the pipeline.
type Task struct {
	Channel  string
	Path     string // storage key, e.g. "newsA/images/message_101.jpg"
	Filename string
	Size     int64
}
