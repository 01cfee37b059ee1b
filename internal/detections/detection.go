// Package detections persists object detections into raw.image_detections.
package detections

import "github.com/JaimeStill/spotter/internal/detector"

// Schema and table holding detection rows.
const (
	Schema = "raw"
	Table  = Schema + ".image_detections"
)

// columns written by the pipeline; detection_timestamp is filled by the store default
var columns = []string{
	"channel_name",
	"message_id",
	"image_filename",
	"detected_object_class",
	"confidence_score",
}

// Detection is one finding for one image, as written to the table.
type Detection struct {
	ChannelName         string
	MessageID           int64
	ImageFilename       string
	DetectedObjectClass string
	ConfidenceScore     float64
}

// FromResults expands detector results into rows sharing the image provenance,
// preserving result order.
func FromResults(channel string, messageID int64, filename string, results []detector.Result) []Detection {
	rows := make([]Detection, 0, len(results))
	for _, r := range results {
		rows = append(rows, Detection{
			ChannelName:         channel,
			MessageID:           messageID,
			ImageFilename:       filename,
			DetectedObjectClass: r.Class,
			ConfidenceScore:     r.Confidence,
		})
	}
	return rows
}

func (d Detection) values() []any {
	return []any{d.ChannelName, d.MessageID, d.ImageFilename, d.DetectedObjectClass, d.ConfidenceScore}
}
