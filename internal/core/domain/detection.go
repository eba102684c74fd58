package domain

// Zone is the coarse depth band derived from a detection's apparent size.
type Zone string

const (
	ZoneNear Zone = "near"
	ZoneMid  Zone = "mid"
	ZoneFar  Zone = "far"
)

// Side is the lateral position of a detection in the frame.
type Side string

const (
	SideLeft   Side = "left"
	SideCenter Side = "center"
	SideRight  Side = "right"
)

// BoundingBox is a detector box normalized to image dimensions:
// center coordinates in [0,1], width/height as fractions of the frame.
type BoundingBox struct {
	XCenter float64 `json:"x_center"`
	YCenter float64 `json:"y_center"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// Area returns the box area as a fraction of the image area.
func (b BoundingBox) Area() float64 {
	return b.Width * b.Height
}

// Detection is one object observed in a scene, as reported by the
// client-side detector. The class vocabulary is open; zone and side may
// be absent when the client did not derive them.
type Detection struct {
	ClassName string  `json:"class"`
	Score     float64 `json:"score"`
	Zone      Zone    `json:"zone,omitempty"`
	Side      Side    `json:"side,omitempty"`
	OCR       string  `json:"ocr,omitempty"`
	Context   string  `json:"context,omitempty"`
}
