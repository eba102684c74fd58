package domain

// Enrichment is the accessibility-oriented view of a single detection:
// a human summary, descriptive attributes and the risks it implies.
type Enrichment struct {
	Summary    string            `json:"summary"`
	Attributes map[string]string `json:"attributes"`
	Risks      []string          `json:"risks"`
	ClassName  string            `json:"class_name,omitempty"`
	Zone       Zone              `json:"zone,omitempty"`
	Side       Side              `json:"side,omitempty"`
}

// BatchItem is one positional slot of a batch enrichment result. Exactly
// one of Enrichment or Error is set; invalid detections occupy their input
// position instead of aborting the batch.
type BatchItem struct {
	Enrichment *Enrichment `json:"enrichment,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Priority of an advisory.
type Priority string

const (
	PriorityInfo Priority = "info"
	PriorityHigh Priority = "high"
)

// Channel through which an advisory is delivered to the user. Voice is
// always present; haptic is added for high-priority advisories.
type Channel string

const (
	ChannelVoice  Channel = "voice"
	ChannelHaptic Channel = "haptic"
)

// Advisory is the aggregate guidance result for one detection batch.
// Partial reports that at least one detection was dropped as invalid, so
// the priority was computed from the remaining valid detections only.
type Advisory struct {
	Priority Priority  `json:"priority"`
	Channels []Channel `json:"channel"`
	Messages []string  `json:"messages"`
	Partial  bool      `json:"partial,omitempty"`
}
