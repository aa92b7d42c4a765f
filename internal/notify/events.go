package notify

import "time"

// Payloads keep the original frontend field names: epoch seconds for
// timestamps, plain seconds for durations.

type Countdown struct {
	Count string `json:"count"`
}

type PlayMusic struct {
	MusicFile string  `json:"music_file"`
	StartTime float64 `json:"start_time"`
}

// VisualCue is sent lead-time seconds before an event activates.
type VisualCue struct {
	Instrument string  `json:"instrument"`
	Utensil    string  `json:"utensil"`
	Target     string  `json:"target"`
	EventTime  float64 `json:"event_time"`
	ServerTime float64 `json:"server_time"`
	Duration   float64 `json:"duration"`
	IsHold     bool    `json:"is_hold"`
}

// TargetActive is sent at the instant the engine starts listening.
type TargetActive struct {
	Utensil    string  `json:"utensil"`
	Instrument string  `json:"instrument"`
	Target     string  `json:"target"`
	EventTime  float64 `json:"event_time"`
}

// Result carries one judgment outcome. Fields beyond the common set are
// outcome specific and omitted elsewhere.
type Result struct {
	Utensil    string  `json:"utensil"`
	Instrument string  `json:"instrument"`
	Result     string  `json:"result"`
	NoteType   string  `json:"note_type"`
	Time       float64 `json:"time,omitempty"`
	Scheduled  float64 `json:"scheduled"`
	ActualTime float64 `json:"actual_time,omitempty"`

	AccuracyMs        int64   `json:"accuracy_ms,omitempty"`
	Duration          float64 `json:"duration,omitempty"`
	ExpectedDuration  float64 `json:"expected_duration,omitempty"`
	HeldDuration      float64 `json:"held_duration,omitempty"`
	CompletionPercent int     `json:"completion_percent,omitempty"`
}

// UnixSeconds converts a timestamp to the epoch-seconds float the frontend
// expects.
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
