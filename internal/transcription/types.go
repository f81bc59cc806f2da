package transcription

// Job statuses reported by the vendor
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// DefaultLanguage is used for placeholder results when no language was requested
const DefaultLanguage = "en"

// Options configures a transcription job.
// Language is an ISO-639-1 code, or "auto" (or empty) for auto-detection.
type Options struct {
	Language string
}

// autoDetect reports whether language auto-detection should be enabled
func (o Options) autoDetect() bool {
	return o.Language == "" || o.Language == "auto"
}

// Word is a word-level timestamp in milliseconds
type Word struct {
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Utterance is a speaker-segmented span of the transcript
type Utterance struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Result is the terminal payload of a completed job. Immutable once produced.
type Result struct {
	Text         string      `json:"text"`
	Confidence   float64     `json:"confidence"`
	LanguageCode string      `json:"language_code"`
	Words        []Word      `json:"words,omitempty"`
	Utterances   []Utterance `json:"utterances,omitempty"`
	Placeholder  bool        `json:"placeholder,omitempty"`
}
