// Package textproc holds the post-processing applied to finished
// transcripts. Translation is a labeled stub; sentence reflow is a
// formatting utility. Neither affects the transcription pipeline.
package textproc

import (
	"fmt"
	"strings"
)

// Options selects which operations to apply
type Options struct {
	Translate      bool
	TargetLanguage string
	Format         bool
}

// ProcessedText is the outcome of Process, listing the operations applied
type ProcessedText struct {
	Original   string   `json:"original"`
	Processed  string   `json:"processed"`
	Operations []string `json:"operations"`
}

// Translate returns the text labeled for the target language.
// Real machine translation is out of scope; the label keeps the
// stub output distinguishable from a genuine translation.
func Translate(text, targetLang string) string {
	if targetLang == "" {
		targetLang = "en"
	}
	return fmt.Sprintf("[%s] %s", targetLang, text)
}

// ReflowSentences splits the text at sentence-ending punctuation and
// rejoins it one sentence per line.
func ReflowSentences(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var sentences []string
	var sb strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		sb.WriteRune(r)
		if isSentenceEnd(r) {
			// Keep trailing quotes with the sentence
			if i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\'' || runes[i+1] == '」') {
				continue
			}
			if s := strings.TrimSpace(sb.String()); s != "" {
				sentences = append(sentences, s)
			}
			sb.Reset()
		}
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		sentences = append(sentences, s)
	}

	return strings.Join(sentences, "\n")
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// Process applies the requested operations in order: translate, then format
func Process(text string, opts Options) *ProcessedText {
	result := &ProcessedText{
		Original:   text,
		Processed:  text,
		Operations: []string{},
	}

	if opts.Translate {
		result.Processed = Translate(result.Processed, opts.TargetLanguage)
		result.Operations = append(result.Operations, "translate")
	}
	if opts.Format {
		result.Processed = ReflowSentences(result.Processed)
		result.Operations = append(result.Operations, "format")
	}

	return result
}
