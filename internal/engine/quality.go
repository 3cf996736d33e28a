package engine

import (
	"fmt"
	"strings"

	"github.com/edubridge/backend/internal/models"
)

// minQuestionLength is the shortest question text worth showing a learner.
// Upstream generators that truncate or emit stubs fall under this.
const minQuestionLength = 10

// placeholderMarkers appear when a prompt-driven generator echoes its
// template instead of writing real content.
var placeholderMarkers = []string{
	"sample",
	"placeholder",
	"lorem ipsum",
	"[insert",
	"generic content",
}

// degenerateOptions are lazy filler answers; any one of them rejects the
// whole candidate. Compared lowercased and trimmed.
var degenerateOptions = map[string]bool{
	"(incorrect)":       true,
	"none of the above": true,
	"all of the above":  true,
	"answer":            true,
}

// IsAcceptable reports whether a candidate is fit to serve. Pure; applied
// to every tier's output before the coordinator accepts it.
func IsAcceptable(q *models.GeneratedQuestion) bool {
	return RejectReason(q) == ""
}

// RejectReason returns "" for an acceptable candidate, otherwise a short
// description of the first failed check, for the coordinator's logs.
func RejectReason(q *models.GeneratedQuestion) string {
	text := strings.TrimSpace(q.Question)
	if text == "" {
		return "empty question text"
	}
	if len(text) < minQuestionLength {
		return fmt.Sprintf("question text too short (%d chars)", len(text))
	}

	lower := strings.ToLower(text)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Sprintf("placeholder marker %q in question text", marker)
		}
	}

	if len(q.Options) < 4 {
		return fmt.Sprintf("only %d options", len(q.Options))
	}

	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		normalized := strings.ToLower(strings.TrimSpace(opt))
		if normalized == "" {
			return "empty option"
		}
		if degenerateOptions[normalized] {
			return fmt.Sprintf("degenerate option %q", opt)
		}
		if seen[normalized] {
			return fmt.Sprintf("duplicate option %q", opt)
		}
		seen[normalized] = true
	}

	if q.CorrectAnswer == "" {
		return "missing correct answer"
	}
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			return ""
		}
	}
	return "correct answer not among options"
}
