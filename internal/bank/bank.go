// Package bank holds the curated fallback question set: a static index of
// multiple-choice entries keyed by subject, grade, and difficulty, plus the
// widening-search selector used when every upstream generator has failed.
package bank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/edubridge/backend/internal/models"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed questions.json
var questionData []byte

// entrySchema gates the embedded data at load time so a malformed entry
// fails startup instead of surfacing as a nil lookup mid-session.
const entrySchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"subject": {"type": "string", "enum": ["Math", "Science", "English", "Social Studies"]},
			"grade_level": {"type": "integer", "minimum": 0, "maximum": 12},
			"difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]},
			"prompt": {"type": "string", "minLength": 10},
			"options": {
				"type": "array",
				"items": {"type": "string", "minLength": 1},
				"minItems": 4,
				"maxItems": 4,
				"uniqueItems": true
			},
			"correct_option": {"type": "string", "minLength": 1}
		},
		"required": ["subject", "grade_level", "difficulty", "prompt", "options", "correct_option"],
		"additionalProperties": false
	}
}`

// Entry is one curated question as stored in questions.json.
type Entry struct {
	Subject       models.Subject    `json:"subject"`
	GradeLevel    int               `json:"grade_level"`
	Difficulty    models.Difficulty `json:"difficulty"`
	Prompt        string            `json:"prompt"`
	Options       []string          `json:"options"`
	CorrectOption string            `json:"correct_option"`
}

// Bank is the loaded, read-only index. Safe to share across sessions.
type Bank struct {
	buckets map[models.Subject]map[int]map[models.Difficulty][]Entry
}

// Load parses and schema-checks the embedded question data and builds the
// subject → grade → difficulty index.
func Load() (*Bank, error) {
	return load(questionData)
}

func load(data []byte) (*Bank, error) {
	if err := validateAgainstSchema(data); err != nil {
		return nil, fmt.Errorf("content bank schema check: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse content bank: %w", err)
	}

	b := &Bank{buckets: make(map[models.Subject]map[int]map[models.Difficulty][]Entry)}
	for i, e := range entries {
		// The schema guarantees shape; correctness of the key is checked here.
		if !containsOption(e.Options, e.CorrectOption) {
			return nil, fmt.Errorf("content bank entry %d (%q): correct_option not among options", i, e.Prompt)
		}
		grades, ok := b.buckets[e.Subject]
		if !ok {
			grades = make(map[int]map[models.Difficulty][]Entry)
			b.buckets[e.Subject] = grades
		}
		diffs, ok := grades[e.GradeLevel]
		if !ok {
			diffs = make(map[models.Difficulty][]Entry)
			grades[e.GradeLevel] = diffs
		}
		diffs[e.Difficulty] = append(diffs[e.Difficulty], e)
	}

	return b, nil
}

func validateAgainstSchema(data []byte) error {
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(entrySchema)))
	if err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("bank://questions-schema.json", schemaDoc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("bank://questions-schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return compiled.Validate(doc)
}

// Entries returns the bucket for an exact (subject, grade, difficulty) key.
// The returned slice must not be mutated.
func (b *Bank) Entries(subject models.Subject, grade int, difficulty models.Difficulty) []Entry {
	grades, ok := b.buckets[subject]
	if !ok {
		return nil
	}
	diffs, ok := grades[grade]
	if !ok {
		return nil
	}
	return diffs[difficulty]
}

// Size returns the total number of entries, mainly for startup logging.
func (b *Bank) Size() int {
	n := 0
	for _, grades := range b.buckets {
		for _, diffs := range grades {
			for _, entries := range diffs {
				n += len(entries)
			}
		}
	}
	return n
}

func containsOption(options []string, want string) bool {
	for _, o := range options {
		if o == want {
			return true
		}
	}
	return false
}
