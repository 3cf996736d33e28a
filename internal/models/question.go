package models

type Subject string

const (
	SubjectMath          Subject = "Math"
	SubjectScience       Subject = "Science"
	SubjectEnglish       Subject = "English"
	SubjectSocialStudies Subject = "Social Studies"
)

// CanonicalSubjects is the one subject ordering used everywhere: the
// sequencer's no-history output, tie-breaking, and the fallback cascade's
// cross-subject stage.
var CanonicalSubjects = []Subject{
	SubjectMath,
	SubjectScience,
	SubjectEnglish,
	SubjectSocialStudies,
}

var ValidSubjects = map[Subject]bool{
	SubjectMath:          true,
	SubjectScience:       true,
	SubjectEnglish:       true,
	SubjectSocialStudies: true,
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// ── Core Structs ───────────────────────────────────────

// AnswerRecord is one entry of a learner's answer history within a session.
type AnswerRecord struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Correct    bool    `json:"correct"`
	Subject    Subject `json:"subject,omitempty"`
	GradeLevel int     `json:"grade_level,omitempty"`
}

// QuestionRequest describes one question fetch. GradeLevel 0 means
// kindergarten. Difficulty is optional; empty defaults to medium.
type QuestionRequest struct {
	GradeLevel      int            `json:"grade_level"`
	Subject         Subject        `json:"subject"`
	PreviousAnswers []AnswerRecord `json:"previous_answers"`
	Difficulty      Difficulty     `json:"difficulty,omitempty"`
	SessionID       string         `json:"session_id,omitempty"`
}

// GeneratedQuestion is the common shape every tier and the content bank
// map into. Options always has exactly 4 distinct entries and
// CorrectAnswer equals one of them.
type GeneratedQuestion struct {
	ID            string     `json:"id"`
	Subject       Subject    `json:"subject"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty"`
	GradeLevel    int        `json:"grade_level"`
	Explanation   string     `json:"explanation,omitempty"`
}

// AssessmentResponse wraps a served question with optional adaptation
// hints from the upstream that produced it. Source names the tier or
// fallback stage that won.
type AssessmentResponse struct {
	Question           GeneratedQuestion `json:"question"`
	Source             string            `json:"source"`
	NextSubject        *Subject          `json:"next_subject,omitempty"`
	AdjustedDifficulty *Difficulty       `json:"adjusted_difficulty,omitempty"`
}

// EvaluationResult is the outcome of comparing a submitted answer
// against the stored correct answer.
type EvaluationResult struct {
	Correct        bool       `json:"correct"`
	Explanation    string     `json:"explanation"`
	NextDifficulty Difficulty `json:"next_difficulty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
