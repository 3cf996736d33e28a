package assessment

import (
	"database/sql"
	"fmt"

	"github.com/edubridge/backend/internal/models"
)

// Store persists answer history. The engine's session state is in-memory
// and ephemeral; this is the durable record used for adaptation across
// sessions and for progress views.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type answerInsert struct {
	SessionID  string
	QuestionID string
	Subject    models.Subject
	GradeLevel int
	Difficulty models.Difficulty
	Question   string
	Answer     string
	Correct    bool
}

func (s *Store) RecordAnswer(userID int64, in answerInsert) error {
	_, err := s.db.Exec(
		`INSERT INTO answer_history (user_id, session_id, question_id, subject, grade_level, difficulty, question, answer, correct)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		userID, in.SessionID, in.QuestionID, in.Subject, in.GradeLevel, in.Difficulty, in.Question, in.Answer, in.Correct,
	)
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

// RecentAnswers returns the user's most recent answers in chronological
// order (oldest first), so callers can treat it as an answer history.
func (s *Store) RecentAnswers(userID int64, limit int) ([]models.AnswerRecord, error) {
	rows, err := s.db.Query(
		`SELECT question, answer, correct, subject, grade_level
		 FROM answer_history
		 WHERE user_id = $1
		 ORDER BY answered_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query answer history: %w", err)
	}
	defer rows.Close()

	var records []models.AnswerRecord
	for rows.Next() {
		var rec models.AnswerRecord
		if err := rows.Scan(&rec.Question, &rec.Answer, &rec.Correct, &rec.Subject, &rec.GradeLevel); err != nil {
			return nil, fmt.Errorf("scan answer history: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
