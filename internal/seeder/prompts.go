package seeder

import (
	"fmt"

	"github.com/edubridge/backend/internal/models"
)

const systemPrompt = `You are a K-12 curriculum writer producing multiple-choice assessment questions. Every question must be factually correct, age-appropriate, and self-contained. Respond with JSON only.`

func buildUserPrompt(subject models.Subject, grade int, difficulty models.Difficulty, count int) string {
	gradeName := fmt.Sprintf("grade %d", grade)
	if grade == 0 {
		gradeName = "kindergarten"
	}

	return fmt.Sprintf(`Write %d %s-difficulty %s questions for %s students.

Requirements:
- Each question has exactly 4 answer options, all distinct.
- correct_option must match one option verbatim.
- No filler options like "None of the above" or "All of the above".
- Vary the topics within the subject.

Respond with JSON only:
[
  {
    "prompt": "What is 6 x 7?",
    "options": ["36", "40", "42", "48"],
    "correct_option": "42"
  }
]`, count, difficulty, subject, gradeName)
}
