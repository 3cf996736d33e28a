package bank

import (
	"fmt"

	"github.com/edubridge/backend/internal/models"
)

// fingerprintPrefixLen is how much question text goes into a fingerprint.
// Enough to tell bank entries apart without hashing full prompts.
const fingerprintPrefixLen = 40

// Fingerprint derives the dedupe key for a question. The same bank entry is
// reachable through several cascade stages, so the key combines the bucket
// coordinates with a prefix of the question text rather than any stage-local
// identifier.
func Fingerprint(subject models.Subject, grade int, difficulty models.Difficulty, question string) string {
	prefix := []rune(question)
	if len(prefix) > fingerprintPrefixLen {
		prefix = prefix[:fingerprintPrefixLen]
	}
	return fmt.Sprintf("%s:%d:%s:%s", subject, grade, difficulty, string(prefix))
}
