// seedbank drafts new content-bank entries with the Anthropic API and
// writes the ones that pass the quality gate as bank-format JSON, ready to
// be reviewed and merged into internal/bank/questions.json.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/edubridge/backend/internal/models"
	"github.com/edubridge/backend/internal/seeder"
	"github.com/joho/godotenv"
)

func main() {
	subjectFlag := flag.String("subject", "Math", "subject to draft questions for")
	gradeFlag := flag.Int("grade", 3, "grade level (0 = kindergarten)")
	difficultyFlag := flag.String("difficulty", "medium", "easy, medium, or hard")
	countFlag := flag.Int("count", 8, "number of questions to draft")
	outFlag := flag.String("out", "bank_draft.json", "output file")
	modelFlag := flag.String("model", "", "Anthropic model override")
	flag.Parse()

	godotenv.Load()

	subject := models.Subject(*subjectFlag)
	if !models.ValidSubjects[subject] {
		log.Fatalf("Unknown subject %q", *subjectFlag)
	}
	difficulty := models.Difficulty(*difficultyFlag)
	if !models.ValidDifficulties[difficulty] {
		log.Fatalf("Unknown difficulty %q", *difficultyFlag)
	}
	if *gradeFlag < 0 || *gradeFlag > 12 {
		log.Fatalf("Grade must be between 0 and 12, got %d", *gradeFlag)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := seeder.NewClient(*modelFlag)
	entries, err := client.Draft(ctx, subject, *gradeFlag, difficulty, *countFlag)
	if err != nil {
		log.Fatalf("Draft failed: %v", err)
	}
	if len(entries) == 0 {
		log.Fatal("No drafted questions survived the quality gate")
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Fatalf("Encode entries: %v", err)
	}
	if err := os.WriteFile(*outFlag, append(data, '\n'), 0o644); err != nil {
		log.Fatalf("Write %s: %v", *outFlag, err)
	}

	log.Printf("Wrote %d questions to %s", len(entries), *outFlag)
}
