// Package engine decides which assessment question a learner sees next:
// it cascades across the upstream generation tiers, quality-gates their
// output, falls back to the content bank, and adapts difficulty and subject
// order to recent performance.
package engine

import (
	"context"
	"log"
	"math/rand"

	"github.com/edubridge/backend/internal/bank"
	"github.com/edubridge/backend/internal/models"
	"github.com/edubridge/backend/internal/tiers"
)

// Coordinator owns one session's question flow. Construct one per learner
// session; the bank behind it is shared, everything else here is not.
type Coordinator struct {
	generators []tiers.Generator
	selector   *bank.Selector
	session    *Session
	rng        *rand.Rand
}

// NewCoordinator builds a session coordinator. generators are tried in the
// order given (highest priority first). seed drives all shuffle decisions,
// so tests can pin the selection order.
func NewCoordinator(generators []tiers.Generator, b *bank.Bank, seed int64) *Coordinator {
	rng := rand.New(rand.NewSource(seed))
	return &Coordinator{
		generators: generators,
		selector:   bank.NewSelector(b, rng),
		session:    NewSession(),
		rng:        rng,
	}
}

// Session exposes the dedupe state, mainly for tests and diagnostics.
func (c *Coordinator) Session() *Session {
	return c.session
}

// GenerateQuestion returns the next question for the request. It never
// fails: tiers are tried in priority order, each result is quality-gated
// and dedupe-checked, and the bank cascade terminates in a synthesized
// question. The served question's fingerprint is registered before return.
func (c *Coordinator) GenerateQuestion(ctx context.Context, req models.QuestionRequest) *models.AssessmentResponse {
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyMedium
	}

	for _, gen := range c.generators {
		q, hints, err := gen.Generate(ctx, req)
		if err != nil {
			log.Printf("WARN: tier %s: %v, trying next tier", gen.Name(), err)
			continue
		}

		if reason := RejectReason(q); reason != "" {
			log.Printf("WARN: tier %s: rejected low-quality candidate (%s)", gen.Name(), reason)
			continue
		}

		fp := bank.Fingerprint(q.Subject, q.GradeLevel, q.Difficulty, q.Question)
		if c.session.Contains(fp) {
			log.Printf("WARN: tier %s: duplicate question this session, trying next tier", gen.Name())
			continue
		}

		c.session.Register(fp)
		resp := &models.AssessmentResponse{Question: *q, Source: gen.Name()}
		if hints != nil {
			resp.NextSubject = hints.NextSubject
			resp.AdjustedDifficulty = hints.AdjustedDifficulty
		}
		return resp
	}

	q, stage := c.selector.Pick(req, c.session.Contains)
	c.session.Register(q.ID)
	return &models.AssessmentResponse{Question: q, Source: stage}
}
