package seeder

import (
	"encoding/json"
	"fmt"
	"strings"
)

type candidate struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
}

func parseCandidates(responseBody string) ([]candidate, error) {
	cleaned := stripCodeFences(responseBody)

	var candidates []candidate
	if err := json.Unmarshal([]byte(cleaned), &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no questions in response")
	}
	return candidates, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
