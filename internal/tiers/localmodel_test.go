package tiers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edubridge/backend/internal/models"
)

func chatCompletionResponse(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	}
}

func TestLocalModel_Success(t *testing.T) {
	payload := `{"question": "What is 12 divided by 3?", "options": ["2", "3", "4", "6"], "correct_answer": "4", "explanation": "12 / 3 = 4."}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(chatCompletionResponse(payload))
	}))
	defer server.Close()

	client := NewLocalModelClient(server.URL, "test-key", "test-model")
	q, hints, err := client.Generate(context.Background(), models.QuestionRequest{
		Subject: models.SubjectMath, GradeLevel: 3, Difficulty: models.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if hints != nil {
		t.Error("local model tier should not return hints")
	}
	if q.Question != "What is 12 divided by 3?" || q.CorrectAnswer != "4" {
		t.Errorf("unexpected mapping: %+v", q)
	}
}

func TestLocalModel_FencedOutput(t *testing.T) {
	fenced := "```json\n{\"question\": \"What is 12 divided by 3?\", \"options\": [\"2\", \"3\", \"4\", \"6\"], \"correct_answer\": \"4\", \"explanation\": \"\"}\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatCompletionResponse(fenced))
	}))
	defer server.Close()

	client := NewLocalModelClient(server.URL, "test-key", "test-model")
	q, _, err := client.Generate(context.Background(), models.QuestionRequest{Subject: models.SubjectMath, GradeLevel: 3})
	if err != nil {
		t.Fatalf("Generate() failed on fenced output: %v", err)
	}
	if q.CorrectAnswer != "4" {
		t.Errorf("fenced payload not parsed: %+v", q)
	}
}

func TestLocalModel_BaseURLAlreadyVersioned(t *testing.T) {
	payload := `{"question": "What is 12 divided by 3?", "options": ["2", "3", "4", "6"], "correct_answer": "4", "explanation": ""}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("versioned base URL doubled the path: %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(chatCompletionResponse(payload))
	}))
	defer server.Close()

	client := NewLocalModelClient(server.URL+"/v1", "test-key", "test-model")
	q, _, err := client.Generate(context.Background(), models.QuestionRequest{Subject: models.SubjectMath, GradeLevel: 3})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if q.CorrectAnswer != "4" {
		t.Errorf("unexpected mapping: %+v", q)
	}
}

func TestLocalModel_NonJSONOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatCompletionResponse("Sure! Here's a question for you..."))
	}))
	defer server.Close()

	client := NewLocalModelClient(server.URL, "test-key", "test-model")
	_, _, err := client.Generate(context.Background(), models.QuestionRequest{Subject: models.SubjectMath, GradeLevel: 3})
	assertKind(t, err, KindMalformed)
}

func TestLocalModel_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "boom"}}`))
	}))
	defer server.Close()

	client := NewLocalModelClient(server.URL, "test-key", "test-model")
	_, _, err := client.Generate(context.Background(), models.QuestionRequest{Subject: models.SubjectMath, GradeLevel: 3})
	assertKind(t, err, KindUnavailable)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
