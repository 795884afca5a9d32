package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAnswerOutcomeKeepsZeroNextPosition(t *testing.T) {
	raw, err := json.Marshal(AnswerOutcome{AttemptID: 1, QuestionID: "3", Action: ActionQuestion, NextPosition: 0})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"next_position":0`) {
		t.Fatalf("expected next_position 0 in %s", raw)
	}
}
