package importer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"codemcq-service/internal/domain"
	"github.com/xuri/excelize/v2"
)

func writeSheet(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "quiz.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	return path
}

func TestReadBuildsQuiz(t *testing.T) {
	path := writeSheet(t, [][]any{
		{"id", "question", "a", "b", "c", "d", "correct"},
		{1, "Output stream object?", "cout", "print", "echo", "puts", "A"},
		{2, "Zero value of int?", "nil", "0", "", "", 2},
		{3, "Broken row", "x", "y", "", "", "D"},
		{},
		{"", "No id", "x", "y", "", "", "A"},
	})

	cfg := DefaultConfig()
	cfg.FilePath = path
	cfg.Language = "cobol"
	cfg.Level = "Easy"
	cfg.Title = "C++ Basics"

	result, err := Read(cfg)
	if err == nil {
		t.Fatalf("expected unknown language to fail")
	}

	cfg.Language = "c++"
	result, err = Read(cfg)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if result.Processed != 4 || result.Skipped != 2 || len(result.Errors) != 2 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	quiz := result.Quiz
	if quiz.ID != "cpp_easy" || quiz.Title != "C++ Basics" || len(quiz.Questions) != 2 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
	if quiz.Questions[0].CorrectOptionID() != "a" || quiz.Questions[1].CorrectOptionID() != "b" {
		t.Fatalf("unexpected correct options: %+v", quiz.Questions)
	}
	if len(quiz.Questions[1].Options) != 2 {
		t.Fatalf("blank option cells must be dropped: %+v", quiz.Questions[1].Options)
	}
}

func TestReadFailsWithoutValidRows(t *testing.T) {
	path := writeSheet(t, [][]any{
		{"id", "question", "a", "b", "c", "d", "correct"},
		{1, "Only one option", "x", "", "", "", "A"},
	})
	cfg := DefaultConfig()
	cfg.FilePath = path
	cfg.Language = "python"
	cfg.Level = "hard"

	if _, err := Read(cfg); !errors.Is(err, domain.ErrMalformedQuiz) {
		t.Fatalf("expected malformed quiz, got %v", err)
	}
}

type recordingSaver struct{ saved []domain.QuizDefinition }

func (s *recordingSaver) SaveQuiz(_ context.Context, quiz domain.QuizDefinition) error {
	s.saved = append(s.saved, quiz)
	return nil
}

func TestImportSaves(t *testing.T) {
	path := writeSheet(t, [][]any{
		{"id", "question", "a", "b", "c", "d", "correct"},
		{"q1", "2 + 2?", "3", "4", "5", "", "b"},
	})
	cfg := DefaultConfig()
	cfg.FilePath = path
	cfg.Language = "js"
	cfg.Level = "medium"
	cfg.QuizID = "js_medium"

	saver := &recordingSaver{}
	if _, err := Import(context.Background(), cfg, saver); err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(saver.saved) != 1 || saver.saved[0].Language != "javascript" || saver.saved[0].ID != "js_medium" {
		t.Fatalf("unexpected saved quiz: %+v", saver.saved)
	}
}
