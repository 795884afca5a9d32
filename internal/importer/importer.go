package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"codemcq-service/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Config describes a spreadsheet of questions, one per row:
// A id, B prompt, C-F options, G correct option (letter A-D or 1-4).
type Config struct {
	FilePath        string
	SheetName       string
	StartRow        int // 1-based; rows before it are headers
	Language        string
	Level           string
	QuizID          string
	Title           string
	Description     string
	DurationMinutes int
}

// DefaultConfig returns the usual layout: first sheet, one header row.
func DefaultConfig() Config {
	return Config{SheetName: "Sheet1", StartRow: 2}
}

// Result summarises an import.
type Result struct {
	Quiz      domain.QuizDefinition
	Processed int
	Skipped   int
	Errors    []string
}

// Saver persists an imported quiz (file tree or document table).
type Saver interface {
	SaveQuiz(ctx context.Context, quiz domain.QuizDefinition) error
}

var optionColumns = []string{"a", "b", "c", "d"}

// Read converts the sheet into a validated quiz. Bad rows are skipped and
// reported; the import fails only when the resulting quiz is invalid.
func Read(cfg Config) (*Result, error) {
	language, ok := domain.ResolveLanguage(cfg.Language)
	level := domain.Normalise(cfg.Level)
	if !ok || !domain.IsKnownLevel(level) {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrInvalidSelection, cfg.Language, cfg.Level)
	}

	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	quizID := cfg.QuizID
	if quizID == "" {
		quizID = domain.QuizKey(language, level)
	}
	result := &Result{Quiz: domain.QuizDefinition{
		ID:              quizID,
		Language:        language,
		Level:           level,
		Title:           cfg.Title,
		Description:     cfg.Description,
		DurationMinutes: cfg.DurationMinutes,
		Difficulty:      level,
	}}

	start := cfg.StartRow
	if start < 1 {
		start = 1
	}
	for i, row := range rows {
		if i < start-1 || blank(row) {
			continue
		}
		result.Processed++
		q, err := parseRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Quiz.Questions = append(result.Quiz.Questions, q)
	}

	if err := domain.ValidateQuiz(result.Quiz); err != nil {
		return result, err
	}
	return result, nil
}

// Import reads the sheet and hands the quiz to saver.
func Import(ctx context.Context, cfg Config, saver Saver) (*Result, error) {
	result, err := Read(cfg)
	if err != nil {
		return result, err
	}
	if err := saver.SaveQuiz(ctx, result.Quiz); err != nil {
		return result, fmt.Errorf("save quiz: %w", err)
	}
	return result, nil
}

func parseRow(row []string) (domain.Question, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	q := domain.Question{ID: domain.QuestionID(cell(0)), Prompt: cell(1)}
	if q.ID == "" || q.Prompt == "" {
		return q, fmt.Errorf("missing id or question")
	}
	correct := correctIndex(cell(6))
	if correct < 0 {
		return q, fmt.Errorf("invalid correct option %q", cell(6))
	}
	for i, id := range optionColumns {
		text := cell(2 + i)
		if text == "" {
			continue
		}
		q.Options = append(q.Options, domain.Option{ID: id, Text: text, IsCorrect: i == correct})
	}
	if q.CorrectOptionID() == "" {
		return q, fmt.Errorf("correct option %q is empty", cell(6))
	}
	if len(q.Options) < 2 {
		return q, fmt.Errorf("need at least two options")
	}
	return q, nil
}

func correctIndex(raw string) int {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if len(raw) == 1 && raw[0] >= 'a' && raw[0] <= 'd' {
		return int(raw[0] - 'a')
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(optionColumns) {
		return n - 1
	}
	return -1
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
