package http

import (
	"net/http"

	"codemcq-service/internal/app"
	"codemcq-service/internal/domain"
)

// CatalogHandler lists available quizzes.
type CatalogHandler struct {
	quizzes app.QuizBank
}

func NewCatalogHandler(quizzes app.QuizBank) *CatalogHandler {
	return &CatalogHandler{quizzes: quizzes}
}

type languageEntry struct {
	Code   string   `json:"code"`
	Label  string   `json:"label"`
	Levels []string `json:"levels"`
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.quizzes.ListCatalog(r.Context())
	if err != nil {
		writeError(w, r, err, 0)
		return
	}
	writeOK(w, catalog, "")
}

// Languages groups the catalog by language, keeping the canonical order.
func (h *CatalogHandler) Languages(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.quizzes.ListCatalog(r.Context())
	if err != nil {
		writeError(w, r, err, 0)
		return
	}
	levels := make(map[string][]string)
	for _, entry := range catalog {
		levels[entry.Language] = append(levels[entry.Language], entry.Level)
	}
	out := make([]languageEntry, 0, len(levels))
	for _, code := range domain.Languages {
		if lv, ok := levels[code]; ok {
			out = append(out, languageEntry{Code: code, Label: domain.LanguageLabel(code), Levels: lv})
		}
	}
	writeOK(w, out, "")
}
