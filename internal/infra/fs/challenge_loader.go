package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync"

	"codemcq-service/internal/domain"
)

// ChallengeLoader reads <root>/coding_challenges.json once and serves it from memory.
type ChallengeLoader struct {
	path string

	mu         sync.RWMutex
	loaded     bool
	challenges []domain.Challenge
}

func NewChallengeLoader(root string) *ChallengeLoader {
	return &ChallengeLoader{path: filepath.Join(root, "coding_challenges.json")}
}

type challengeFile struct {
	Challenges []domain.Challenge `json:"challenges"`
}

func (l *ChallengeLoader) LoadChallenges(_ context.Context) ([]domain.Challenge, error) {
	l.mu.RLock()
	if l.loaded {
		out := l.challenges
		l.mu.RUnlock()
		return out, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return l.challenges, nil
	}

	raw, err := os.ReadFile(l.path)
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		l.challenges = []domain.Challenge{}
	case err != nil:
		return nil, fmt.Errorf("read challenges: %w", err)
	default:
		var file challengeFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("decode challenges: %w", err)
		}
		l.challenges = file.Challenges
	}
	l.loaded = true
	return l.challenges, nil
}

// Reload forces the next call to re-read the file.
func (l *ChallengeLoader) Reload() {
	l.mu.Lock()
	l.loaded = false
	l.challenges = nil
	l.mu.Unlock()
}
