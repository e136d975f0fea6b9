package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/gdp-insight-agent/agent/contract"
	"github.com/tanpawarit/gdp-insight-agent/gdp"
)

var ErrInvalidSession = errors.New("session id is empty")

var _ contractx.TranscriptStore = (*Store)(nil)

// StoreOption customizes Store.
type StoreOption func(*Store)

// WithMaxTurns keeps only the newest n turns of every session. n <= 0 keeps
// everything.
func WithMaxTurns(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.maxTurns = n
		}
	}
}

// Store keeps transcripts in process memory, keyed by session id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]gdp.Turn
	maxTurns int
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{sessions: make(map[string][]gdp.Turn)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Append(ctx context.Context, sessionID string, turns ...gdp.Turn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := normalizeSessionID(sessionID)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	transcript := append(s.sessions[key], turns...)
	if s.maxTurns > 0 && len(transcript) > s.maxTurns {
		dropped := len(transcript) - s.maxTurns
		transcript = append([]gdp.Turn(nil), transcript[dropped:]...)
		log.Debug().Str("session_id", key).Int("dropped", dropped).Msg("transcript trimmed")
	}
	s.sessions[key] = transcript
	return nil
}

// Load returns a copy of the session transcript. Unknown sessions yield an
// empty transcript.
func (s *Store) Load(ctx context.Context, sessionID string) ([]gdp.Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := normalizeSessionID(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gdp.Turn(nil), s.sessions[key]...), nil
}

func (s *Store) Reset(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := normalizeSessionID(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()
	return nil
}

func normalizeSessionID(sessionID string) (string, error) {
	key := strings.TrimSpace(sessionID)
	if key == "" {
		return "", ErrInvalidSession
	}
	return key, nil
}
