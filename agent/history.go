package agent

import (
	"context"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/interviewform/session"
)

type Trimmer interface {
	Trim(history []*schema.Message) []*schema.Message
}

// KeepLastNTrimmer keeps system messages and the last N others. N <= 0 keeps
// only system messages.
type KeepLastNTrimmer struct {
	N int
}

func (t KeepLastNTrimmer) Trim(history []*schema.Message) []*schema.Message {
	if len(history) == 0 {
		return history
	}
	others := 0
	for _, m := range history {
		if m != nil && m.Role != schema.System {
			others++
		}
	}
	drop := others - max(t.N, 0)

	out := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		if m == nil {
			continue
		}
		if m.Role != schema.System && drop > 0 {
			drop--
			continue
		}
		out = append(out, m)
	}
	return out
}

// HistoryStore keeps the conversation of each session so a runner can be given
// the whole exchange.
type HistoryStore struct {
	cache   session.Cache[[]*schema.Message]
	trimmer Trimmer
}

func NewHistoryStore(cache session.Cache[[]*schema.Message], trimmer Trimmer) *HistoryStore {
	return &HistoryStore{cache: cache, trimmer: trimmer}
}

func NewMemoryHistoryStore(trimmer Trimmer) *HistoryStore {
	return NewHistoryStore(session.NewMemoryCache[[]*schema.Message](), trimmer)
}

func historyKey(ctx context.Context) string {
	key, ok := session.KeyFromContext(ctx)
	if !ok || key == "" {
		key = session.DefaultKey
	}
	return "agent:history:" + key
}

func (s *HistoryStore) Load(ctx context.Context) ([]*schema.Message, error) {
	hist, _, err := s.cache.Get(ctx, historyKey(ctx))
	return hist, err
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.cache.Del(ctx, historyKey(ctx))
}

// Append adds msgs, skipping nil messages and immediate repeats, trims and
// saves. It returns the saved history.
func (s *HistoryStore) Append(ctx context.Context, msgs ...*schema.Message) ([]*schema.Message, error) {
	hist, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		if n := len(hist); n > 0 && hist[n-1].Role == msg.Role && hist[n-1].Content == msg.Content {
			continue
		}
		hist = append(hist, msg)
	}
	if s.trimmer != nil {
		hist = s.trimmer.Trim(hist)
	}
	if err := s.cache.Set(ctx, historyKey(ctx), hist); err != nil {
		return nil, err
	}
	return hist, nil
}
