// Package chat manages conversation turns: transcript history and the
// send-reply-speak orchestration that feeds the animator its signals.
package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zaxpr/AIChat3D/internal/llm"
)

// Exchange represents a user-assistant conversation turn.
type Exchange struct {
	ID            string    `json:"id"`
	UserText      string    `json:"userText"`
	AssistantText string    `json:"assistantText"`
	Timestamp     time.Time `json:"timestamp"`
}

// HistoryConfig configures transcript retention.
type HistoryConfig struct {
	// MaxExchanges is the maximum number of exchanges retained (default 10).
	MaxExchanges int
	// InactivityTimeout expires the context after silence (default 5m).
	InactivityTimeout time.Duration
}

// DefaultHistoryConfig returns sensible defaults.
func DefaultHistoryConfig() HistoryConfig {
	return HistoryConfig{
		MaxExchanges:      10,
		InactivityTimeout: 5 * time.Minute,
	}
}

// History is a bounded transcript with inactivity expiry, used both for the
// UI transcript and as model context.
type History struct {
	mu           sync.RWMutex
	exchanges    []Exchange
	lastActivity time.Time
	config       HistoryConfig

	now func() time.Time
}

// NewHistory creates a History with the given config.
func NewHistory(config HistoryConfig) *History {
	if config.MaxExchanges <= 0 {
		config.MaxExchanges = 10
	}
	if config.InactivityTimeout <= 0 {
		config.InactivityTimeout = 5 * time.Minute
	}
	return &History{
		exchanges:    make([]Exchange, 0, config.MaxExchanges),
		lastActivity: time.Now(),
		config:       config,
		now:          time.Now,
	}
}

// Add records a user/assistant exchange pair, trimming to MaxExchanges.
func (h *History) Add(userText, assistantText string) Exchange {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.expiredLocked() {
		h.exchanges = h.exchanges[:0]
	}

	ex := Exchange{
		ID:            uuid.NewString(),
		UserText:      userText,
		AssistantText: assistantText,
		Timestamp:     h.now(),
	}
	h.exchanges = append(h.exchanges, ex)
	h.lastActivity = h.now()

	if len(h.exchanges) > h.config.MaxExchanges {
		h.exchanges = h.exchanges[len(h.exchanges)-h.config.MaxExchanges:]
	}
	return ex
}

// Messages returns the retained transcript as model context, oldest first.
// Expired context yields nil.
func (h *History) Messages() []llm.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.expiredLocked() || len(h.exchanges) == 0 {
		return nil
	}

	msgs := make([]llm.Message, 0, len(h.exchanges)*2)
	for _, ex := range h.exchanges {
		msgs = append(msgs,
			llm.Message{Role: llm.RoleUser, Text: ex.UserText},
			llm.Message{Role: llm.RoleAssistant, Text: ex.AssistantText},
		)
	}
	return msgs
}

// Exchanges returns a copy of the retained transcript.
func (h *History) Exchanges() []Exchange {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.expiredLocked() {
		return nil
	}
	out := make([]Exchange, len(h.exchanges))
	copy(out, h.exchanges)
	return out
}

// Count returns the number of stored exchanges.
func (h *History) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.exchanges)
}

// Clear removes all conversation history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exchanges = h.exchanges[:0]
}

func (h *History) expiredLocked() bool {
	if len(h.exchanges) == 0 {
		return false
	}
	return h.now().Sub(h.lastActivity) > h.config.InactivityTimeout
}
