// Package editor holds the in-progress copy of a thread while it is being composed.
package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/debemdeboas/thread-drafts/internal/model"
)

// MinSlots is the smallest thread the editor produces: hook, one body post, CTA.
const MinSlots = 3

// DefaultCTA seeds the last slot of every new scaffold. It is configurable through
// editor.default_cta.
const DefaultCTA = "If this thread was useful, repost the first tweet so more people get to read it 🙏"

var (
	ErrEmptyTopic      = errors.New("topic is empty")
	ErrNotStarted      = errors.New("composition has not been started")
	ErrIndexOutOfRange = errors.New("slot index out of range")
)

// ValidationError lists the slots that block a save.
type ValidationError struct {
	OverLimit []int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tweets over %d characters at %v", model.MaxTweetLength, e.OverLimit)
}

type Validation struct {
	OverLimit []int
}

func (v Validation) OK() bool {
	return len(v.OverLimit) == 0
}

// Composition is one session's unsaved thread. It has no identity until it is saved,
// unless it was loaded from an existing thread for editing.
//
// Callers that share a Composition between goroutines hold its lock around mutations.
type Composition struct {
	sync.Mutex

	id        model.ThreadID
	createdAt time.Time

	topic  string
	tweets []string
	cta    string
}

func NewComposition(cta string) *Composition {
	if cta == "" {
		cta = DefaultCTA
	}
	return &Composition{cta: cta}
}

// Initialize builds a fresh scaffold of max(count, MinSlots) slots: an empty hook,
// empty body posts and the default CTA last.
func (c *Composition) Initialize(topic string, count int) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ErrEmptyTopic
	}

	count = max(count, MinSlots)
	tweets := make([]string, count)
	tweets[count-1] = c.cta

	c.id = ""
	c.createdAt = time.Time{}
	c.topic = topic
	c.tweets = tweets
	return nil
}

// Load copies an existing thread into the composition for editing.
func (c *Composition) Load(t *model.Thread) {
	c.id = t.ID
	c.createdAt = t.CreatedAt
	c.topic = t.Topic
	c.tweets = append([]string(nil), t.Tweets...)
}

// Reset discards everything, including the loaded thread id.
func (c *Composition) Reset() {
	c.id = ""
	c.createdAt = time.Time{}
	c.topic = ""
	c.tweets = nil
}

func (c *Composition) Started() bool {
	return len(c.tweets) > 0
}

// IsEdit reports whether the composition was loaded from a saved thread.
func (c *Composition) IsEdit() bool {
	return c.id != ""
}

func (c *Composition) ThreadID() model.ThreadID {
	return c.id
}

func (c *Composition) Topic() string {
	return c.topic
}

func (c *Composition) SetTopic(topic string) {
	c.topic = topic
}

func (c *Composition) Len() int {
	return len(c.tweets)
}

func (c *Composition) Tweets() []string {
	return slices.Clone(c.tweets)
}

func (c *Composition) UpdateAt(i int, text string) error {
	if i < 0 || i >= len(c.tweets) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	c.tweets[i] = text
	return nil
}

// RemoveAt drops slot i. It refuses when the thread is already at MinSlots.
func (c *Composition) RemoveAt(i int) bool {
	if len(c.tweets) <= MinSlots || i < 0 || i >= len(c.tweets) {
		return false
	}
	c.tweets = slices.Delete(c.tweets, i, i+1)
	return true
}

// InsertBeforeLast adds an empty slot right before the CTA.
func (c *Composition) InsertBeforeLast() {
	if !c.Started() {
		return
	}
	c.tweets = slices.Insert(c.tweets, len(c.tweets)-1, "")
}

// MoveTo takes the slot at from out and puts it back at to.
func (c *Composition) MoveTo(from, to int) bool {
	n := len(c.tweets)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return false
	}

	moved := c.tweets[from]
	c.tweets = slices.Delete(c.tweets, from, from+1)
	c.tweets = slices.Insert(c.tweets, to, moved)
	return true
}

func (c *Composition) ValidateForSave() Validation {
	return Validation{OverLimit: model.OverLimit(c.tweets)}
}

// Build turns the composition into the thread to persist. The id and creation time of a
// loaded thread are kept; a new composition gets a fresh id.
func (c *Composition) Build(now time.Time) (*model.Thread, error) {
	topic := strings.TrimSpace(c.topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if !c.Started() {
		return nil, ErrNotStarted
	}
	if v := c.ValidateForSave(); !v.OK() {
		return nil, &ValidationError{OverLimit: v.OverLimit}
	}

	now = now.UTC().Truncate(time.Millisecond)

	id := c.id
	createdAt := c.createdAt
	if id == "" {
		id = model.NewThreadID()
	}
	if createdAt.IsZero() {
		createdAt = now
	}

	return &model.Thread{
		ID:        id,
		Topic:     topic,
		Tweets:    slices.Clone(c.tweets),
		CreatedAt: createdAt,
		UpdatedAt: now,
	}, nil
}
