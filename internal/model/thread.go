// Package model defines core data structures and types for the thread drafting application.
package model

import (
	"encoding/json"
	"strconv"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"
)

// MaxTweetLength is the per-post limit enforced before a thread can be saved.
const MaxTweetLength = 280

type ThreadID string

func NewThreadID() ThreadID {
	return ThreadID(uuid.New().String())
}

// Thread is a persisted draft: a topic plus the ordered posts that make up the thread.
// The first post is always the hook and the last one the closing call-to-action.
type Thread struct {
	ID     ThreadID `json:"id"`
	Topic  string   `json:"topic"`
	Tweets []string `json:"tweets"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type threadJSON struct {
	ID        ThreadID `json:"id"`
	Topic     string   `json:"topic"`
	Tweets    []string `json:"tweets"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

// MarshalJSON writes timestamps as epoch milliseconds.
func (t Thread) MarshalJSON() ([]byte, error) {
	tweets := t.Tweets
	if tweets == nil {
		tweets = []string{}
	}
	return json.Marshal(threadJSON{
		ID:        t.ID,
		Topic:     t.Topic,
		Tweets:    tweets,
		CreatedAt: ToMillis(t.CreatedAt),
		UpdatedAt: ToMillis(t.UpdatedAt),
	})
}

func (t *Thread) UnmarshalJSON(data []byte) error {
	var raw threadJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	t.Topic = raw.Topic
	t.Tweets = raw.Tweets
	t.CreatedAt = FromMillis(raw.CreatedAt)
	t.UpdatedAt = FromMillis(raw.UpdatedAt)
	return nil
}

func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func (t *Thread) Hook() string {
	if len(t.Tweets) == 0 {
		return ""
	}
	return t.Tweets[0]
}

func (t *Thread) CTA() string {
	if len(t.Tweets) == 0 {
		return ""
	}
	return t.Tweets[len(t.Tweets)-1]
}

// Label names the slot at index i the way the editor shows it.
func (t *Thread) Label(i int) string {
	return SlotLabel(i, len(t.Tweets))
}

func SlotLabel(i, total int) string {
	switch {
	case i == 0:
		return "Hook"
	case i == total-1:
		return "CTA"
	default:
		return "Tweet " + strconv.Itoa(i)
	}
}

// Clone returns a deep copy so callers can mutate the posts freely.
func (t *Thread) Clone() *Thread {
	c := *t
	c.Tweets = append([]string(nil), t.Tweets...)
	return &c
}

// TweetLength counts UTF-16 code units, the unit used by browser-side character counters.
func TweetLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func IsOverLimit(s string) bool {
	return TweetLength(s) > MaxTweetLength
}

// OverLimit returns the indices of the posts longer than MaxTweetLength.
func OverLimit(tweets []string) []int {
	var over []int
	for i, tweet := range tweets {
		if IsOverLimit(tweet) {
			over = append(over, i)
		}
	}
	return over
}
