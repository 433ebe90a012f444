// Package sse provides Server-Sent Events client management for real-time communication.
package sse

import (
	"sync"

	"github.com/debemdeboas/thread-drafts/internal/model"
)

// Client is one open event stream. A client without a ThreadID follows every thread.
type Client struct {
	Msg      chan string
	ThreadID model.ThreadID
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends msg to every client following threadID. Clients that are not ready
// to receive miss the message.
func (s *SSEClients) Broadcast(threadID model.ThreadID, msg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		if client.ThreadID == "" || client.ThreadID == threadID {
			select {
			case client.Msg <- msg:
			default:
			}
		}
	}
}
