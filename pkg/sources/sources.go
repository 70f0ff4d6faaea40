package sources

import (
	"sync"

	"github.com/candidatelabs/talentsync/pkg/candidates"
)

// Clients is a thread-safe container for the registered source clients.
type Clients struct {
	mu      sync.RWMutex
	clients map[candidates.Source]Client
}

// NewClients creates an empty client container.
func NewClients() *Clients {
	return &Clients{
		clients: make(map[candidates.Source]Client),
	}
}

// Get returns a client by source.
func (c *Clients) Get(source candidates.Source) (Client, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	client, found := c.clients[source]
	return client, found
}

// Set registers a client for its source, replacing any prior registration.
func (c *Clients) Set(client Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients[client.Source()] = client
}

// Delete removes the client for a source.
func (c *Clients) Delete(source candidates.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.clients, source)
}

// Len returns the number of registered clients.
func (c *Clients) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clients)
}

// List returns the registered clients in the canonical source order.
func (c *Clients) List() []Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Client, 0, len(c.clients))
	for _, source := range candidates.Sources() {
		if client, ok := c.clients[source]; ok {
			out = append(out, client)
		}
	}
	return out
}
