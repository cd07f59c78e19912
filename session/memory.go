package session

import "sync"

// MemoryPersister keeps credentials in memory only. Used by tests and by
// commands that must not touch the on-disk session (for example when the
// state directory is read-only).
type MemoryPersister struct {
	mu    sync.Mutex
	creds Credentials
}

var _ Persister = (*MemoryPersister)(nil)

func NewMemory() *MemoryPersister {
	return &MemoryPersister{}
}

func (p *MemoryPersister) Save(c Credentials) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creds = c
	return nil
}

func (p *MemoryPersister) SaveAccessToken(token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creds.AccessToken = token
	return nil
}

func (p *MemoryPersister) Load() (Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.creds, nil
}

func (p *MemoryPersister) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creds = Credentials{}
	return nil
}

func (p *MemoryPersister) Close() error { return nil }
