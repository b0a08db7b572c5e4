package memory

import (
	"context"
	"sync"

	"github.com/gatehouse-sec/gatehouse/pkg/directory"
)

// Ensure Directory implements directory.Directory
var _ directory.Directory = (*Directory)(nil)

// Directory is a map-backed principal directory. It indexes principals by
// both login and API key so a single Lookup serves every strategy.
type Directory struct {
	mu       sync.RWMutex
	byLogin  map[string]*directory.Principal
	byAPIKey map[string]*directory.Principal
}

// New creates an empty in-memory directory.
func New() *Directory {
	return &Directory{
		byLogin:  make(map[string]*directory.Principal),
		byAPIKey: make(map[string]*directory.Principal),
	}
}

// Add registers a principal. A principal with an empty login is ignored.
// Later additions with the same login replace earlier ones.
func (d *Directory) Add(p directory.Principal) {
	if p.Login == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if old, ok := d.byLogin[p.Login]; ok && old.APIKey != "" {
		delete(d.byAPIKey, old.APIKey)
	}
	cp := p
	d.byLogin[p.Login] = &cp
	if p.APIKey != "" {
		d.byAPIKey[p.APIKey] = &cp
	}
}

// Lookup resolves a login or API key to a principal. Returns (nil, nil)
// when nothing matches.
func (d *Directory) Lookup(_ context.Context, key string) (*directory.Principal, error) {
	if key == "" {
		return nil, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	if p, ok := d.byAPIKey[key]; ok {
		return copyPrincipal(p), nil
	}
	if p, ok := d.byLogin[key]; ok {
		return copyPrincipal(p), nil
	}
	return nil, nil
}

// CheckConnectivity always succeeds for the in-memory directory.
func (d *Directory) CheckConnectivity() error {
	return nil
}

// Len returns the number of registered principals.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byLogin)
}

// copyPrincipal returns a defensive copy so callers cannot mutate the
// directory's records through the returned pointer.
func copyPrincipal(p *directory.Principal) *directory.Principal {
	cp := *p
	cp.Roles = append([]string(nil), p.Roles...)
	cp.SecretHash = append([]byte(nil), p.SecretHash...)
	return &cp
}
