package session

import (
	"context"

	"github.com/wablastdev/wablast/internal/client"
	"github.com/wablastdev/wablast/internal/credstore"
)

// diskStore adapts the on-disk credential store to the manager's contract.
type diskStore struct {
	s *credstore.Store
}

// NewDiskCredentialStore wraps a credstore.Store as a CredentialStore.
func NewDiskCredentialStore(s *credstore.Store) CredentialStore {
	return diskStore{s: s}
}

func (d diskStore) Load(ctx context.Context, name string) (client.Credential, error) {
	creds, err := d.s.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return creds, nil
}

func (d diskStore) Delete(name string) error {
	return d.s.Delete(name)
}
