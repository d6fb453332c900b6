package credstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	wastore "go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waLog "go.mau.fi/whatsmeow/util/log"
)

// Store persists per-session authentication material. Each session name maps
// to its own SQLite database file under the data directory, so credentials
// for different sessions never share storage. Concurrent access to one file
// is serialized by SQLite's own locking.
type Store struct {
	dir string
}

// New creates a credential store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Credentials is the authentication material for one session, backed by an
// open whatsmeow device store.
type Credentials struct {
	Name      string
	Device    *wastore.Device
	container *sqlstore.Container
}

// Registered reports whether the device has completed pairing before. When
// true, a connection can resume without a new pairing challenge.
func (c *Credentials) Registered() bool {
	return c.Device != nil && c.Device.ID != nil
}

// Save persists the device record.
func (c *Credentials) Save(ctx context.Context) error {
	if err := c.container.PutDevice(ctx, c.Device); err != nil {
		return fmt.Errorf("save credentials for %s: %w", c.Name, err)
	}
	return nil
}

// Close releases the underlying database connection.
func (c *Credentials) Close() error {
	if c.container == nil {
		return nil
	}
	return c.container.Close()
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".db")
}

// Load opens (creating if absent) the credential storage for a session name
// and returns its device material.
func (s *Store) Load(ctx context.Context, name string) (*Credentials, error) {
	dbPath := s.path(name)
	dbLog := waLog.Stdout("Database-"+name, "WARN", true)

	container, err := sqlstore.New(ctx, "sqlite3", "file:"+dbPath+"?_foreign_keys=on", dbLog)
	if err != nil {
		return nil, fmt.Errorf("credential storage for %s: %w", name, err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("device record for %s: %w", name, err)
	}

	return &Credentials{Name: name, Device: device, container: container}, nil
}

// Delete removes the on-disk credential unit for a session name. A missing
// file is not an error.
func (s *Store) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete credentials for %s: %w", name, err)
	}
	return nil
}
