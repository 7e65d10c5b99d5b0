// Package gitstore provides a Git plumbing-based implementation of domain.KVStore.
package gitstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/runoshun/focus-pilot/internal/domain"
	"github.com/runoshun/focus-pilot/internal/infra/crypto"
)

// Store implements domain.KVStore using Git plumbing (refs and blobs).
//
// Data structure:
//
//	refs/<namespace>/
//	  kv/
//	    <key> → blob (encoded value, optionally sealed)
type Store struct {
	repo      *git.Repository
	sealer    *crypto.Sealer
	namespace string // e.g., "focuspilot"
	mu        sync.RWMutex
}

// Open opens the repository at path, creating a bare repository if none exists.
// sealer may be nil to store blobs in plain text.
func Open(path, namespace string, sealer *crypto.Sealer) (*Store, error) {
	repo, err := git.PlainOpen(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if mkErr := os.MkdirAll(path, 0o750); mkErr != nil {
			return nil, fmt.Errorf("create repository directory: %w", mkErr)
		}
		repo, err = git.PlainInit(path, true)
	}
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return NewWithRepo(repo, namespace, sealer), nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string, sealer *crypto.Sealer) *Store {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &Store{
		repo:      repo,
		namespace: namespace,
		sealer:    sealer,
	}
}

// kvPrefix returns the ref prefix holding values for this namespace.
func (s *Store) kvPrefix() string {
	return "refs/" + s.namespace + "/kv/"
}

// keyRef returns the ref name for a key.
func (s *Store) keyRef(key string) plumbing.ReferenceName {
	return plumbing.ReferenceName(s.kvPrefix() + key)
}

// Get returns the value for key, or nil if absent.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, err := s.repo.Reference(s.keyRef(key), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ref %s: %w", key, err)
	}

	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Put writes value to a new blob and points the key's ref at it.
func (s *Store) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := s.writeBlob(value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	ref := plumbing.NewHashReference(s.keyRef(key), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set ref %s: %w", key, err)
	}
	return nil
}

// Delete removes the key's ref. The blob is left for git gc.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Storer.RemoveReference(s.keyRef(key))
	if err != nil && !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("remove ref %s: %w", key, err)
	}
	return nil
}

// Keys returns all keys in the namespace in sorted order.
func (s *Store) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}

	prefix := s.kvPrefix()
	var keys []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			keys = append(keys, name[len(prefix):])
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate refs: %w", err)
	}

	slices.Sort(keys)
	return keys, nil
}

// writeBlob stores data as a blob object, sealing it when configured.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	blobData := data
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(data)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("seal data: %w", err)
		}
		blobData = sealed
	}

	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(blobData)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}

	if _, writeErr := writer.Write(blobData); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	if closeErr := writer.Close(); closeErr != nil {
		return plumbing.ZeroHash, fmt.Errorf("close blob writer: %w", closeErr)
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}

	return hash, nil
}

// readBlob reads a blob object, opening it when a sealer is configured.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}

	if s.sealer != nil {
		opened, err := s.sealer.Open(data)
		if err != nil {
			return nil, fmt.Errorf("open sealed data: %w", err)
		}
		return opened, nil
	}

	return data, nil
}

// Ensure Store implements KVStore.
var _ domain.KVStore = (*Store)(nil)
