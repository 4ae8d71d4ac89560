package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/domain/repository"
)

// Store keeps customers and users in a single JSON document on disk.
// Every mutation rewrites the whole document under one writer lock.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

type document struct {
	Customers  []model.Customer `json:"customers"`
	Users      []userRecord     `json:"users"`
	NextUserID int64            `json:"next_user_id"`
}

type userRecord struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FullName     *string    `json:"full_name,omitempty"`
	Role         model.Role `json:"role"`
	PasswordHash string     `json:"password_hash"`
	CreatedAt    time.Time  `json:"created_at"`
}

type customerRepository struct {
	store *Store
}

type userRepository struct {
	store *Store
}

// New prepares a store at path, creating the parent directory when missing.
func New(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("local store path must be provided")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	return &Store{path: path, logger: logger}, nil
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Customers() repository.CustomerRepository {
	return &customerRepository{store: s}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{store: s}
}

// Clear drops every stored customer and keeps users.
func (s *Store) Clear(ctx context.Context) error {
	return s.update(ctx, func(doc *document) error {
		doc.Customers = nil
		return nil
	})
}

func (s *Store) view(ctx context.Context, fn func(*document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

func (s *Store) update(ctx context.Context, fn func(*document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *Store) load() (*document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &document{}, nil
		}
		return nil, fmt.Errorf("read local store: %w", err)
	}
	if len(raw) == 0 {
		return &document{}, nil
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode local store: %w", err)
	}
	return &doc, nil
}

func (s *Store) save(doc *document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write local store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close local store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace local store: %w", err)
	}
	return nil
}
