// Package file implements the flat-file task backend: the whole task list is
// kept as a single JSON document and rewritten on every change.
package file

import (
	"context"
	"encoding/json"
	"endify/models"
	"endify/storage"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type document struct {
	Tasks       []models.Task     `json:"tasks"`
	Preferences map[string]string `json:"preferences"`
}

// Store is a storage.Provider backed by one JSON file
type Store struct {
	path string
	now  func() time.Time

	mu  sync.Mutex
	doc document
}

var _ storage.Provider = (*Store)(nil)

// Open loads the document at path, starting empty when the file does not exist
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		now:  time.Now,
		doc: document{
			Tasks:       make([]models.Task, 0),
			Preferences: make(map[string]string),
		},
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := s.load(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	var doc document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	if doc.Tasks == nil {
		doc.Tasks = make([]models.Task, 0)
	}
	if doc.Preferences == nil {
		doc.Preferences = make(map[string]string)
	}
	s.doc = doc
	return nil
}

// save writes to a temp file and renames it over the document
func (s *Store) save() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tasks-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) indexOf(id int64) int {
	for i, t := range s.doc.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID uses the current millisecond timestamp, bumped past existing ids
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	for _, t := range s.doc.Tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]models.Task, len(s.doc.Tasks))
	copy(tasks, s.doc.Tasks)
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	task := s.doc.Tasks[i]
	return &task, nil
}

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	task.ID = s.nextID()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	s.doc.Tasks = append(s.doc.Tasks, *task)
	if err := s.save(); err != nil {
		s.doc.Tasks = s.doc.Tasks[:len(s.doc.Tasks)-1]
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(task.ID)
	if i < 0 {
		return storage.ErrNotFound
	}

	previous := s.doc.Tasks[i]
	task.CreatedAt = previous.CreatedAt
	task.UpdatedAt = s.now()
	s.doc.Tasks[i] = *task

	if err := s.save(); err != nil {
		s.doc.Tasks[i] = previous
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return storage.ErrNotFound
	}

	previous := s.doc.Tasks
	remaining := make([]models.Task, 0, len(previous)-1)
	remaining = append(remaining, previous[:i]...)
	remaining = append(remaining, previous[i+1:]...)
	s.doc.Tasks = remaining

	if err := s.save(); err != nil {
		s.doc.Tasks = previous
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (s *Store) GetPreference(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.doc.Preferences[key]
	return value, ok, nil
}

func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.doc.Preferences[key]
	s.doc.Preferences[key] = value
	if err := s.save(); err != nil {
		if existed {
			s.doc.Preferences[key] = previous
		} else {
			delete(s.doc.Preferences, key)
		}
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Close is a no-op; every mutation is already on disk
func (s *Store) Close() error {
	return nil
}

// Path returns the location of the JSON document
func (s *Store) Path() string {
	return s.path
}
