package gcp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/eleven-am/cerberus/internal/domain"
)

// StaticSource serves firewall rules registered in memory. Meant for tests
// and embedders that already hold the resource documents.
type StaticSource struct {
	mu    sync.RWMutex
	rules map[string]*domain.FirewallData
}

func NewStaticSource() *StaticSource {
	return &StaticSource{rules: make(map[string]*domain.FirewallData)}
}

// Add registers a rule under project and name, replacing any previous one.
func (s *StaticSource) Add(project, name string, data *domain.FirewallData) {
	s.mu.Lock()
	s.rules[sourceKey(project, name)] = data
	s.mu.Unlock()
}

func (s *StaticSource) Firewall(ctx context.Context, project, name string) (*domain.FirewallData, error) {
	s.mu.RLock()
	data, ok := s.rules[sourceKey(project, name)]
	s.mu.RUnlock()
	if !ok {
		return nil, &domain.NotFoundError{Project: project, Name: name}
	}
	return data, nil
}

// FileSource serves firewall rules exported to disk, one document per rule,
// laid out as <root>/<project>/<name>.json (or .yaml/.yml).
type FileSource struct {
	root string
}

func NewFileSource(root string) *FileSource {
	return &FileSource{root: root}
}

var documentExtensions = []string{".json", ".yaml", ".yml"}

func (s *FileSource) Firewall(ctx context.Context, project, name string) (*domain.FirewallData, error) {
	for _, ext := range documentExtensions {
		path := filepath.Join(s.root, project, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read firewall document: %w", err)
		}
		fw, err := decodeByExt(path, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return fw, nil
	}
	return nil, &domain.NotFoundError{Project: project, Name: name}
}

func sourceKey(project, name string) string {
	return project + "/" + name
}
