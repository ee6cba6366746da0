package rules

import (
	"context"

	"github.com/eleven-am/cerberus/internal/domain"
)

type mockSource struct {
	rules map[string]*domain.FirewallData
	err   error
}

func newMockSource() *mockSource {
	return &mockSource{rules: make(map[string]*domain.FirewallData)}
}

func (m *mockSource) add(project, name string, data *domain.FirewallData) {
	m.rules[project+"/"+name] = data
}

func (m *mockSource) Firewall(ctx context.Context, project, name string) (*domain.FirewallData, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.rules[project+"/"+name]
	if !ok {
		return nil, &domain.NotFoundError{Project: project, Name: name}
	}
	return data, nil
}
