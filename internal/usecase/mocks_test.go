package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"skill-atlas/internal/domain/skilltree"
	"skill-atlas/internal/domain/user"
	"skill-atlas/internal/repository"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User

	listErr   error
	updateErr error
}

func newMockUserRepo(users ...user.User) *mockUserRepo {
	m := &mockUserRepo{users: map[uuid.UUID]user.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) CreateUser(_ context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *mockUserRepo) UpdateSkills(_ context.Context, id uuid.UUID, skills user.Skills, skillPoints int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Skills = &skills
	u.SkillPoints = skillPoints
	m.users[id] = u
	return nil
}

func (m *mockUserRepo) ListWithSkills(_ context.Context) ([]user.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		if u.Skills != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

type mockTreeRepo struct {
	mu   sync.Mutex
	tree *skilltree.GlobalTree

	getErr  error
	saveErr error

	saveCalls int
}

func (m *mockTreeRepo) Get(_ context.Context) (*skilltree.GlobalTree, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tree == nil {
		return nil, repository.ErrTreeNotFound
	}
	// Hand out a copy the way a real row read would.
	cp := *m.tree
	cp.Nodes = append([]skilltree.GlobalSkillNode(nil), m.tree.Nodes...)
	cp.Connections = append([]skilltree.GlobalConnection(nil), m.tree.Connections...)
	return &cp, nil
}

func (m *mockTreeRepo) Save(_ context.Context, tree *skilltree.GlobalTree) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	m.tree = tree
	return nil
}

type mockCache struct {
	mu     sync.Mutex
	values map[string][]byte
	locks  map[string]struct{}
}

func newMockCache() *mockCache {
	return &mockCache{values: map[string][]byte{}, locks: map[string]struct{}{}}
}

func (m *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = b
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	delete(m.locks, key)
	return nil
}

func (m *mockCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			delete(m.values, k)
		}
	}
	return nil
}

func (m *mockCache) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[key]; held {
		return false, nil
	}
	m.locks[key] = struct{}{}
	return true, nil
}
