package store

import (
	"context"
	"fmt"
	"sync"

	"blogapi/domain"
)

// Memory is a PostStore and UserStore powered by maps, to be used for testing
// or local development.
type Memory struct {
	sync.Mutex
	posts map[string]domain.Post
	order []string
	users map[string]domain.User
}

func NewMemory() *Memory {
	return &Memory{
		posts: make(map[string]domain.Post),
		users: make(map[string]domain.User),
	}
}

func (m *Memory) GetPost(_ context.Context, id string) (domain.Post, error) {
	m.Lock()
	defer m.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return domain.Post{}, fmt.Errorf("post %q: %w", id, ErrNotFound)
	}
	return p, nil
}

func (m *Memory) PutPost(_ context.Context, post domain.Post) error {
	m.Lock()
	defer m.Unlock()
	m.put(post)
	return nil
}

func (m *Memory) ReplacePost(_ context.Context, post domain.Post) error {
	m.Lock()
	defer m.Unlock()
	if err := m.checkOwner(post.ID, post.Email); err != nil {
		return err
	}
	m.put(post)
	return nil
}

func (m *Memory) DeletePost(_ context.Context, id, owner string) error {
	m.Lock()
	defer m.Unlock()
	if err := m.checkOwner(id, owner); err != nil {
		return err
	}
	delete(m.posts, id)
	for i, k := range m.order {
		if k == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) ScanPosts(context.Context) ([]domain.Post, error) {
	m.Lock()
	defer m.Unlock()
	posts := make([]domain.Post, 0, len(m.order))
	for _, id := range m.order {
		posts = append(posts, m.posts[id])
	}
	return posts, nil
}

func (m *Memory) GetUser(_ context.Context, email string) (domain.User, error) {
	m.Lock()
	defer m.Unlock()
	u, ok := m.users[email]
	if !ok {
		return domain.User{}, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	return u, nil
}

func (m *Memory) PutUser(_ context.Context, user domain.User) error {
	m.Lock()
	m.users[user.Email] = user
	m.Unlock()
	return nil
}

func (m *Memory) CreateUser(_ context.Context, user domain.User) error {
	m.Lock()
	defer m.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return fmt.Errorf("user %q: %w", user.Email, ErrConflict)
	}
	m.users[user.Email] = user
	return nil
}

// Caller must hold the lock.
func (m *Memory) put(post domain.Post) {
	if _, ok := m.posts[post.ID]; !ok {
		m.order = append(m.order, post.ID)
	}
	m.posts[post.ID] = post
}

// Caller must hold the lock.
func (m *Memory) checkOwner(id, owner string) error {
	stored, ok := m.posts[id]
	if !ok {
		return fmt.Errorf("post %q: %w", id, ErrNotFound)
	}
	if stored.Email != owner {
		return fmt.Errorf("post %q: %w", id, ErrConditionFailed)
	}
	return nil
}
