package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-task-list/backend/internal/models"
	"go-task-list/backend/internal/repositories"
)

// MemoryTaskRepository はテスト用のメモリ上のTaskRepositoryです。
// SQL実装と同じく created_at DESC, id DESC で並べます。
type MemoryTaskRepository struct {
	mu     sync.Mutex
	tasks  map[int]models.Task
	nextID int

	// Now は created_at の採番に使う時計です。テストで差し替えられます。
	Now func() time.Time
	// Err が設定されている場合、すべての操作がこのエラーを返します。
	Err error
	// UpdateErr が設定されている場合、Update だけがこのエラーを返します。
	UpdateErr error
}

// NewMemoryTaskRepository は空のMemoryTaskRepositoryを作成します。
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks:  make(map[int]models.Task),
		nextID: 1,
		Now:    time.Now,
	}
}

func (r *MemoryTaskRepository) Create(_ context.Context, title string, completed bool) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	title, err := repositories.NormalizeTitle(title)
	if err != nil {
		return nil, err
	}
	t := models.Task{ID: r.nextID, Title: title, Completed: completed, CreatedAt: r.Now().UTC()}
	r.tasks[t.ID] = t
	r.nextID++
	return &t, nil
}

func (r *MemoryTaskRepository) FindAll(_ context.Context) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	tasks := make([]*models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		t := t
		tasks = append(tasks, &t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, id int) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	t, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrTaskNotFound
	}
	return &t, nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, id int, fields models.TaskFields) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if r.UpdateErr != nil {
		return nil, r.UpdateErr
	}
	if fields.Title != nil {
		title, err := repositories.NormalizeTitle(*fields.Title)
		if err != nil {
			return nil, err
		}
		fields.Title = &title
	}
	t, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrTaskNotFound
	}
	if fields.Title != nil {
		t.Title = *fields.Title
	}
	if fields.Completed != nil {
		t.Completed = *fields.Completed
	}
	r.tasks[id] = t
	return &t, nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.tasks[id]; !ok {
		return repositories.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// MemoryUserRepository はテスト用のメモリ上のUserRepositoryです。
type MemoryUserRepository struct {
	mu     sync.Mutex
	users  map[string]models.User
	nextID int

	// Err が設定されている場合、FindByUsername がこのエラーを返します。
	Err error
}

// NewMemoryUserRepository は空のMemoryUserRepositoryを作成します。
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User), nextID: 1}
}

func (r *MemoryUserRepository) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[u.Username]; exists {
		return nil, repositories.ErrDuplicateUsername
	}
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	r.nextID++
	r.users[u.Username] = *u
	return u, nil
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[username]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}
