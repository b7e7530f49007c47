package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/repository"
)

type stubTodoRepo struct {
	repository.TodoRepository
	mu    sync.Mutex
	todos map[string]*domain.Todo
}

func newStubTodoRepo() *stubTodoRepo {
	return &stubTodoRepo{todos: make(map[string]*domain.Todo)}
}

func (r *stubTodoRepo) Create(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo.ID = fmt.Sprintf("TD-%d", len(r.todos)+1)
	clone := *todo
	r.todos[todo.ID] = &clone
	return nil
}

func (r *stubTodoRepo) GetByIDForEmployee(_ context.Context, id, employeeID string) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo, ok := r.todos[id]
	if !ok || todo.EmployeeID != employeeID {
		return nil, pgx.ErrNoRows
	}
	clone := *todo
	return &clone, nil
}

func (r *stubTodoRepo) SetCompleted(_ context.Context, id string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo, ok := r.todos[id]
	if !ok {
		return pgx.ErrNoRows
	}
	todo.Completed = completed
	return nil
}

func (r *stubTodoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.todos, id)
	return nil
}

func (r *stubTodoRepo) CountPendingByEmployee(_ context.Context, employeeID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, todo := range r.todos {
		if todo.EmployeeID == employeeID && !todo.Completed {
			count++
		}
	}
	return count, nil
}

type stubAdminTodoRepo struct {
	repository.AdminTodoRepository
	mu          sync.Mutex
	assignments []domain.AdminAssignedTodo
}

func (r *stubAdminTodoRepo) Create(_ context.Context, todo *domain.AdminAssignedTodo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments = append(r.assignments, *todo)
	return nil
}

func (r *stubAdminTodoRepo) ListAll(context.Context) ([]domain.AdminAssignedTodo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AdminAssignedTodo(nil), r.assignments...), nil
}

func todoFixture() (*TodoService, *stubTodoRepo, *stubAdminTodoRepo) {
	todos := newStubTodoRepo()
	adminTodos := &stubAdminTodoRepo{}
	employees := &stubEmployeeStore{employees: map[string]*domain.Employee{
		"EMP-1": {ID: "EMP-1", Name: "Alice", Email: "alice@x.com", Active: true},
		"EMP-2": {ID: "EMP-2", Name: "Bob", Email: "bob@x.com", Active: false},
	}}
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewTodoService(todos, adminTodos, employees).WithClock(func() time.Time { return start })
	return svc, todos, adminTodos
}

func TestAddTodoDefaultsPriority(t *testing.T) {
	svc, _, _ := todoFixture()

	todo, err := svc.Add(context.Background(), "EMP-1", AddTodoInput{Content: "file report"})
	require.NoError(t, err)
	assert.Equal(t, domain.TodoPriorityMedium, todo.Priority)
	assert.False(t, todo.Completed)
}

func TestAddTodoValidation(t *testing.T) {
	svc, _, _ := todoFixture()

	_, err := svc.Add(context.Background(), "EMP-1", AddTodoInput{Content: "  "})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

	past := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.Add(context.Background(), "EMP-1", AddTodoInput{Content: "x", DueDate: &past})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestTogglePendingCount(t *testing.T) {
	svc, todos, _ := todoFixture()

	first, err := svc.Add(context.Background(), "EMP-1", AddTodoInput{Content: "one"})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "EMP-1", AddTodoInput{Content: "two"})
	require.NoError(t, err)

	count, err := todos.CountPendingByEmployee(context.Background(), "EMP-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	toggled, err := svc.Toggle(context.Background(), "EMP-1", first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	count, err = todos.CountPendingByEmployee(context.Background(), "EMP-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// toggling back reopens the task
	toggled, err = svc.Toggle(context.Background(), "EMP-1", first.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
}

func TestToggleOtherEmployeesTodo(t *testing.T) {
	svc, _, _ := todoFixture()

	todo, err := svc.Add(context.Background(), "EMP-1", AddTodoInput{Content: "mine"})
	require.NoError(t, err)

	_, err = svc.Toggle(context.Background(), "EMP-2", todo.ID)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestAssignCreatesBothRecords(t *testing.T) {
	svc, todos, adminTodos := todoFixture()

	assignment, err := svc.Assign(context.Background(), "ADM-1", "EMP-1", AddTodoInput{
		Content:  "complete onboarding",
		Priority: domain.TodoPriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, "ADM-1", assignment.AdminID)

	listed, err := adminTodos.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)

	count, err := todos.CountPendingByEmployee(context.Background(), "EMP-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	for _, todo := range todos.todos {
		assert.Equal(t, "[From Admin] complete onboarding", todo.Content)
	}
}

func TestAssignToInactiveEmployee(t *testing.T) {
	svc, _, _ := todoFixture()

	_, err := svc.Assign(context.Background(), "ADM-1", "EMP-2", AddTodoInput{Content: "task"})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}
