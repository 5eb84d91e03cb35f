package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-list/backend/internal/events"
	"go-task-list/backend/internal/models"
	"go-task-list/backend/internal/repositories"
	"go-task-list/backend/internal/services"
	"go-task-list/backend/testutil"
)

func newTaskService() (*services.TaskService, *testutil.MemoryTaskRepository, *testutil.RecordingPublisher) {
	repo := testutil.NewMemoryTaskRepository()
	publisher := &testutil.RecordingPublisher{}
	return services.NewTaskService(repo, publisher), repo, publisher
}

func TestTaskService_BuyMilkScenario(t *testing.T) {
	ctx := context.Background()
	svc, _, publisher := newTaskService()

	task, err := svc.CreateTask(ctx, "Buy milk", false)
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.False(t, tasks[0].Completed)

	_, err = svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	tasks, err = svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	require.NoError(t, svc.DeleteTask(ctx, task.ID))
	tasks, err = svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks, "Empty list should not be nil")

	assert.Equal(t,
		[]string{events.ActionCreated, events.ActionCompleted, events.ActionDeleted},
		publisher.Actions())
}

func TestTaskService_ListIsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTaskService()

	// 作成順と created_at の順序を意図的にずらす
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	offsets := []int{2, 0, 3, 1}
	for i, off := range offsets {
		off := off
		repo.Now = func() time.Time { return base.Add(time.Duration(off) * time.Hour) }
		_, err := svc.CreateTask(ctx, fmt.Sprintf("task-%d", i), false)
		require.NoError(t, err)
	}

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, len(offsets))
	for i := 1; i < len(tasks); i++ {
		assert.False(t, tasks[i].CreatedAt.After(tasks[i-1].CreatedAt),
			"tasks[%d] (%s) is newer than tasks[%d] (%s)", i, tasks[i].CreatedAt, i-1, tasks[i-1].CreatedAt)
	}
	assert.Equal(t, "task-2", tasks[0].Title)
	assert.Equal(t, "task-1", tasks[3].Title)
}

func TestTaskService_SameTimestampBreaksTieByID(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTaskService()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.Now = func() time.Time { return fixed }

	first, err := svc.CreateTask(ctx, "first", false)
	require.NoError(t, err)
	second, err := svc.CreateTask(ctx, "second", false)
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)
}

func TestTaskService_CreateRejectsInvalidTitle(t *testing.T) {
	ctx := context.Background()
	svc, _, publisher := newTaskService()

	for _, title := range []string{"", "   ", strings.Repeat("a", 256)} {
		_, err := svc.CreateTask(ctx, title, false)
		assert.ErrorIs(t, err, repositories.ErrInvalidTitle)
	}

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks, "Nothing should be stored")
	assert.Empty(t, publisher.Actions(), "No event should be published on failure")
}

func TestTaskService_CreateTrimsTitle(t *testing.T) {
	svc, _, _ := newTaskService()

	task, err := svc.CreateTask(context.Background(), "  Walk the dog  ", false)

	require.NoError(t, err)
	assert.Equal(t, "Walk the dog", task.Title)
}

func TestTaskService_CompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTaskService()
	task, err := svc.CreateTask(ctx, "Pay rent", false)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		completed, err := svc.CompleteTask(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, completed.Completed)
	}
}

func TestTaskService_UnknownIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, publisher := newTaskService()

	_, err := svc.GetTask(ctx, 404)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)

	_, err = svc.CompleteTask(ctx, 404)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)

	title := "new title"
	_, err = svc.UpdateTask(ctx, 404, models.TaskFields{Title: &title})
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)

	err = svc.DeleteTask(ctx, 404)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)

	assert.Empty(t, publisher.Actions())
}

func TestTaskService_UpdatePublishesEvent(t *testing.T) {
	ctx := context.Background()
	svc, _, publisher := newTaskService()
	task, err := svc.CreateTask(ctx, "Draft", false)
	require.NoError(t, err)

	title := "Final"
	updated, err := svc.UpdateTask(ctx, task.ID, models.TaskFields{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.False(t, updated.Completed)

	recorded := publisher.Events()
	require.Len(t, recorded, 2)
	assert.Equal(t, events.ActionUpdated, recorded[1].Action)
	assert.Equal(t, task.ID, recorded[1].TaskID)
	assert.Equal(t, "Final", recorded[1].Title)
}

func TestTaskService_NilPublisher(t *testing.T) {
	svc := services.NewTaskService(testutil.NewMemoryTaskRepository(), nil)

	_, err := svc.CreateTask(context.Background(), "No events", false)

	assert.NoError(t, err)
}

func TestTaskService_CreateCompletedTask(t *testing.T) {
	ctx := context.Background()
	svc, repo, publisher := newTaskService()

	task, err := svc.CreateTask(ctx, "Already done", true)
	require.NoError(t, err)
	assert.True(t, task.Completed)

	stored, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	assert.Equal(t, []string{events.ActionCreated}, publisher.Actions())
}
