package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/domain"
)

func TestNewTask_Execute(t *testing.T) {
	t.Run("defaults to first column", func(t *testing.T) {
		env := newTestEnv(t)
		uc := NewNewTask(env.store)

		out, err := uc.Execute(context.Background(), NewTaskInput{Title: "Write docs"})

		require.NoError(t, err)
		assert.Equal(t, "id-1", out.Column.ID)
		assert.Equal(t, "Write docs", out.Task.Title)
		assert.Equal(t, domain.PriorityMedium, out.Task.Priority)
		assert.Equal(t, domain.StatusNotStarted, out.Task.Status)
		assert.Equal(t, testNow, out.Task.CreatedAt)
	})

	t.Run("resolves column by title and applies fields", func(t *testing.T) {
		env := newTestEnv(t)
		uc := NewNewTask(env.store)

		out, err := uc.Execute(context.Background(), NewTaskInput{
			Column:      "in progress",
			Title:       "Fix login",
			Description: "Safari only",
			Priority:    "high",
			Tags:        []string{"bug", "tag-feature"},
		})

		require.NoError(t, err)
		assert.Equal(t, "id-2", out.Task.ColumnID)
		assert.Equal(t, "Safari only", out.Task.Description)
		assert.Equal(t, domain.PriorityHigh, out.Task.Priority)
		assert.Equal(t, []string{"tag-bug", "tag-feature"}, out.Task.Tags)

		stored, ok := env.board(t).Task(out.Task.ID)
		require.True(t, ok)
		assert.Equal(t, out.Task, stored)
	})

	tests := []struct {
		name    string
		in      NewTaskInput
		wantErr error
	}{
		{"empty title", NewTaskInput{Title: "  "}, domain.ErrEmptyTitle},
		{"unknown column", NewTaskInput{Column: "Backlog", Title: "x"}, domain.ErrColumnNotFound},
		{"bad priority", NewTaskInput{Title: "x", Priority: "urgent"}, domain.ErrInvalidPriority},
		{"unknown tag", NewTaskInput{Title: "x", Tags: []string{"nope"}}, domain.ErrTagNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			uc := NewNewTask(env.store)

			_, err := uc.Execute(context.Background(), tt.in)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.board(t).Tasks, "nothing is created on validation failure")
		})
	}
}

func TestEditTask_Execute(t *testing.T) {
	t.Run("updates fields and tags", func(t *testing.T) {
		env := newTestEnv(t)
		task := env.addTask(t, "id-1", "Old")
		_, err := env.store.UpdateTask(task.ID, domain.TaskPatch{Tags: &[]string{"tag-bug", "tag-feature"}})
		require.NoError(t, err)
		uc := NewEditTask(env.store)

		out, err := uc.Execute(context.Background(), EditTaskInput{
			TaskID:     task.ID,
			Title:      ptr("New"),
			Status:     ptr("done"),
			AddTags:    []string{"Documentation", "bug"},
			RemoveTags: []string{"feature"},
		})

		require.NoError(t, err)
		assert.Equal(t, "New", out.Task.Title)
		assert.Equal(t, domain.StatusDone, out.Task.Status)
		require.NotNil(t, out.Task.CompletedAt)
		assert.Equal(t, testNow, *out.Task.CompletedAt)
		assert.Equal(t, []string{"tag-bug", "tag-documentation"}, out.Task.Tags)
	})

	t.Run("no fields", func(t *testing.T) {
		env := newTestEnv(t)
		task := env.addTask(t, "id-1", "Task")

		_, err := NewEditTask(env.store).Execute(context.Background(), EditTaskInput{TaskID: task.ID})

		assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
	})

	t.Run("invalid status", func(t *testing.T) {
		env := newTestEnv(t)
		task := env.addTask(t, "id-1", "Task")

		_, err := NewEditTask(env.store).Execute(context.Background(), EditTaskInput{
			TaskID: task.ID,
			Status: ptr("blocked"),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("unknown task", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := NewEditTask(env.store).Execute(context.Background(), EditTaskInput{
			TaskID: "missing",
			Title:  ptr("x"),
		})

		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}

func TestUpdateTags(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		add     []string
		remove  []string
		want    []string
	}{
		{"add", []string{"a"}, []string{"b"}, nil, []string{"a", "b"}},
		{"remove", []string{"a", "b"}, nil, []string{"a"}, []string{"b"}},
		{"dedup", []string{"a"}, []string{"a", "b", "b"}, nil, []string{"a", "b"}},
		{"remove wins", []string{"a"}, []string{"b"}, []string{"b"}, []string{"a"}},
		{"empty", nil, nil, nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, updateTags(tt.current, tt.add, tt.remove))
		})
	}
}

func TestDeleteTask_Execute(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask(t, "id-1", "Doomed")

	out, err := NewDeleteTask(env.store).Execute(context.Background(), DeleteTaskInput{TaskID: task.ID})

	require.NoError(t, err)
	assert.Equal(t, "Doomed", out.Task.Title)
	_, ok := env.board(t).Task(task.ID)
	assert.False(t, ok)
}

func TestMoveTask_Execute(t *testing.T) {
	env := newTestEnv(t)
	a := env.addTask(t, "id-1", "A")
	b := env.addTask(t, "id-2", "B")
	c := env.addTask(t, "id-2", "C")
	uc := NewMoveTask(env.store)

	t.Run("nil position appends", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), MoveTaskInput{TaskID: a.ID, Column: "In Progress"})

		require.NoError(t, err)
		assert.Equal(t, "id-2", out.Task.ColumnID)
		assert.Equal(t, 2, out.Task.Order)
	})

	t.Run("explicit position", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), MoveTaskInput{TaskID: c.ID, Column: "id-2", Position: ptr(0)})

		require.NoError(t, err)
		tasks := env.board(t).ColumnTasks("id-2")
		require.Len(t, tasks, 3)
		assert.Equal(t, []string{c.ID, b.ID, a.ID}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), MoveTaskInput{TaskID: a.ID, Column: "Backlog"})

		assert.ErrorIs(t, err, domain.ErrColumnNotFound)
	})
}

func TestShowTask_Execute(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask(t, "id-3", "Shipped")
	_, err := env.store.UpdateTask(task.ID, domain.TaskPatch{Tags: &[]string{"tag-feature"}})
	require.NoError(t, err)

	out, err := NewShowTask(env.store).Execute(context.Background(), ShowTaskInput{TaskID: task.ID})

	require.NoError(t, err)
	assert.Equal(t, "Done", out.Column.Title)
	assert.Equal(t, []string{"Feature"}, out.TagNames)
}

func TestShowBoard_Execute(t *testing.T) {
	env := newTestEnv(t)
	env.addTask(t, "id-1", "A")
	env.addTask(t, "id-2", "B")
	uc := NewShowBoard(env.store)

	t.Run("all columns", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), ShowBoardInput{})

		require.NoError(t, err)
		require.Len(t, out.Columns, 3)
		assert.Equal(t, "To Do", out.Columns[0].Column.Title)
		assert.Len(t, out.Columns[0].Tasks, 1)
		assert.Empty(t, out.Columns[2].Tasks)
	})

	t.Run("one column", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), ShowBoardInput{Column: "in progress"})

		require.NoError(t, err)
		require.Len(t, out.Columns, 1)
		assert.Equal(t, "B", out.Columns[0].Tasks[0].Title)
	})
}
