package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/domain"
)

func TestColumns(t *testing.T) {
	ctx := context.Background()

	t.Run("add and rename", func(t *testing.T) {
		env := newTestEnv(t)

		col, err := NewAddColumn(env.store).Execute(ctx, AddColumnInput{Title: "Review"})
		require.NoError(t, err)
		assert.Equal(t, 3, col.Order)

		renamed, err := NewRenameColumn(env.store).Execute(ctx, RenameColumnInput{Column: "review", Title: "QA"})
		require.NoError(t, err)
		assert.Equal(t, col.ID, renamed.ID)
		assert.Equal(t, "QA", renamed.Title)
	})

	t.Run("delete cascades", func(t *testing.T) {
		env := newTestEnv(t)
		env.addTask(t, "id-1", "A")
		env.addTask(t, "id-1", "B")
		env.addTask(t, "id-2", "C")

		out, err := NewDeleteColumn(env.store).Execute(ctx, DeleteColumnInput{Column: "To Do"})

		require.NoError(t, err)
		assert.Equal(t, 2, out.DeletedTasks)
		b := env.board(t)
		assert.Len(t, b.Columns, 2)
		assert.Len(t, b.Tasks, 1)
	})

	t.Run("order", func(t *testing.T) {
		env := newTestEnv(t)

		cols, err := NewOrderColumns(env.store).Execute(ctx, OrderColumnsInput{Columns: []string{"Done", "id-1", "in progress"}})

		require.NoError(t, err)
		require.Len(t, cols, 3)
		assert.Equal(t, []string{"Done", "To Do", "In Progress"}, []string{cols[0].Title, cols[1].Title, cols[2].Title})
	})

	t.Run("order must name every column", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := NewOrderColumns(env.store).Execute(ctx, OrderColumnsInput{Columns: []string{"Done", "To Do"}})

		assert.Error(t, err)
	})

	t.Run("set column tasks", func(t *testing.T) {
		env := newTestEnv(t)
		env.addTask(t, "id-3", "A")
		env.addTask(t, "id-3", "B")
		env.addTask(t, "id-1", "C")

		n, err := NewSetColumnTasks(env.store).Execute(ctx, SetColumnTasksInput{
			Column:   "Done",
			Status:   ptr("done"),
			Priority: ptr("low"),
		})

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		for _, task := range env.board(t).Tasks {
			if task.ColumnID == "id-3" {
				assert.Equal(t, domain.StatusDone, task.Status)
				assert.Equal(t, domain.PriorityLow, task.Priority)
				assert.NotNil(t, task.CompletedAt)
			} else {
				assert.Equal(t, domain.StatusNotStarted, task.Status)
			}
		}
	})

	t.Run("set column tasks requires a field", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := NewSetColumnTasks(env.store).Execute(ctx, SetColumnTasksInput{Column: "Done"})

		assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
	})

	t.Run("set column tasks validates before writing", func(t *testing.T) {
		env := newTestEnv(t)
		env.addTask(t, "id-3", "A")

		_, err := NewSetColumnTasks(env.store).Execute(ctx, SetColumnTasksInput{
			Column:   "Done",
			Status:   ptr("done"),
			Priority: ptr("urgent"),
		})

		require.ErrorIs(t, err, domain.ErrInvalidPriority)
		assert.Equal(t, domain.StatusNotStarted, env.board(t).Tasks[0].Status)
	})
}

func TestTags(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	task := env.addTask(t, "id-1", "A")
	_, err := env.store.UpdateTask(task.ID, domain.TaskPatch{Tags: &[]string{"tag-bug"}})
	require.NoError(t, err)

	tag, err := NewAddTag(env.store).Execute(ctx, AddTagInput{Name: "Urgent"})
	require.NoError(t, err)
	assert.Equal(t, domain.ColorGray, tag.Color)

	edited, err := NewEditTag(env.store).Execute(ctx, EditTagInput{Tag: "urgent", Color: ptr(domain.ColorRed)})
	require.NoError(t, err)
	assert.Equal(t, "Urgent", edited.Name)
	assert.Equal(t, domain.ColorRed, edited.Color)

	usage, err := NewListTags(env.store).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 5)
	assert.Equal(t, "Bug", usage[0].Tag.Name)
	assert.Equal(t, 1, usage[0].Tasks)
	assert.Equal(t, 0, usage[4].Tasks)

	deleted, err := NewDeleteTag(env.store).Execute(ctx, DeleteTagInput{Tag: "Bug"})
	require.NoError(t, err)
	assert.Equal(t, "tag-bug", deleted.ID)
	stored, _ := env.board(t).Task(task.ID)
	assert.Empty(t, stored.Tags)

	_, err = NewDeleteTag(env.store).Execute(ctx, DeleteTagInput{Tag: "Bug"})
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}

func TestTaskItems(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	task := env.addTask(t, "id-1", "A")
	add := NewAddTaskItem(env.store)
	remove := NewRemoveTaskItem(env.store)

	t.Run("subtask add, toggle, remove", func(t *testing.T) {
		out, err := add.Execute(ctx, AddTaskItemInput{TaskID: task.ID, Kind: ItemSubtask, Text: "Write tests"})
		require.NoError(t, err)
		require.NotNil(t, out.Subtask)
		assert.False(t, out.Subtask.Completed)

		sub, err := NewToggleSubtask(env.store).Execute(ctx, TaskItemInput{TaskID: task.ID, Item: "write tests"})
		require.NoError(t, err)
		assert.True(t, sub.Completed)

		id, err := remove.Execute(ctx, TaskItemInput{TaskID: task.ID, Kind: ItemSubtask, Item: out.ID})
		require.NoError(t, err)
		assert.Equal(t, out.ID, id)
		stored, _ := env.board(t).Task(task.ID)
		assert.Empty(t, stored.Subtasks)
	})

	t.Run("note", func(t *testing.T) {
		out, err := add.Execute(ctx, AddTaskItemInput{TaskID: task.ID, Kind: ItemNote, Text: "Blocked on review"})
		require.NoError(t, err)
		require.NotNil(t, out.Note)
		assert.Equal(t, testNow, out.Note.CreatedAt)

		_, err = remove.Execute(ctx, TaskItemInput{TaskID: task.ID, Kind: ItemNote, Item: out.ID})
		require.NoError(t, err)
	})

	t.Run("link", func(t *testing.T) {
		out, err := add.Execute(ctx, AddTaskItemInput{TaskID: task.ID, Kind: ItemAttachment, Text: "https://example.com/spec"})
		require.NoError(t, err)
		require.NotNil(t, out.Attachment)
		assert.Equal(t, domain.AttachmentLink, out.Attachment.Type)
		assert.Equal(t, "https://example.com/spec", out.Attachment.Name)

		_, err = remove.Execute(ctx, TaskItemInput{TaskID: task.ID, Kind: ItemAttachment, Item: "https://example.com/spec"})
		require.NoError(t, err)
	})

	t.Run("link must be absolute", func(t *testing.T) {
		_, err := add.Execute(ctx, AddTaskItemInput{TaskID: task.ID, Kind: ItemAttachment, Text: "not a url"})
		assert.ErrorIs(t, err, domain.ErrInvalidAttachment)
	})

	t.Run("empty note", func(t *testing.T) {
		_, err := add.Execute(ctx, AddTaskItemInput{TaskID: task.ID, Kind: ItemNote, Text: " "})
		assert.ErrorIs(t, err, domain.ErrEmptyContent)
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := remove.Execute(ctx, TaskItemInput{TaskID: task.ID, Kind: ItemNote, Item: "nope"})
		assert.ErrorIs(t, err, domain.ErrNoteNotFound)
	})
}
