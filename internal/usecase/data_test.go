package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/codec"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/search"
	"github.com/runoshun/taskboard/internal/testutil"
)

func TestSearchTasks_Execute(t *testing.T) {
	env := newTestEnv(t)
	env.addTask(t, "id-1", "Login bug")
	env.addTask(t, "id-2", "Bug")
	env.addTask(t, "id-3", "Write docs")
	uc := NewSearchTasks(env.store)

	t.Run("ranked with previews", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), SearchTasksInput{Query: "bug"})

		require.NoError(t, err)
		assert.Equal(t, 2, out.Total)
		require.Len(t, out.Hits, 2)
		assert.Equal(t, "Bug", out.Hits[0].Task.Title)
		assert.Equal(t, "In Progress", out.Hits[0].ColumnTitle)
		assert.Equal(t, search.FieldTitle, out.Hits[0].Best.Field)
		assert.Equal(t, "Login bug", out.Hits[1].Preview)
		assert.Greater(t, out.Hits[0].Score, out.Hits[1].Score)
	})

	t.Run("limit keeps total", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), SearchTasksInput{Query: "bug", Limit: 1})

		require.NoError(t, err)
		assert.Equal(t, 2, out.Total)
		assert.Len(t, out.Hits, 1)
	})

	t.Run("blank query", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), SearchTasksInput{Query: "   "})

		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	})
}

func TestBestMatch(t *testing.T) {
	matches := []search.FieldMatch{
		{Field: search.FieldDescription, Score: 70},
		{Field: search.FieldTitle, Score: 100},
		{Field: search.FieldNote, Score: 100},
	}
	assert.Equal(t, search.FieldTitle, bestMatch(matches).Field)
	assert.Equal(t, search.FieldMatch{}, bestMatch(nil))
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestEnv(t)
	task := src.addTask(t, "id-2", "Exported")
	_, err := src.store.AddNote(task.ID, "keep me")
	require.NoError(t, err)

	dir := t.TempDir()
	out, err := NewExportBoard(src.store, src.clock).Execute(ctx, ExportBoardInput{Path: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "taskboard-2024-07-01.json.gz"), out.Path)
	assert.Positive(t, out.Bytes)

	dst := newTestEnv(t)
	summary, err := NewImportBoard(dst.store).Execute(ctx, ImportBoardInput{Path: out.Path})
	require.NoError(t, err)
	assert.Equal(t, ImportBoardOutput{Columns: 3, Tasks: 1, Tags: 4}, *summary)

	imported, ok := dst.board(t).Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, "Exported", imported.Title)
	require.Len(t, imported.Notes, 1)
	assert.Equal(t, "keep me", imported.Notes[0].Content)
}

func TestExportPath(t *testing.T) {
	clock := &testutil.MockClock{NowTime: testNow}
	dir := t.TempDir()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"empty", "", "taskboard-2024-07-01.json.gz"},
		{"directory", dir, filepath.Join(dir, "taskboard-2024-07-01.json.gz")},
		{"bare name", filepath.Join(dir, "mine"), filepath.Join(dir, "mine.json.gz")},
		{"json name", filepath.Join(dir, "mine.json"), filepath.Join(dir, "mine.json.gz")},
		{"full name", filepath.Join(dir, "mine.json.gz"), filepath.Join(dir, "mine.json.gz")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exportPath(tt.target, clock))
		})
	}
}

func TestExportBytes_Execute(t *testing.T) {
	env := newTestEnv(t)
	env.addTask(t, "id-1", "A")

	data, name, err := NewExportBytes(env.store, env.clock).Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "taskboard-2024-07-01.json.gz", name)
	b, err := codec.Import(data)
	require.NoError(t, err)
	assert.Len(t, b.Tasks, 1)
}

func TestImportBoard_Rejected(t *testing.T) {
	env := newTestEnv(t)
	env.addTask(t, "id-1", "Survivor")

	_, err := NewImportBoard(env.store).Execute(context.Background(), ImportBoardInput{Data: []byte("not gzip")})

	var importErr *codec.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Len(t, env.board(t).Tasks, 1, "board is untouched")
}

func TestRunBackup_Execute(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addTask(t, "id-1", "Precious")
	env.flush(t)

	outcome, err := NewRunBackup(env.store).Execute(ctx)
	require.NoError(t, err)
	assert.True(t, outcome.Success)

	statuses := NewBackupStatus(env.engine).Execute(ctx)
	require.Len(t, statuses, 3)
	for _, st := range statuses {
		assert.True(t, st.Present, st.Tier)
		assert.True(t, st.Valid, st.Tier)
		assert.Equal(t, testNow, st.Timestamp, st.Tier)
	}
}

func TestRecoverBoard_Execute(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.flush(t)

	saved := domain.DefaultBoard(&testutil.SeqIDs{Prefix: "col"}).AddTask("saved", "col-1", "Precious", testNow)
	require.True(t, env.engine.Backup(ctx, saved).Success)

	rec, err := NewRecoverBoard(env.store, env.engine).Execute(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.BackendSQLite, rec.Source)
	assert.Equal(t, 1, rec.Summary.Tasks)
	b := env.board(t)
	require.Len(t, b.Tasks, 1)
	assert.Equal(t, "Precious", b.Tasks[0].Title)
}

func TestRecoverBoard_NoBackup(t *testing.T) {
	env := newTestEnv(t)
	env.flush(t)
	NewClearBackups(env.engine).Execute(context.Background())

	for _, st := range NewBackupStatus(env.engine).Execute(context.Background()) {
		assert.False(t, st.Present, st.Tier)
	}
	_, err := NewRecoverBoard(env.store, env.engine).Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoRecovery)
}

func TestAttachFile_Execute(t *testing.T) {
	env := newTestEnv(t)
	task := env.addTask(t, "id-1", "A")
	dir := t.TempDir()
	uc := NewAttachFile(env.store)

	t.Run("text file", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

		a, err := uc.Execute(context.Background(), AttachFileInput{TaskID: task.ID, Path: path})

		require.NoError(t, err)
		assert.Equal(t, domain.AttachmentFile, a.Type)
		assert.Equal(t, "notes.txt", a.Name)
		assert.Equal(t, "text/plain; charset=utf-8", a.MimeType)
		assert.Equal(t, "data:text/plain;charset=utf-8;base64,aGVsbG8=", a.URL)
		assert.EqualValues(t, 5, a.Size)
	})

	t.Run("png image", func(t *testing.T) {
		path := filepath.Join(dir, "shot.png")
		png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
		require.NoError(t, os.WriteFile(path, png, 0o600))

		a, err := uc.Execute(context.Background(), AttachFileInput{TaskID: task.ID, Path: path, Name: "Screenshot"})

		require.NoError(t, err)
		assert.Equal(t, domain.AttachmentImage, a.Type)
		assert.Equal(t, "Screenshot", a.Name)
		assert.True(t, strings.HasPrefix(a.URL, "data:image/png;base64,"))
	})

	t.Run("too large", func(t *testing.T) {
		path := filepath.Join(dir, "big.bin")
		require.NoError(t, os.WriteFile(path, make([]byte, MaxAttachmentSize+1), 0o600))

		_, err := uc.Execute(context.Background(), AttachFileInput{TaskID: task.ID, Path: path})

		assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
	})
}
