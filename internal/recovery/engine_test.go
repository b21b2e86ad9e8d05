package recovery

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/codec"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/infra/cookiestore"
	"github.com/runoshun/taskboard/internal/infra/jsonstore"
	"github.com/runoshun/taskboard/internal/infra/sqlitestore"
	"github.com/runoshun/taskboard/internal/testutil"
)

var now = time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

type tiers struct {
	structured *testutil.MemoryAdapter
	flat       *testutil.MemoryAdapter
	tiny       *testutil.MemoryAdapter
}

func newEngine(t *testing.T, timeout time.Duration) (*Engine, tiers, *testutil.RecordingLogger) {
	t.Helper()
	tr := tiers{
		structured: testutil.NewMemoryAdapter(domain.BackendSQLite),
		flat:       testutil.NewMemoryAdapter(domain.BackendJSONFile),
		tiny:       testutil.NewMemoryAdapter(domain.BackendCookie),
	}
	logger := &testutil.RecordingLogger{}
	e := New([]domain.StorageAdapter{tr.structured, tr.flat, tr.tiny}, &testutil.MockClock{NowTime: now}, logger, timeout)
	return e, tr, logger
}

func boardB() domain.Board {
	b := domain.DefaultBoard(&testutil.SeqIDs{Prefix: "col"})
	b = b.AddTask("t1", "col-1", "Recover me", now)
	b = b.AddTask("t2", "col-2", "And me", now)
	return b
}

func record(t *testing.T, b domain.Board) []byte {
	t.Helper()
	payload, err := codec.Serialize(b)
	require.NoError(t, err)
	raw, err := json.Marshal(Record{Data: string(payload), Hash: codec.Checksum(string(payload)), Timestamp: now.UnixMilli()})
	require.NoError(t, err)
	return raw
}

func TestEngine_Backup_WritesRecordToEveryTier(t *testing.T) {
	e, tr, _ := newEngine(t, time.Second)

	out := e.Backup(context.Background(), boardB())

	require.True(t, out.Success)
	require.Len(t, out.Results, 3)
	assert.Equal(t, []string{domain.BackendSQLite, domain.BackendJSONFile, domain.BackendCookie},
		[]string{out.Results[0].Tier, out.Results[1].Tier, out.Results[2].Tier})

	for _, a := range []*testutil.MemoryAdapter{tr.structured, tr.flat, tr.tiny} {
		raw, ok := a.Get(domain.BoardBackupKey)
		require.True(t, ok, a.Name())

		var rec Record
		require.NoError(t, json.Unmarshal(raw, &rec))
		assert.Equal(t, now.UnixMilli(), rec.Timestamp)
		assert.Equal(t, codec.Checksum(rec.Data), rec.Hash)
		assert.Len(t, rec.Hash, 16)

		got, err := codec.Deserialize([]byte(rec.Data))
		require.NoError(t, err)
		assert.Equal(t, codec.Migrate(boardB()), got)
	}
}

func TestEngine_Backup_PartialFailureSucceeds(t *testing.T) {
	e, tr, logger := newEngine(t, time.Second)
	tr.flat.WriteErr = errors.New("quota exceeded")

	out := e.Backup(context.Background(), boardB())

	assert.True(t, out.Success)
	assert.True(t, out.Results[0].OK())
	assert.False(t, out.Results[1].OK())
	assert.True(t, out.Results[2].OK())
	_, ok := tr.tiny.Get(domain.BoardBackupKey)
	assert.True(t, ok)
	assert.True(t, logger.Contains("WARN", "quota exceeded"))
}

func TestEngine_Backup_AllFail(t *testing.T) {
	e, tr, logger := newEngine(t, time.Second)
	for _, a := range []*testutil.MemoryAdapter{tr.structured, tr.flat, tr.tiny} {
		a.WriteErr = errors.New("down")
	}

	out := e.Backup(context.Background(), boardB())

	assert.False(t, out.Success)
	assert.True(t, logger.Contains("ERROR", "every tier"))
}

func TestEngine_Backup_HangingTierIsIsolated(t *testing.T) {
	e, tr, _ := newEngine(t, 50*time.Millisecond)
	tr.structured.SetHang(true)

	start := time.Now()
	out := e.Backup(context.Background(), boardB())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, out.Success)
	assert.ErrorIs(t, out.Results[0].Err, context.DeadlineExceeded)
	_, ok := tr.flat.Get(domain.BoardBackupKey)
	assert.True(t, ok)
	_, ok = tr.tiny.Get(domain.BoardBackupKey)
	assert.True(t, ok)
}

type panicAdapter struct{ *testutil.MemoryAdapter }

func (panicAdapter) Write(context.Context, string, []byte) error { panic("driver bug") }

func TestEngine_Backup_PanickingTierIsIsolated(t *testing.T) {
	flat := testutil.NewMemoryAdapter(domain.BackendJSONFile)
	e := New([]domain.StorageAdapter{panicAdapter{testutil.NewMemoryAdapter("broken")}, flat},
		&testutil.MockClock{NowTime: now}, nil, time.Second)

	out := e.Backup(context.Background(), boardB())

	assert.True(t, out.Success)
	assert.ErrorContains(t, out.Results[0].Err, "driver bug")
}

func TestEngine_Recover_PriorityOrder(t *testing.T) {
	e, tr, _ := newEngine(t, time.Second)
	older := domain.DefaultBoard(&testutil.SeqIDs{Prefix: "old"})
	tr.structured.Set(domain.BoardBackupKey, record(t, boardB()))
	tr.flat.Set(domain.BoardBackupKey, record(t, older))

	got, ok := e.Recover(context.Background())

	require.True(t, ok)
	assert.Equal(t, domain.BackendSQLite, got.Source)
	assert.Equal(t, codec.Migrate(boardB()), got.Board)
	assert.Equal(t, now, got.Timestamp)
}

func TestEngine_Recover_FromFlatWhenTinyCorrupt(t *testing.T) {
	e, tr, logger := newEngine(t, time.Second)
	tr.flat.Set(domain.BoardBackupKey, record(t, boardB()))

	var rec Record
	require.NoError(t, json.Unmarshal(record(t, domain.DefaultBoard(&testutil.SeqIDs{})), &rec))
	rec.Hash = "0000000000000000"
	corrupt, err := json.Marshal(rec)
	require.NoError(t, err)
	tr.tiny.Set(domain.BoardBackupKey, corrupt)

	got, ok := e.Recover(context.Background())

	require.True(t, ok)
	assert.Equal(t, domain.BackendJSONFile, got.Source)
	assert.Equal(t, codec.Migrate(boardB()), got.Board)
	assert.False(t, logger.Contains("WARN", "skip cookie"), "tiny tier is never reached")
}

func TestEngine_Recover_ChecksumFlipSkipsTier(t *testing.T) {
	var rec Record
	require.NoError(t, json.Unmarshal(record(t, boardB()), &rec))

	positions := []int{0, 1, len(rec.Data) / 2, len(rec.Data) - 3, len(rec.Data) - 1}
	for _, pos := range positions {
		e, tr, _ := newEngine(t, time.Second)

		data := []byte(rec.Data)
		if data[pos] == 'A' {
			data[pos] = 'B'
		} else {
			data[pos] = 'A'
		}
		flipped, err := json.Marshal(Record{Data: string(data), Hash: rec.Hash, Timestamp: rec.Timestamp})
		require.NoError(t, err)
		tr.structured.Set(domain.BoardBackupKey, flipped)

		_, ok := e.Recover(context.Background())
		assert.False(t, ok, "flip at %d", pos)
	}
}

func TestEngine_Recover_SkipsStructurallyInvalid(t *testing.T) {
	e, tr, _ := newEngine(t, time.Second)

	// Valid checksum, but the board lacks tags.
	data := `{"columns":[],"tasks":[]}`
	noTags, err := json.Marshal(Record{Data: data, Hash: codec.Checksum(data), Timestamp: now.UnixMilli()})
	require.NoError(t, err)
	tr.structured.Set(domain.BoardBackupKey, noTags)

	// Valid checksum over garbage.
	garbage := "not a board"
	bad, err := json.Marshal(Record{Data: garbage, Hash: codec.Checksum(garbage)})
	require.NoError(t, err)
	tr.flat.Set(domain.BoardBackupKey, bad)

	tr.tiny.Set(domain.BoardBackupKey, record(t, boardB()))

	got, ok := e.Recover(context.Background())

	require.True(t, ok)
	assert.Equal(t, domain.BackendCookie, got.Source)
}

func TestEngine_Recover_AcceptsRawJSONData(t *testing.T) {
	e, tr, _ := newEngine(t, time.Second)
	data := `{"columns":[{"id":"c","title":"C","order":0}],"tasks":[{"id":"t","title":"T","columnId":"c"}],"tags":[]}`
	rec, err := json.Marshal(Record{Data: data, Hash: codec.Checksum(data)})
	require.NoError(t, err)
	tr.flat.Set(domain.BoardBackupKey, rec)

	got, ok := e.Recover(context.Background())

	require.True(t, ok)
	require.Len(t, got.Board.Tasks, 1)
	assert.Equal(t, domain.StatusNotStarted, got.Board.Tasks[0].Status, "recovered boards are migrated")
}

func TestEngine_Recover_Exhausted(t *testing.T) {
	e, tr, _ := newEngine(t, time.Second)
	tr.structured.ReadErr = errors.New("disk gone")
	tr.flat.Set(domain.BoardBackupKey, []byte("{{{"))

	_, ok := e.Recover(context.Background())

	assert.False(t, ok)
}

func TestEngine_Recover_HangingTierIsSkipped(t *testing.T) {
	e, tr, _ := newEngine(t, 50*time.Millisecond)
	tr.structured.SetHang(true)
	tr.flat.Set(domain.BoardBackupKey, record(t, boardB()))

	got, ok := e.Recover(context.Background())

	require.True(t, ok)
	assert.Equal(t, domain.BackendJSONFile, got.Source)
}

func TestEngine_ClearAll(t *testing.T) {
	e, tr, logger := newEngine(t, time.Second)
	e.Backup(context.Background(), boardB())
	tr.flat.ClearErr = errors.New("locked")

	e.ClearAll(context.Background())

	_, ok := tr.structured.Get(domain.BoardBackupKey)
	assert.False(t, ok)
	_, ok = tr.flat.Get(domain.BoardBackupKey)
	assert.True(t, ok)
	_, ok = tr.tiny.Get(domain.BoardBackupKey)
	assert.False(t, ok)
	assert.True(t, logger.Contains("WARN", "locked"))
}

func TestEngine_Inspect(t *testing.T) {
	e, tr, _ := newEngine(t, time.Second)
	tr.structured.Set(domain.BoardBackupKey, record(t, boardB()))
	tr.flat.Set(domain.BoardBackupKey, []byte(`{"data":"x","hash":"bad","timestamp":1}`))

	st := e.Inspect(context.Background())

	require.Len(t, st, 3)
	assert.True(t, st[0].Present)
	assert.True(t, st[0].ChecksumOK)
	assert.True(t, st[0].Valid)
	assert.Equal(t, now, st[0].Timestamp)
	assert.True(t, st[1].Present)
	assert.False(t, st[1].ChecksumOK)
	assert.False(t, st[2].Present)
	assert.NoError(t, st[2].Err)
}

func TestEngine_EndToEnd_RealTiers(t *testing.T) {
	dir := t.TempDir()
	sqlite, err := sqlitestore.New(filepath.Join(dir, sqlitestore.DBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	flat := jsonstore.New(filepath.Join(dir, jsonstore.FileName))
	tiny := cookiestore.New(filepath.Join(dir, cookiestore.FileName), &testutil.MockClock{NowTime: now})
	e := New([]domain.StorageAdapter{sqlite, flat, tiny}, &testutil.MockClock{NowTime: now}, nil, time.Second)
	ctx := context.Background()

	out := e.Backup(ctx, boardB())
	require.True(t, out.Success)
	for _, r := range out.Results {
		assert.NoError(t, r.Err, r.Tier)
	}

	// Primary-tier data loss: recovery falls through to the flat tier.
	require.NoError(t, sqlite.Clear(ctx, domain.BoardBackupKey))
	got, ok := e.Recover(ctx)
	require.True(t, ok)
	assert.Equal(t, domain.BackendJSONFile, got.Source)
	assert.Equal(t, codec.Migrate(boardB()), got.Board)

	require.NoError(t, flat.Clear(ctx, domain.BoardBackupKey))
	got, ok = e.Recover(ctx)
	require.True(t, ok)
	assert.Equal(t, domain.BackendCookie, got.Source)
}

func TestEngine_Backup_OversizedBoardSkipsTinyTier(t *testing.T) {
	dir := t.TempDir()
	flat := jsonstore.New(filepath.Join(dir, jsonstore.FileName))
	tiny := cookiestore.New(filepath.Join(dir, cookiestore.FileName), &testutil.MockClock{NowTime: now})
	e := New([]domain.StorageAdapter{flat, tiny}, &testutil.MockClock{NowTime: now}, nil, time.Second)

	big := boardB()
	for i := 0; i < 200; i++ {
		big = big.AddTask(uuid.NewString(), "col-1", uuid.NewString(), now)
	}

	out := e.Backup(context.Background(), big)

	assert.True(t, out.Success)
	assert.NoError(t, out.Results[0].Err)
	assert.ErrorIs(t, out.Results[1].Err, domain.ErrPayloadTooLarge)
}
