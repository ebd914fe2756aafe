package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/oibkeeper/internal/client/models"
	"github.com/dmitrijs2005/oibkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/oibkeeper/internal/client/storage"
	"github.com/dmitrijs2005/oibkeeper/internal/common"
	"github.com/dmitrijs2005/oibkeeper/internal/logging"
	"github.com/dmitrijs2005/oibkeeper/internal/metrics"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- recording logger ----

type logRecord struct {
	level string
	msg   string
	args  []any
}

// attr returns the value logged for key, or nil.
func (r logRecord) attr(key string) any {
	for i := 0; i+1 < len(r.args); i += 2 {
		if r.args[i] == key {
			return r.args[i+1]
		}
	}
	return nil
}

// recordingLogger keeps every record; children made by With share the slice.
type recordingLogger struct {
	records *[]logRecord
	with    []any
}

func (l *recordingLogger) log(level, msg string, args []any) {
	all := append(append([]any{}, l.with...), args...)
	*l.records = append(*l.records, logRecord{level: level, msg: msg, args: all})
}

func (l *recordingLogger) Debug(_ context.Context, msg string, args ...any) { l.log("debug", msg, args) }
func (l *recordingLogger) Info(_ context.Context, msg string, args ...any)  { l.log("info", msg, args) }
func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { l.log("warn", msg, args) }
func (l *recordingLogger) Error(_ context.Context, msg string, args ...any) { l.log("error", msg, args) }

func (l *recordingLogger) With(args ...any) logging.Logger {
	return &recordingLogger{records: l.records, with: append(append([]any{}, l.with...), args...)}
}

func (l *recordingLogger) at(level string) []logRecord {
	var out []logRecord
	for _, r := range *l.records {
		if r.level == level {
			out = append(out, r)
		}
	}
	return out
}

// ---- fake repository ----

type fakeRepo struct {
	data   map[string][]byte
	writes int

	getErr error
	setErr error
	delErr error
}

var _ kv.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo { return &fakeRepo{data: map[string][]byte{}} }

func (f *fakeRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeRepo) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.writes++
	f.data[key] = value
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.writes++
	delete(f.data, key)
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, key string, fn kv.UpdateFunc) error {
	old, err := f.Get(ctx, key)
	if err != nil {
		return err
	}
	v, err := fn(old)
	if err != nil {
		return err
	}
	return f.Set(ctx, key, v)
}

func values(entries []models.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}

// ---- tests ----

func TestAdd_ThenList_RoundTrip(t *testing.T) {
	s := NewStore(newFakeRepo(), "", nil, nil)
	ctx := context.Background()

	got := s.Add(ctx, "12345678903", 1000)
	require.Equal(t, models.Entry{Value: "12345678903", CreatedAt: 1000}, got)

	list := s.List(ctx)
	require.Len(t, list, 1)
	assert.Empty(t, cmp.Diff(models.Entry{Value: "12345678903", CreatedAt: 1000, Pinned: false}, list[0]))
}

func TestAdd_AcceptsAnyString(t *testing.T) {
	s := NewStore(newFakeRepo(), "", nil, nil)
	ctx := context.Background()

	s.Add(ctx, "not-an-oib", 1)
	require.Equal(t, []string{"not-an-oib"}, values(s.List(ctx)))
}

func TestList_SortedNewestFirstRegardlessOfInsertion(t *testing.T) {
	repo := newFakeRepo()
	s := NewStore(repo, "", nil, nil)
	ctx := context.Background()

	s.Add(ctx, "t2", 2000)
	s.Add(ctx, "t1", 1000)
	s.Add(ctx, "t3", 3000)

	require.Equal(t, []string{"t3", "t2", "t1"}, values(s.List(ctx)))

	// storage keeps insertion order
	stored, err := decode(repo.data[DefaultKey])
	require.NoError(t, err)
	require.Equal(t, []string{"t2", "t1", "t3"}, values(stored))
}

func TestList_TiesKeepStoredOrder(t *testing.T) {
	s := NewStore(newFakeRepo(), "", nil, nil)
	ctx := context.Background()

	s.Add(ctx, "a", 5)
	s.Add(ctx, "b", 5)
	s.Add(ctx, "c", 9)

	require.Equal(t, []string{"c", "a", "b"}, values(s.List(ctx)))
}

func TestList_MissingPinnedDefaultsFalse(t *testing.T) {
	repo := newFakeRepo()
	repo.data[DefaultKey] = []byte(`[{"value":"x","createdAt":1},{"value":"y","createdAt":2,"pinned":true}]`)
	s := NewStore(repo, "", nil, nil)

	list := s.List(context.Background())
	require.Equal(t, []models.Entry{
		{Value: "y", CreatedAt: 2, Pinned: true},
		{Value: "x", CreatedAt: 1, Pinned: false},
	}, list)
}

func TestList_ReadErrorReturnsEmpty(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = errors.New("io error")
	m := metrics.New()
	log := &recordingLogger{records: &[]logRecord{}}
	s := NewStore(repo, "", log, m)

	list := s.List(context.Background())
	require.NotNil(t, list)
	require.Empty(t, list)
	n, err := testutil.GatherAndCount(m.Registry(), "oib_store_operations_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	errs := log.at("error")
	require.Len(t, errs, 1)
	assert.Equal(t, "list", errs[0].attr("op"))
	assert.Equal(t, DefaultKey, errs[0].attr("key"))
	assert.ErrorIs(t, errs[0].attr("err").(error), repo.getErr)
}

func TestSetPinned_NotFoundLogsWarning(t *testing.T) {
	repo := newFakeRepo()
	log := &recordingLogger{records: &[]logRecord{}}
	s := NewStore(repo, "", log, nil)
	ctx := context.Background()
	s.Add(ctx, "x", 1)

	_, err := s.SetPinned(ctx, "missing", true)
	require.ErrorIs(t, err, common.ErrorNotFound)

	assert.Empty(t, log.at("error"))
	warns := log.at("warn")
	require.Len(t, warns, 1)
	assert.Equal(t, "set_pinned", warns[0].attr("op"))
	assert.Equal(t, "missing", warns[0].attr("value"))
}

func TestList_CorruptDataReturnsEmpty(t *testing.T) {
	repo := newFakeRepo()
	repo.data[DefaultKey] = []byte(`{not json`)
	s := NewStore(repo, "", nil, nil)

	require.Empty(t, s.List(context.Background()))
}

func TestAdd_CorruptDataIsNotOverwritten(t *testing.T) {
	repo := newFakeRepo()
	repo.data[DefaultKey] = []byte(`{not json`)
	s := NewStore(repo, "", nil, nil)

	s.Add(context.Background(), "x", 1)
	require.Equal(t, []byte(`{not json`), repo.data[DefaultKey])
	require.Zero(t, repo.writes)
}

func TestAdd_WriteErrorIsAbsorbed(t *testing.T) {
	repo := newFakeRepo()
	repo.setErr = errors.New("quota exceeded")
	s := NewStore(repo, "", nil, nil)

	e := s.Add(context.Background(), "x", 1)
	require.Equal(t, "x", e.Value)
	require.Empty(t, s.List(context.Background()))
}

func TestSetPinned_TwiceLeavesOnePinnedEntry(t *testing.T) {
	s := NewStore(newFakeRepo(), "", nil, nil)
	ctx := context.Background()

	s.Add(ctx, "v", 1)
	s.Add(ctx, "w", 2)

	_, err := s.SetPinned(ctx, "v", true)
	require.NoError(t, err)
	list, err := s.SetPinned(ctx, "v", true)
	require.NoError(t, err)

	var pinned []models.Entry
	for _, e := range list {
		if e.Value == "v" {
			pinned = append(pinned, e)
		}
	}
	require.Len(t, pinned, 1)
	require.True(t, pinned[0].Pinned)
	require.Equal(t, []string{"w", "v"}, values(list))
}

func TestSetPinned_Unpin(t *testing.T) {
	s := NewStore(newFakeRepo(), "", nil, nil)
	ctx := context.Background()

	s.Add(ctx, "v", 1)
	_, err := s.SetPinned(ctx, "v", true)
	require.NoError(t, err)
	list, err := s.SetPinned(ctx, "v", false)
	require.NoError(t, err)
	require.False(t, list[0].Pinned)
}

func TestSetPinned_FirstMatchOnDuplicates(t *testing.T) {
	repo := newFakeRepo()
	s := NewStore(repo, "", nil, nil)
	ctx := context.Background()

	s.Add(ctx, "dup", 1)
	s.Add(ctx, "dup", 2)

	_, err := s.SetPinned(ctx, "dup", true)
	require.NoError(t, err)

	stored, err := decode(repo.data[DefaultKey])
	require.NoError(t, err)
	require.True(t, stored[0].Pinned)
	require.False(t, stored[1].Pinned)
}

func TestSetPinned_NotFoundOnEmptyStore(t *testing.T) {
	repo := newFakeRepo()
	m := metrics.New()
	s := NewStore(repo, "", nil, m)

	list, err := s.SetPinned(context.Background(), "00000000000", true)
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.Nil(t, list)
	require.Zero(t, repo.writes)
	_, ok := repo.data[DefaultKey]
	require.False(t, ok)
}

func TestSetPinned_StorageError(t *testing.T) {
	repo := newFakeRepo()
	s := NewStore(repo, "", nil, nil)
	ctx := context.Background()
	s.Add(ctx, "v", 1)

	repo.setErr = errors.New("quota exceeded")
	_, err := s.SetPinned(ctx, "v", true)
	require.ErrorIs(t, err, common.ErrorStorage)
	require.False(t, s.List(ctx)[0].Pinned)
}

func TestClearUnpinned_KeepsOnlyPinned(t *testing.T) {
	s := NewStore(newFakeRepo(), "", nil, nil)
	ctx := context.Background()

	s.Add(ctx, "A", 1)
	s.Add(ctx, "B", 2)
	_, err := s.SetPinned(ctx, "A", true)
	require.NoError(t, err)

	s.ClearUnpinned(ctx)
	require.Equal(t, []models.Entry{{Value: "A", CreatedAt: 1, Pinned: true}}, s.List(ctx))

	s.ClearUnpinned(ctx)
	require.Equal(t, []models.Entry{{Value: "A", CreatedAt: 1, Pinned: true}}, s.List(ctx))
}

func TestClearAll_RemovesPinnedToo(t *testing.T) {
	repo := newFakeRepo()
	s := NewStore(repo, "", nil, nil)
	ctx := context.Background()

	s.Add(ctx, "A", 1)
	_, err := s.SetPinned(ctx, "A", true)
	require.NoError(t, err)

	s.ClearAll(ctx)
	require.Empty(t, s.List(ctx))
	_, ok := repo.data[DefaultKey]
	require.False(t, ok)
}

func TestClear_ErrorsAreAbsorbed(t *testing.T) {
	repo := newFakeRepo()
	s := NewStore(repo, "", logging.Nop(), nil)
	ctx := context.Background()
	s.Add(ctx, "A", 1)

	repo.setErr = errors.New("ro")
	repo.delErr = errors.New("ro")
	s.ClearUnpinned(ctx)
	s.ClearAll(ctx)

	require.Equal(t, []string{"A"}, values(s.List(ctx)))
}

func TestStore_CustomKey(t *testing.T) {
	repo := newFakeRepo()
	s := NewStore(repo, "other", nil, nil)
	s.Add(context.Background(), "x", 1)

	_, ok := repo.data["other"]
	require.True(t, ok)
}

func TestStore_SQLiteBackend(t *testing.T) {
	ctx := context.Background()
	b, err := storage.Open(ctx, filepath.Join(t.TempDir(), "oib.db"))
	require.NoError(t, err)
	defer b.Close()

	s := NewStore(b.Repo, "", nil, nil)
	s.Add(ctx, "A", 1)
	s.Add(ctx, "B", 2)

	_, err = s.SetPinned(ctx, "missing", true)
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.SetPinned(ctx, "A", true)
	require.NoError(t, err)
	s.ClearUnpinned(ctx)

	require.Equal(t, []models.Entry{{Value: "A", CreatedAt: 1, Pinned: true}}, s.List(ctx))
}

func TestFilter(t *testing.T) {
	entries := []models.Entry{{Value: "12345678903"}, {Value: "69435151530"}, {Value: "ABC"}}

	require.Equal(t, []string{"12345678903"}, values(Filter(entries, "234")))
	require.Equal(t, []string{"ABC"}, values(Filter(entries, "abc")))
	require.Len(t, Filter(entries, ""), 3)
	require.Empty(t, Filter(entries, "999"))
}

func TestSplit(t *testing.T) {
	entries := []models.Entry{
		{Value: "a", Pinned: true},
		{Value: "b"},
		{Value: "c", Pinned: true},
	}
	pinned, rest := Split(entries)
	require.Equal(t, []string{"a", "c"}, values(pinned))
	require.Equal(t, []string{"b"}, values(rest))
}
