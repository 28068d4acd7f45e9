package notify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvidela/monedero/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notifications.json")
	s := NewStore(path)
	require.NoError(t, s.Init(SchemaVersion))
	return s
}

func TestStore_InitMissingFileStartsEmpty(t *testing.T) {
	s := testStore(t)
	assert.Empty(t, s.Read())
}

func TestStore_WriteReadRoundTrip(t *testing.T) {
	s := testStore(t)

	items := []Item{
		{ID: "a", Title: "Recurring transactions", Message: "3 created", Kind: model.EventSuccess, CreatedAt: time.Now().UTC()},
		{ID: "b", Title: "Undo", Message: "reverted deletion", Kind: model.EventInfo, CreatedAt: time.Now().UTC()},
	}
	require.NoError(t, s.Write(items))

	got := s.Read()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)

	// A fresh store over the same file sees the persisted items.
	reopened := NewStore(s.path)
	require.NoError(t, reopened.Init(SchemaVersion))
	assert.Len(t, reopened.Read(), 2)
}

func TestStore_WriteRequiresInit(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "n.json"))
	assert.Error(t, s.Write(nil))
}

func TestStore_SubscribePublishesOnWrite(t *testing.T) {
	s := testStore(t)
	sub := s.Subscribe()

	require.NoError(t, s.Write([]Item{{ID: "a", Title: "T", Message: "M", Kind: model.EventInfo}}))

	select {
	case items := <-sub:
		require.Len(t, items, 1)
		assert.Equal(t, "a", items[0].ID)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the write")
	}
}

func TestStore_MigratesV1Cache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifications.json")
	v1 := `{"schema_version":1,"msgs":[{"id":"m1","title":"Hola","text":"mensaje viejo","kind":"info"}]}`
	require.NoError(t, os.WriteFile(path, []byte(v1), 0600))

	s := NewStore(path)
	require.NoError(t, s.Init(SchemaVersion))

	items := s.Read()
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].ID)
	assert.Equal(t, "mensaje viejo", items[0].Message, "v1 text field renamed to message")
	assert.Equal(t, model.EventKind("info"), items[0].Kind)
}

func TestStore_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifications.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version":99,"items":[]}`), 0600))

	s := NewStore(path)
	assert.Error(t, s.Init(SchemaVersion))
}

func TestSink_PushPrependsAndTrims(t *testing.T) {
	s := testStore(t)
	sink := NewSink(s)

	for i := 0; i < MaxItems+10; i++ {
		sink.Push(model.Event{ID: "e", Title: "T", Message: "M", Kind: model.EventInfo})
	}
	assert.Len(t, s.Read(), MaxItems)

	sink.Push(model.Event{ID: "latest", Title: "T", Message: "M", Kind: model.EventSuccess})
	items := s.Read()
	assert.Equal(t, "latest", items[0].ID, "newest notification first")
	assert.Len(t, items, MaxItems)
}
