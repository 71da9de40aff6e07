package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataset = `{
	"08-20": {
		"events": [
			{"year": "1969", "description": {"zh-CN": "事件", "en-US": "Event"}, "image": "https://example.com/a.jpg"},
			{"year": "1991", "description": "plain event"}
		],
		"birthdays": [
			{"name": {"zh-CN": "名字", "en-US": "Name"}, "years": "1946-", "description": {"zh-CN": "描述"}}
		],
		"deaths": []
	},
	"01-01": {
		"events": []
	}
}`

func TestNewStoreFromJSON(t *testing.T) {
	store, err := NewStoreFromJSON([]byte(testDataset))
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, []string{"01-01", "08-20"}, store.Keys())

	rec := store.Record("08-20")
	require.Len(t, rec.Events, 2)
	assert.Equal(t, "1969", rec.Events[0].Year)
	assert.Equal(t, "Event", rec.Events[0].Description.Resolve(LocaleEN))
	assert.Equal(t, "plain event", rec.Events[1].Description.Resolve(LocaleEN))
	require.Len(t, rec.Birthdays, 1)
	assert.Equal(t, "Name", rec.Birthdays[0].Name.Resolve(LocaleEN))
	assert.NotNil(t, rec.Deaths)
}

func TestStoreMissingSectionsNormalized(t *testing.T) {
	store, err := NewStoreFromJSON([]byte(testDataset))
	require.NoError(t, err)

	rec := store.Record("01-01")
	assert.NotNil(t, rec.Events)
	assert.NotNil(t, rec.Birthdays)
	assert.NotNil(t, rec.Deaths)
}

func TestStoreAbsentKeyReturnsEmptyRecord(t *testing.T) {
	store, err := NewStoreFromJSON([]byte(testDataset))
	require.NoError(t, err)

	rec := store.Record("12-25")
	assert.True(t, rec.IsEmpty())
	assert.NotNil(t, rec.Events)
	assert.False(t, store.Has("12-25"))
}

func TestStoreRejectsBadKeys(t *testing.T) {
	_, err := NewStoreFromJSON([]byte(`{"13-01": {"events": []}}`))
	assert.Error(t, err)

	_, err = NewStoreFromJSON([]byte(`not json`))
	assert.Error(t, err)
}

func TestEmbeddedDatasetLoads(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	assert.Greater(t, store.Len(), 0)

	for _, key := range store.Keys() {
		assert.True(t, ValidDateKey(key))
	}
}

func TestServiceBatch(t *testing.T) {
	store, err := NewStoreFromJSON([]byte(testDataset))
	require.NoError(t, err)
	svc := NewService(store)

	results := svc.Batch([]string{"08-20", "99-99", "03-03", "not-a-date"})
	require.Len(t, results, 1)
	assert.Contains(t, results, "08-20")
}

func TestServiceRecord(t *testing.T) {
	store, err := NewStoreFromJSON([]byte(testDataset))
	require.NoError(t, err)
	svc := NewService(store)

	rec, found := svc.Record("08-20")
	assert.True(t, found)
	assert.Len(t, rec.Events, 2)

	rec, found = svc.Record("02-30")
	assert.False(t, found)
	assert.True(t, rec.IsEmpty())
}

func TestServiceToday(t *testing.T) {
	store, err := NewStoreFromJSON([]byte(testDataset))
	require.NoError(t, err)
	svc := NewService(store)

	now := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.Local)
	key, rec := svc.Today(now)
	assert.Equal(t, "08-20", key)
	assert.Len(t, rec.Events, 2)

	now = time.Date(2026, time.April, 4, 12, 0, 0, 0, time.Local)
	key, rec = svc.Today(now)
	assert.Equal(t, "04-04", key)
	assert.True(t, rec.IsEmpty())
}
