package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-registry-api/internal/models"
	appErrors "github.com/noah-isme/edu-registry-api/pkg/errors"
)

// fakeStore serves a fixed domain ordered by id ascending.
type fakeStore struct {
	records  []models.Record
	countErr error
}

func (f *fakeStore) Count(ctx context.Context, e models.Entity, search string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.records), nil
}

func (f *fakeStore) Search(ctx context.Context, e models.Entity, search string, order []models.OrderTerm, limit, offset int) ([]models.Record, error) {
	if offset >= len(f.records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.records) {
		end = len(f.records)
	}
	return f.records[offset:end], nil
}

func (f *fakeStore) Browse(ctx context.Context, e models.Entity, ids []int64) ([]models.Record, error) {
	byID := make(map[int64]models.Record, len(f.records))
	for _, rec := range f.records {
		byID[rec.ID()] = rec
	}
	var out []models.Record
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func domain(n int) []models.Record {
	records := make([]models.Record, 0, n)
	for i := 1; i <= n; i++ {
		records = append(records, models.Record{
			"id":   int64(i),
			"code": fmt.Sprintf("C-%02d", i),
			"name": fmt.Sprintf("Class %d", i),
		})
	}
	return records
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []models.OrderTerm
		wantErr bool
	}{
		{name: "empty is default", raw: "", want: nil},
		{name: "brackets stripped", raw: "[name:1]", want: []models.OrderTerm{{Column: "name", Desc: true}}},
		{name: "multiple pairs", raw: "name:1-code:0", want: []models.OrderTerm{{Column: "name", Desc: true}, {Column: "code", Desc: false}}},
		{name: "non-one direction is ascending", raw: "code:2", want: []models.OrderTerm{{Column: "code", Desc: false}}},
		{name: "missing colon", raw: "name", wantErr: true},
		{name: "extra tokens", raw: "name:1:2", wantErr: true},
		{name: "unknown field", raw: "salary:1", wantErr: true},
		{name: "no partial application", raw: "name:1-bogus", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrder(tt.raw, models.ClassEntity)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, appErrors.Is(err, appErrors.ErrInvalidOrder))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginateTotalPages(t *testing.T) {
	engine := NewEngine(&fakeStore{records: domain(5)}, nil)

	result, err := engine.Paginate(context.Background(), models.ClassEntity, Request{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, result.PageInfo.TotalItems)
	assert.Equal(t, 3, result.PageInfo.TotalPages)
	assert.Equal(t, 1, result.PageInfo.Current)
	assert.Equal(t, 2, result.PageInfo.Size)
}

func TestPaginateEmptyDomain(t *testing.T) {
	engine := NewEngine(&fakeStore{}, nil)

	result, err := engine.Paginate(context.Background(), models.ClassEntity, Request{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, result.PageInfo.TotalItems)
	assert.Equal(t, 0, result.PageInfo.TotalPages)
	assert.Empty(t, result.Records)
}

func TestPaginatePageOutOfRange(t *testing.T) {
	engine := NewEngine(&fakeStore{records: domain(5)}, nil)

	_, err := engine.Paginate(context.Background(), models.ClassEntity, Request{Page: 4, Size: 2})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPageOutOfRange))
}

func TestPaginatePinnedInjection(t *testing.T) {
	// 5 records, page 1 of size 2, id 5 pinned: the pinned record leads and
	// the page body follows untouched, so the effective page exceeds size.
	engine := NewEngine(&fakeStore{records: domain(5)}, nil)

	result, err := engine.Paginate(context.Background(), models.ClassEntity, Request{
		Page: 1, Size: 2, PinnedIDs: []int64{5}, Columns: []string{"id"},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Equal(t, int64(5), result.Records[0]["id"])
	assert.Equal(t, int64(1), result.Records[1]["id"])
	assert.Equal(t, int64(2), result.Records[2]["id"])
}

func TestPaginatePinnedDeduplicated(t *testing.T) {
	engine := NewEngine(&fakeStore{records: domain(5)}, nil)

	result, err := engine.Paginate(context.Background(), models.ClassEntity, Request{
		Page: 1, Size: 2, PinnedIDs: []int64{2}, Columns: []string{"id"},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, int64(2), result.Records[0]["id"])
	assert.Equal(t, int64(1), result.Records[1]["id"])
}

func TestPaginatePinnedOrderPreserved(t *testing.T) {
	engine := NewEngine(&fakeStore{records: domain(5)}, nil)

	result, err := engine.Paginate(context.Background(), models.ClassEntity, Request{
		Page: 1, Size: 1, PinnedIDs: []int64{4, 3}, Columns: []string{"id"},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Equal(t, int64(4), result.Records[0]["id"])
	assert.Equal(t, int64(3), result.Records[1]["id"])
	assert.Equal(t, int64(1), result.Records[2]["id"])
}

func TestPaginateStalePinnedIDSkipped(t *testing.T) {
	engine := NewEngine(&fakeStore{records: domain(3)}, nil)

	result, err := engine.Paginate(context.Background(), models.ClassEntity, Request{
		Page: 1, Size: 3, PinnedIDs: []int64{99}, Columns: []string{"id"},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Equal(t, int64(1), result.Records[0]["id"])
}

func TestPaginateProjectionRendersUnknownColumnAsNull(t *testing.T) {
	engine := NewEngine(&fakeStore{records: domain(1)}, nil)

	result, err := engine.Paginate(context.Background(), models.ClassEntity, Request{
		Page: 1, Size: 10, Columns: []string{"id", "haircolor"},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	v, ok := result.Records[0]["haircolor"]
	assert.True(t, ok)
	assert.Nil(t, v)
	_, ok = result.Records[0]["code"]
	assert.False(t, ok)
}

func TestPaginateInvalidOrderRejectedBeforeCount(t *testing.T) {
	store := &fakeStore{records: domain(3), countErr: fmt.Errorf("should not be reached")}
	engine := NewEngine(store, nil)

	_, err := engine.Paginate(context.Background(), models.ClassEntity, Request{Page: 1, Size: 2, Order: "broken"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidOrder))
}

func TestPaginateStoreFailureIsStorageError(t *testing.T) {
	engine := NewEngine(&fakeStore{countErr: fmt.Errorf("connection refused")}, nil)

	_, err := engine.Paginate(context.Background(), models.ClassEntity, Request{Page: 1, Size: 2})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrStorage))
}
