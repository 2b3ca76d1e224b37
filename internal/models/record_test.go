package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordProjectRendersMissingColumnsAsNull(t *testing.T) {
	rec := Record{"id": int64(1), "code": "C-01"}
	projected := rec.Project([]string{"id", "code", "missing"})

	require.Len(t, projected, 3)
	assert.Equal(t, int64(1), projected["id"])
	assert.Equal(t, "C-01", projected["code"])
	v, ok := projected["missing"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestRecordStrings(t *testing.T) {
	rec := Record{"id": int64(7), "name": "Alice", "class_id": nil}
	out := rec.Strings([]string{"id", "name", "class_id"})
	assert.Equal(t, map[string]string{"id": "7", "name": "Alice", "class_id": ""}, out)
}

func TestCoerceID(t *testing.T) {
	tests := []struct {
		in      interface{}
		want    int64
		wantErr bool
	}{
		{float64(3), 3, false},
		{int(5), 5, false},
		{int64(9), 9, false},
		{" 12 ", 12, false},
		{"abc", 0, true},
		{true, 0, true},
		{nil, 0, true},
	}
	for _, tt := range tests {
		got, err := CoerceID(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
		} else {
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestNormalizeReference(t *testing.T) {
	assert.Nil(t, NormalizeReference(nil))
	assert.Nil(t, NormalizeReference(""))
	assert.Nil(t, NormalizeReference("0"))
	assert.Nil(t, NormalizeReference(0))
	assert.Nil(t, NormalizeReference(float64(0)))
	assert.Nil(t, NormalizeReference("not-a-number"))
	assert.Nil(t, NormalizeReference(true))

	if got := NormalizeReference("42"); assert.NotNil(t, got) {
		assert.Equal(t, int64(42), *got)
	}
	if got := NormalizeReference(float64(7)); assert.NotNil(t, got) {
		assert.Equal(t, int64(7), *got)
	}
}

func TestEntityHasColumn(t *testing.T) {
	assert.True(t, ClassEntity.HasColumn("description"))
	assert.False(t, ClassEntity.HasColumn("fullname"))
	assert.True(t, StudentEntity.IsReference("class_id"))
	assert.False(t, StudentEntity.IsReference("code"))
}
