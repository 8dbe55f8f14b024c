package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salestrack/internal/model"
	"salestrack/internal/source"
)

func TestLoaderLoadMonth(t *testing.T) {
	src := source.NewMemory()
	src.SetSheet("2025.01", [][]string{
		testColumns,
		{"美洲", "本月预计发货订单", "Alice", "10", "X1", "3", "2"},
		{"美洲", "", "", "", "X2", "1", ""},
	})
	src.SetSheet("2025.02", [][]string{
		testColumns[:6],
		{"美洲", "本月预计发货订单", "Alice", "10", "X1", "3"},
	})

	l, err := NewLayout(testColumns)
	require.NoError(t, err)
	loader := NewLoader(src, source.MustParseRange("A1:T1000"), l, false)

	rows, err := loader.LoadMonth(context.Background(), "2025.01")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].RowNo)
	assert.Equal(t, 3, rows[1].RowNo)
	assert.Equal(t, "X2", rows[1].OrderNumber)

	_, err = loader.LoadMonth(context.Background(), "2025.02")
	var mismatch *model.SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "2025.02", mismatch.Month)

	_, err = loader.LoadMonth(context.Background(), "2025.03")
	require.ErrorIs(t, err, model.ErrSourceUnavailable)
}
