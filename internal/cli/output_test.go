package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerylistapp/grocerylist/internal/domain"
)

func TestRender(t *testing.T) {
	item := domain.Item{UserIDCategoryID: "u1c1", ItemID: "i1", Text: "Eggs", Quantity: 12}

	tests := []struct {
		format string
		want   []string
	}{
		{formatJSON, []string{`"ItemId":"i1"`, `"Quantity":12`}},
		{formatYAML, []string{"ItemId: i1", "Quantity: 12", "Text: Eggs"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, render(&buf, tt.format, item))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	err := render(&bytes.Buffer{}, "xml", struct{}{})
	require.Error(t, err)
}
