package layout

import (
	"testing"
	"time"

	"github.com/scrapbook-space/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageNumberRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		page  int
		token string
	}{
		{1, "abc123"},
		{42, "lx9f2_tail_with_underscores"},
		{7, NewToken(time.Now().UnixMilli())},
	} {
		id := MakeItemID(tc.page, tc.token)
		page, err := PageNumberOf(id)
		require.NoError(t, err, id)
		assert.Equal(t, tc.page, page)
	}
}

func TestPageNumberOfMalformed(t *testing.T) {
	for _, id := range []string{"", "noseparator", "_leading", "x_token", "0_token", "-3_token", "1.5_token"} {
		_, err := PageNumberOf(id)
		assert.Error(t, err, id)
		var malformed *MalformedIDError
		assert.ErrorAs(t, err, &malformed, id)
	}
}

func TestGroupByPagePreservesOrder(t *testing.T) {
	items := []models.ItemModel{
		{ID: "1_a"},
		{ID: "2_b"},
		{ID: "1_c"},
	}

	groups, malformed := GroupByPage(items)

	assert.Empty(t, malformed)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"1_a", "1_c"}, idsOf(groups[1]))
	assert.Equal(t, []string{"2_b"}, idsOf(groups[2]))
}

func TestGroupByPageReportsMalformed(t *testing.T) {
	items := []models.ItemModel{
		{ID: "1_a"},
		{ID: "broken"},
		{ID: "zz_q"},
	}

	groups, malformed := GroupByPage(items)

	assert.Equal(t, []string{"broken", "zz_q"}, malformed)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"1_a"}, idsOf(groups[1]))
}

func TestNewTokenIsUniqueEnough(t *testing.T) {
	now := time.Now().UnixMilli()
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		tok := NewToken(now)
		assert.False(t, seen[tok])
		seen[tok] = true
	}
}

func idsOf(items []models.ItemModel) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
