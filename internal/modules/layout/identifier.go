// Package layout holds the page/item layout policy: the composite item
// identifier scheme, content classification, the responsive geometry rules,
// and the manipulation write-back arithmetic. Everything here is pure; the
// item service applies the results against the store.
package layout

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/scrapbook-space/core/internal/models"
)

// MalformedIDError reports an item identifier that does not follow the
// "{pageNumber}_{token}" convention. Such ids are always rejected; the
// service never reconstructs a best-guess key.
type MalformedIDError struct {
	ID string
}

func (e *MalformedIDError) Error() string {
	return fmt.Sprintf("malformed item id %q: expected \"{pageNumber}_{token}\"", e.ID)
}

// MakeItemID builds the composite identifier for an item on the given page.
func MakeItemID(pageNumber int, token string) string {
	return strconv.Itoa(pageNumber) + "_" + token
}

// PageNumberOf extracts the page number from a composite identifier: the
// segment before the first underscore, which must be a positive integer.
func PageNumberOf(id string) (int, error) {
	head, _, found := strings.Cut(id, "_")
	if !found {
		return 0, &MalformedIDError{ID: id}
	}
	n, err := strconv.Atoi(head)
	if err != nil || n < 1 {
		return 0, &MalformedIDError{ID: id}
	}
	return n, nil
}

// GroupByPage partitions items by the page number of their identifier,
// preserving input order within each group. Items with malformed ids are
// excluded and returned separately so callers can report them.
func GroupByPage(items []models.ItemModel) (map[int][]models.ItemModel, []string) {
	groups := make(map[int][]models.ItemModel, len(items))
	var malformed []string
	for _, it := range items {
		page, err := PageNumberOf(it.ID)
		if err != nil {
			malformed = append(malformed, it.ID)
			continue
		}
		groups[page] = append(groups[page], it)
	}
	return groups, malformed
}

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewToken generates the opaque identifier suffix: a base-36 millisecond
// timestamp followed by a random base-36 tail, matching the historical
// upload-time format.
func NewToken(nowMillis int64) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatInt(nowMillis, 36))
	for i := 0; i < 11; i++ {
		sb.WriteByte(tokenAlphabet[rand.IntN(len(tokenAlphabet))])
	}
	return sb.String()
}
