package web

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"domjudge-tool/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
)

const (
	userNameColumn = 2
	teamNameColumn = 3
)

type rowFilter struct {
	listPath   string
	nameColumn int
	// names are matched case-insensitively. exclude wins over include;
	// an empty include keeps every row not excluded.
	include []string
	exclude []string
}

func toSet(names []string) map[string]bool {
	set := map[string]bool{}
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set
}

// closestName is used to build a "did you mean" hint when an include
// filter matches nothing at all.
func closestName(wanted string, seen []string) string {
	best := ""
	bestDistance := -1
	for _, name := range seen {
		d := matchr.Levenshtein(strings.ToLower(wanted), strings.ToLower(name))
		if bestDistance < 0 || d < bestDistance {
			best = name
			bestDistance = d
		}
	}
	return best
}

// deleteRows scrapes a jury listing table, keeps rows passing the
// name filter and fires each row's delete action. Row failures are
// independent, successes are not rolled back.
func (c *Client) deleteRows(ctx context.Context, filter rowFilter) error {
	doc, _, err := c.getPage(ctx, filter.listPath)
	if err != nil {
		return err
	}

	include := toSet(filter.include)
	exclude := toSet(filter.exclude)

	var deleteLinks []string
	var seenNames []string
	var structural error
	doc.Find("table tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() <= filter.nameColumn {
			structural = fmt.Errorf(
				"%s: row %d has %d columns, expected a name in column %d",
				filter.listPath, i, cells.Length(), filter.nameColumn,
			)
			return false
		}
		name := htmlutil.CleanText(cells.Eq(filter.nameColumn).Text())
		seenNames = append(seenNames, name)

		normalized := strings.ToLower(name)
		if exclude[normalized] {
			return true
		}
		if len(include) > 0 && !include[normalized] {
			return true
		}

		link, ok := row.Find(`a[href$="/delete"]`).Attr("href")
		if !ok {
			structural = fmt.Errorf(
				"%s: row %q has no delete action link",
				filter.listPath, name,
			)
			return false
		}
		deleteLinks = append(deleteLinks, link)
		return true
	})
	if structural != nil {
		return structural
	}

	if len(include) > 0 && len(deleteLinks) == 0 {
		hint := ""
		if len(seenNames) > 0 && len(filter.include) > 0 {
			hint = fmt.Sprintf(", closest listed name is %q", closestName(filter.include[0], seenNames))
		}
		return fmt.Errorf("%s: no rows matched the include filter %v%s", filter.listPath, filter.include, hint)
	}

	var errlist []error
	var errlock sync.Mutex
	var wg sync.WaitGroup
	for _, link := range deleteLinks {
		wg.Add(1)
		go func(link string) {
			defer wg.Done()
			_, err := c.Http.R().
				SetContext(ctx).
				Post(link)
			if err != nil {
				errlock.Lock()
				errlist = append(errlist, fmt.Errorf("delete %s: %w", link, err))
				errlock.Unlock()
			}
		}(link)
	}
	wg.Wait()

	return errors.Join(errlist...)
}
