package web

import (
	"context"
	"fmt"
	"strconv"

	"domjudge-tool/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// ProblemInfo is the per-problem view the jury problems table exposes.
// It carries less than the REST problems endpoint but is available to
// any jury account even outside an active contest.
type ProblemInfo struct {
	Id            string
	Name          string
	TestDataCount int
}

const (
	problemIdColumn       = 0
	problemNameColumn     = 1
	problemTestDataColumn = 2
)

// Problems scrapes the jury problems table. Ids in exclude are
// dropped; a non-empty only keeps just those ids (exclude wins).
func (c *Client) Problems(ctx context.Context, exclude, only []string) ([]ProblemInfo, error) {
	ctx, span := tracer.Start(ctx, "client:Problems")
	defer span.End()

	doc, _, err := c.getPage(ctx, pathProblemList)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch problems page")
		return nil, err
	}

	// problem ids are matched exactly, unlike the name filters
	excluded := map[string]bool{}
	for _, id := range exclude {
		excluded[id] = true
	}
	included := map[string]bool{}
	for _, id := range only {
		included[id] = true
	}

	var problems []ProblemInfo
	var structural error
	doc.Find("table tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() <= problemTestDataColumn {
			structural = fmt.Errorf(
				"%s: row %d has %d columns, expected at least %d",
				pathProblemList, i, cells.Length(), problemTestDataColumn+1,
			)
			return false
		}

		id := htmlutil.CleanText(cells.Eq(problemIdColumn).Text())
		if excluded[id] {
			return true
		}
		if len(included) > 0 && !included[id] {
			return true
		}

		// the count cell holds things like "3 / 3", take the leading number
		countText := htmlutil.CleanText(cells.Eq(problemTestDataColumn).Text())
		count, _ := strconv.Atoi(firstNumber(countText))

		problems = append(problems, ProblemInfo{
			Id:            id,
			Name:          htmlutil.CleanText(cells.Eq(problemNameColumn).Text()),
			TestDataCount: count,
		})
		return true
	})
	if structural != nil {
		span.SetStatus(codes.Error, "problems table shape mismatch")
		return nil, structural
	}

	return problems, nil
}

func firstNumber(s string) string {
	start := -1
	for i, c := range s {
		if c >= '0' && c <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}
