package scoreboard

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"domjudge-tool/lib/htmlutil"
	"domjudge-tool/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// the public scoreboard needs no credentials, one shared client is fine
var client = resty.New()

func init() {
	telemetry.InstrumentResty(client, "scrapers/domjudge/scoreboard")
}

func headerRow(doc *goquery.Document) ([]string, error) {
	cells := doc.Find("tr.scoreheader th")
	if cells.Length() == 0 {
		return nil, fmt.Errorf("scoreboard page has no tr.scoreheader row")
	}

	headers := []string{"Rank", "TeamAffiliation", "TeamName", "SolvedCount", "Score"}
	cells.Each(func(_ int, s *goquery.Selection) {
		title := s.AttrOr("title", "")
		if strings.HasPrefix(title, "problem ") {
			headers = append(headers, strings.TrimPrefix(title, "problem "))
		}
	})
	return headers, nil
}

func scoreRow(row *goquery.Selection) []string {
	data := []string{
		htmlutil.CleanText(row.Find("td.scorepl").Text()),
		htmlutil.CleanText(row.Find("td.scoretn span.univ").Text()),
	}

	// team name is the tail of the first span in the team cell
	teamWords := strings.Fields(row.Find("td.scoretn span").First().Text())
	teamName := ""
	if len(teamWords) > 0 {
		teamName = teamWords[len(teamWords)-1]
	}
	data = append(data,
		teamName,
		htmlutil.CleanText(row.Find("td.scorenc").Text()),
		htmlutil.CleanText(row.Find("td.scorett").Text()),
	)

	row.Find("td.score_cell").Each(func(_ int, cell *goquery.Selection) {
		fields := strings.Fields(cell.Text())
		switch len(fields) {
		case 2:
			data = append(data, fmt.Sprintf("%s %s", fields[0], fields[1]))
		case 3:
			data = append(data, fmt.Sprintf("%s/%s %s", fields[0], fields[1], fields[2]))
		default:
			data = append(data, "")
		}
	})
	return data
}

func summaryRow(row *goquery.Selection) []string {
	data := []string{"", "", ""}
	data = append(data, htmlutil.CleanText(row.Find("td.scorenc").Text()), "")
	row.Find("td").Slice(3, row.Find("td").Length()).Each(func(_ int, cell *goquery.Selection) {
		data = append(data, strings.Join(strings.Fields(cell.Text()), "/"))
	})
	return data
}

func parse(doc *goquery.Document) ([][]string, error) {
	headers, err := headerRow(doc)
	if err != nil {
		return nil, err
	}
	data := [][]string{headers}

	rows := doc.Find("table.scoreboard tbody tr")
	if rows.Length() == 0 {
		return nil, fmt.Errorf("scoreboard page has no table.scoreboard rows")
	}
	rows.Each(func(_ int, row *goquery.Selection) {
		if row.Find("td#scoresummary").Length() > 0 {
			data = append(data, summaryRow(row))
			return
		}
		data = append(data, scoreRow(row))
	})

	return data, nil
}

// Scrape downloads a public scoreboard page and flattens it into CSV
// shaped rows, header first.
func Scrape(ctx context.Context, url string) ([][]string, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("GET %s: status %d", url, res.StatusCode())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}
	return parse(doc)
}

// ExportCSV scrapes a scoreboard and writes it to
// {pathPrefix}/{filename}.csv, returning the written path.
func ExportCSV(ctx context.Context, url, filename, pathPrefix string) (string, error) {
	data, err := Scrape(ctx, url)
	if err != nil {
		return "", err
	}

	dest := filename + ".csv"
	if pathPrefix != "" {
		dest = filepath.Join(pathPrefix, dest)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	out := csv.NewWriter(f)
	err = out.WriteAll(data)
	if err != nil {
		return "", err
	}
	return dest, nil
}
