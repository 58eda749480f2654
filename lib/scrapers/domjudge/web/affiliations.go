package web

import (
	"context"
	"fmt"

	"domjudge-tool/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

type Affiliation struct {
	Id        string
	Shortname string
	Name      string
	Country   string
}

const (
	affiliationIdColumn        = 0
	affiliationShortnameColumn = 1
	affiliationNameColumn      = 2
	affiliationCountryColumn   = 3
)

// CreateAffiliation adds a team affiliation through the jury UI and
// returns the record as submitted, with the id taken from the redirect
// target. The server is not re-queried, so silent normalization of the
// submitted values (e.g. trimming) goes unnoticed here.
func (c *Client) CreateAffiliation(ctx context.Context, shortname, name, country string) (Affiliation, error) {
	ctx, span := tracer.Start(ctx, "client:CreateAffiliation")
	defer span.End()

	form, err := c.formSnapshot(ctx, pathAffiliationAdd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch add-affiliation form")
		return Affiliation{}, err
	}

	form.Set("team_affiliation[shortname]", shortname)
	form.Set("team_affiliation[name]", name)
	form.Set("team_affiliation[country]", country)
	form.Set("team_affiliation[comments]", "")

	res, err := c.postForm(ctx, pathAffiliationAdd, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit add-affiliation form")
		return Affiliation{}, err
	}
	if !accepted(res, pathAffiliationAdd) {
		span.SetStatus(codes.Error, "add-affiliation form rejected")
		return Affiliation{}, fmt.Errorf("create affiliation %q: form submission rejected", shortname)
	}

	return Affiliation{
		Id:        lastPathSegment(finalPath(res)),
		Shortname: shortname,
		Name:      name,
		Country:   country,
	}, nil
}

// Affiliations scrapes the jury affiliations table. There is no REST
// endpoint for these.
func (c *Client) Affiliations(ctx context.Context) ([]Affiliation, error) {
	ctx, span := tracer.Start(ctx, "client:Affiliations")
	defer span.End()

	doc, _, err := c.getPage(ctx, pathAffiliationList)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch affiliations page")
		return nil, err
	}

	var affiliations []Affiliation
	var structural error
	doc.Find("table tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() <= affiliationCountryColumn {
			structural = fmt.Errorf(
				"%s: row %d has %d columns, expected at least %d",
				pathAffiliationList, i, cells.Length(), affiliationCountryColumn+1,
			)
			return false
		}
		affiliations = append(affiliations, Affiliation{
			Id:        htmlutil.CleanText(cells.Eq(affiliationIdColumn).Text()),
			Shortname: htmlutil.CleanText(cells.Eq(affiliationShortnameColumn).Text()),
			Name:      htmlutil.CleanText(cells.Eq(affiliationNameColumn).Text()),
			Country:   htmlutil.CleanText(cells.Eq(affiliationCountryColumn).Text()),
		})
		return true
	})
	if structural != nil {
		span.SetStatus(codes.Error, "affiliations table shape mismatch")
		return nil, structural
	}

	return affiliations, nil
}
