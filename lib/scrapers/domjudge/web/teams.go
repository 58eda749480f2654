package web

import (
	"context"
	"fmt"
	"net/url"

	"domjudge-tool/lib/htmlutil"

	"go.opentelemetry.io/otel/codes"
)

// UserSeed describes the team/user pair to create through the jury UI.
type UserSeed struct {
	Username string
	Name     string
	Email    string
	Password string
}

func boolField(enabled bool) string {
	if enabled {
		return "1"
	}
	return "0"
}

func (c *Client) teamForm(ctx context.Context, path string, user UserSeed, categoryId, affiliationId string, enabled bool) (url.Values, error) {
	form, err := c.formSnapshot(ctx, path)
	if err != nil {
		return nil, err
	}

	form.Set("team[name]", user.Username)
	form.Set("team[displayName]", user.Name)
	form.Set("team[category]", categoryId)
	form.Set("team[affiliation]", affiliationId)
	form.Set("team[enabled]", boolField(enabled))

	// an unselected contests multi-select must not be submitted at all,
	// the server rejects an empty value for it
	if form.Get("team[contests][]") == "" {
		form.Del("team[contests][]")
	}

	return form, nil
}

// CreateTeamAndUser fills in the jury "add team" form, asking the
// server to create a matching user alongside it. The new team id comes
// from the post-redirect URL, the user id from the first link on the
// resulting team page; the server returns neither in a structured way.
func (c *Client) CreateTeamAndUser(ctx context.Context, user UserSeed, categoryId, affiliationId string, enabled bool) (teamId, userId string, err error) {
	ctx, span := tracer.Start(ctx, "client:CreateTeamAndUser")
	defer span.End()

	form, err := c.teamForm(ctx, pathTeamAdd, user, categoryId, affiliationId, enabled)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch add-team form")
		return "", "", err
	}
	form.Set("team[addUserForTeam]", "1")
	form.Set("team[users][0][username]", user.Username)

	res, err := c.postForm(ctx, pathTeamAdd, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit add-team form")
		return "", "", err
	}
	if !accepted(res, pathTeamAdd) {
		span.SetStatus(codes.Error, "add-team form rejected")
		return "", "", fmt.Errorf("create team for %q: form submission rejected", user.Username)
	}

	teamPage := finalPath(res)
	teamId = lastPathSegment(teamPage)

	doc, _, err := c.getPage(ctx, teamPage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch team page")
		return "", "", err
	}
	anchors := htmlutil.GetAnchors(doc.Find("div.container-fluid a"))
	if len(anchors) == 0 {
		span.SetStatus(codes.Error, "team page misses user link")
		return "", "", fmt.Errorf(
			"team %s created for %q, but its page has no user link to scrape the user id from",
			teamId, user.Username,
		)
	}
	userId = lastPathSegment(anchors[0].Href)

	return teamId, userId, nil
}

// UpdateTeam edits an existing team through the jury UI, reusing the
// current form values for everything not overlaid.
func (c *Client) UpdateTeam(ctx context.Context, teamId string, user UserSeed, categoryId, affiliationId string, enabled bool) error {
	ctx, span := tracer.Start(ctx, "client:UpdateTeam")
	defer span.End()

	editPath := formatPath(pathTeamEdit, teamId)
	form, err := c.teamForm(ctx, editPath, user, categoryId, affiliationId, enabled)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch edit-team form")
		return err
	}

	res, err := c.postForm(ctx, editPath, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit edit-team form")
		return err
	}
	if !accepted(res, editPath) {
		span.SetStatus(codes.Error, "edit-team form rejected")
		return fmt.Errorf("update team %s (%q): form submission rejected", teamId, user.Username)
	}
	return nil
}

// DeleteTeams removes teams whose name matches the include/exclude
// filters, see deleteRows for the filter semantics.
func (c *Client) DeleteTeams(ctx context.Context, include, exclude []string) error {
	ctx, span := tracer.Start(ctx, "client:DeleteTeams")
	defer span.End()

	err := c.deleteRows(ctx, rowFilter{
		listPath:   pathTeamList,
		nameColumn: teamNameColumn,
		include:    include,
		exclude:    exclude,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete teams")
	}
	return err
}
