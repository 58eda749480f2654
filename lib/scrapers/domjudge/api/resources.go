package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/domjudge/api")

func (c *Client) getJson(ctx context.Context, path string, query url.Values, out any) error {
	req := c.Http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	res, err := req.Get(path)
	if err != nil {
		return err
	}
	err = json.Unmarshal(res.Body(), out)
	if err != nil {
		return fmt.Errorf("GET %s: unexpected body: %w", path, err)
	}
	return nil
}

type Version struct {
	ApiVersion json.Number `json:"api_version"`
}

func (c *Client) Version(ctx context.Context) (Version, error) {
	var out Version
	err := c.getJson(ctx, "/version", nil, &out)
	return out, err
}

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	err := c.getJson(ctx, "/users", nil, &out)
	return out, err
}

func (c *Client) User(ctx context.Context, id string) (User, error) {
	var out User
	err := c.getJson(ctx, fmt.Sprintf("/users/%s", url.PathEscape(id)), nil, &out)
	return out, err
}

func (c *Client) Teams(ctx context.Context, cid string) ([]Team, error) {
	var out []Team
	err := c.getJson(ctx, fmt.Sprintf("/contests/%s/teams", url.PathEscape(cid)), nil, &out)
	return out, err
}

func (c *Client) Team(ctx context.Context, cid, id string) (Team, error) {
	var out Team
	err := c.getJson(
		ctx,
		fmt.Sprintf("/contests/%s/teams/%s", url.PathEscape(cid), url.PathEscape(id)),
		nil, &out,
	)
	return out, err
}

func (c *Client) Problems(ctx context.Context, cid string) ([]Problem, error) {
	var out []Problem
	err := c.getJson(ctx, fmt.Sprintf("/contests/%s/problems", url.PathEscape(cid)), nil, &out)
	return out, err
}

func (c *Client) Problem(ctx context.Context, cid, id string) (Problem, error) {
	var out Problem
	err := c.getJson(
		ctx,
		fmt.Sprintf("/contests/%s/problems/%s", url.PathEscape(cid), url.PathEscape(id)),
		nil, &out,
	)
	return out, err
}
