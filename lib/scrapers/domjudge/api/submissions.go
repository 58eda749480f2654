package api

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/codes"
)

type SubmissionFilter struct {
	LanguageId string
	Ids        []string
	Strict     bool
}

func (c *Client) Submissions(ctx context.Context, cid string, filter SubmissionFilter) ([]Submission, error) {
	query := url.Values{}
	if filter.LanguageId != "" {
		query.Set("language_id", filter.LanguageId)
	}
	for _, id := range filter.Ids {
		query.Add("ids[]", id)
	}
	if filter.Strict {
		query.Set("strict", "true")
	}

	var out []Submission
	err := c.getJson(
		ctx,
		fmt.Sprintf("/contests/%s/submissions", url.PathEscape(cid)),
		query, &out,
	)
	return out, err
}

func (c *Client) Submission(ctx context.Context, cid, id string) (Submission, error) {
	var out Submission
	err := c.getJson(
		ctx,
		fmt.Sprintf("/contests/%s/submissions/%s", url.PathEscape(cid), url.PathEscape(id)),
		nil, &out,
	)
	return out, err
}

// SubmissionSourceName returns the name of the first source file of a
// submission, used to label downloaded archives.
func (c *Client) SubmissionSourceName(ctx context.Context, cid, id string) (SubmissionFile, error) {
	var out []SubmissionFile
	err := c.getJson(
		ctx,
		fmt.Sprintf("/contests/%s/submissions/%s/source-code", url.PathEscape(cid), url.PathEscape(id)),
		nil, &out,
	)
	if err != nil {
		return SubmissionFile{}, err
	}
	if len(out) == 0 {
		return SubmissionFile{}, fmt.Errorf("submission %s: no source files listed", id)
	}
	return out[0], nil
}

// DownloadSubmissionFiles writes the submission's zip archive to
// {dir}/{id}-{name}.zip, creating the directory if needed.
func (c *Client) DownloadSubmissionFiles(ctx context.Context, cid, id, name, dir string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:DownloadSubmissionFiles")
	defer span.End()

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create download directory")
		return "", err
	}

	dest := filepath.Join(dir, fmt.Sprintf("%s-%s.zip", id, name))
	_, err = c.Http.R().
		SetContext(ctx).
		SetOutput(dest).
		Get(fmt.Sprintf("/contests/%s/submissions/%s/files", url.PathEscape(cid), url.PathEscape(id)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch submission archive")
		return "", err
	}
	return dest, nil
}
