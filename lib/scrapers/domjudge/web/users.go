package web

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

// SetUserPassword sets a plaintext password, the role set and the
// enabled flag on an existing user through the jury edit form.
func (c *Client) SetUserPassword(ctx context.Context, userId, password string, roles []string, enabled bool) error {
	ctx, span := tracer.Start(ctx, "client:SetUserPassword")
	defer span.End()

	editPath := formatPath(pathUserEdit, userId)
	form, err := c.formSnapshot(ctx, editPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch edit-user form")
		return err
	}

	form.Set("user[plainPassword]", password)
	form.Set("user[enabled]", boolField(enabled))
	form.Del("user[user_roles][]")
	for _, role := range roles {
		form.Add("user[user_roles][]", role)
	}

	res, err := c.postForm(ctx, editPath, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit edit-user form")
		return err
	}
	if !accepted(res, editPath) {
		span.SetStatus(codes.Error, "edit-user form rejected")
		return fmt.Errorf("set password for user %s: form submission rejected", userId)
	}
	return nil
}

// DeleteUsers removes users whose name matches the include/exclude
// filters, see deleteRows for the filter semantics.
func (c *Client) DeleteUsers(ctx context.Context, include, exclude []string) error {
	ctx, span := tracer.Start(ctx, "client:DeleteUsers")
	defer span.End()

	err := c.deleteRows(ctx, rowFilter{
		listPath:   pathUserList,
		nameColumn: userNameColumn,
		include:    include,
		exclude:    exclude,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete users")
	}
	return err
}
