package obs

import (
	"context"
	"net/http"

	"github.com/klauern/obssync/internal/logging"
	"github.com/klauern/obssync/internal/model"
)

// DeleteFile removes one source file from a package.
func (c *Client) DeleteFile(ctx context.Context, ref model.PackageRef, fileName string, mode model.RevisionMode) error {
	u := c.packageURL(ref, fileName)
	u.RawQuery = sourceQuery(mode, "Delete "+fileName).Encode()

	resp, err := c.do(ctx, http.MethodDelete, u, nil, "")
	if err != nil {
		return &model.Error{Kind: model.KindRemoteDelete, Package: ref, File: fileName, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &model.Error{
			Kind:       model.KindRemoteDelete,
			Package:    ref,
			File:       fileName,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
		}
	}

	logging.WithContext(ctx).Debug("deleted source file",
		logging.Project(ref.Project),
		logging.Package(ref.Package),
		logging.File(fileName),
		logging.Mode(mode),
	)
	return nil
}
