package obs

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"

	"github.com/go-git/go-billy/v5/util"

	"github.com/klauern/obssync/internal/artifact"
	"github.com/klauern/obssync/internal/logging"
	"github.com/klauern/obssync/internal/model"
)

// uploadComment is attached to every source upload.
const uploadComment = "Upload Sources"

// UploadFile uploads the local file at filePath into a package under its base name.
// A relative filePath is resolved against the working directory.
func (c *Client) UploadFile(ctx context.Context, ref model.PackageRef, filePath string, mode model.RevisionMode) error {
	return c.UploadFileAs(ctx, ref, filePath, "", mode)
}

// UploadFileAs is UploadFile with a known content type. An empty contentType
// is inferred from the file name and content.
func (c *Client) UploadFileAs(ctx context.Context, ref model.PackageRef, filePath, contentType string, mode model.RevisionMode) error {
	path, err := filepath.Abs(filePath)
	if err != nil {
		return &model.Error{Kind: model.KindLocalRead, Package: ref, File: filePath, Err: err}
	}
	data, err := util.ReadFile(c.fs, path)
	if err != nil {
		return &model.Error{Kind: model.KindLocalRead, Package: ref, File: filePath, Err: err}
	}

	fileName := filepath.Base(path)
	if contentType == "" {
		contentType = artifact.ContentType(fileName, data)
	}

	u := c.packageURL(ref, fileName)
	u.RawQuery = sourceQuery(mode, uploadComment).Encode()

	resp, err := c.do(ctx, http.MethodPut, u, bytes.NewReader(data), contentType)
	if err != nil {
		return &model.Error{Kind: model.KindRemoteUpload, Package: ref, File: fileName, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &model.Error{
			Kind:       model.KindRemoteUpload,
			Package:    ref,
			File:       fileName,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
		}
	}

	logging.WithContext(ctx).Debug("uploaded source file",
		logging.Project(ref.Project),
		logging.Package(ref.Package),
		logging.File(fileName),
		logging.Mode(mode),
		"bytes", len(data),
		"content_type", contentType,
	)
	return nil
}
