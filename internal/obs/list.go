package obs

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"

	"github.com/klauern/obssync/internal/logging"
	"github.com/klauern/obssync/internal/model"
)

// directory is the source listing document returned for a package.
type directory struct {
	XMLName xml.Name         `xml:"directory"`
	Entries []directoryEntry `xml:"entry"`
}

type directoryEntry struct {
	Name  *string `xml:"name,attr"`
	MD5   string  `xml:"md5,attr"`
	Size  string  `xml:"size,attr"`
	MTime string  `xml:"mtime,attr"`
}

// ListFiles returns the source files of a package in listing order.
// A package without files yields an empty, non-nil slice.
func (c *Client) ListFiles(ctx context.Context, ref model.PackageRef) ([]model.RemoteFileEntry, error) {
	log := logging.WithContext(ctx).With(logging.Project(ref.Project), logging.Package(ref.Package))

	resp, err := c.do(ctx, http.MethodGet, c.packageURL(ref, ""), nil, "")
	if err != nil {
		return nil, &model.Error{Kind: model.KindRemoteListing, Package: ref, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &model.Error{
			Kind:       model.KindRemoteListing,
			Package:    ref,
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
		}
	}

	var dir directory
	if err := xml.Unmarshal(resp.Body, &dir); err != nil {
		return nil, &model.Error{
			Kind:    model.KindRemoteListing,
			Package: ref,
			Err:     fmt.Errorf("parse directory listing: %w", err),
		}
	}

	files := make([]model.RemoteFileEntry, 0, len(dir.Entries))
	for i, e := range dir.Entries {
		if e.Name == nil || *e.Name == "" {
			log.Warn("skipping listing entry without name", "index", i)
			continue
		}
		files = append(files, model.RemoteFileEntry{
			Name:  *e.Name,
			MD5:   e.MD5,
			Size:  parseInt(e.Size),
			MTime: parseInt(e.MTime),
		})
	}

	log.Debug("listed package sources", logging.Count(len(files)))
	return files, nil
}

// parseInt parses an informational numeric attribute, returning 0 when absent or malformed.
func parseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
