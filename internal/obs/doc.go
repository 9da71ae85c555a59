// Package obs implements the source API of an Open Build Service instance.
//
// A Client lists, deletes and uploads the source files of a package under
// {server}/source/{project}/{package}. Every mutating call carries a
// revision mode: Pending stages the change, Commit closes the revision so
// that all staged changes become visible as one new package revision.
//
//	c, err := obs.New("https://api.opensuse.org", user, password)
//	if err != nil {
//	    return err
//	}
//	ref := model.PackageRef{Project: "home:alice", Package: "hello"}
//	if err := c.UploadFile(ctx, ref, "/src/hello_1.0.dsc", model.Commit); err != nil {
//	    return err
//	}
//
// The client never retries. Failures are returned as *model.Error values
// carrying the package, file, HTTP status and response body.
package obs
