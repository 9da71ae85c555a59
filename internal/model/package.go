package model

import (
	"errors"
	"fmt"
	"strings"
)

// PackageRef identifies a package within a project on the build service.
type PackageRef struct {
	Project string
	Package string
}

// String returns the reference in project/package form.
func (r PackageRef) String() string {
	return r.Project + "/" + r.Package
}

// ParsePackageRef parses a "project/package" string.
// Project names may contain colons (home:user:branches) but never slashes.
func ParsePackageRef(s string) (PackageRef, error) {
	project, pkg, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || project == "" || pkg == "" || strings.Contains(pkg, "/") {
		return PackageRef{}, fmt.Errorf("invalid package reference %q: expected project/package", s)
	}
	return PackageRef{Project: project, Package: pkg}, nil
}

// Validate reports whether both parts of the reference are set.
func (r PackageRef) Validate() error {
	if r.Project == "" {
		return errors.New("project name is empty")
	}
	if r.Package == "" {
		return errors.New("package name is empty")
	}
	return nil
}
