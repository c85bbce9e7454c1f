package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// The client used for fetching remote resources.
var HTTPClient = &http.Client{Timeout: 30 * time.Second}

// A streamable scene asset (scene file, material library or texture)
// backed by a local file or an http/https URL.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the path to this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Get the file name of the resource without any directory or URL prefix.
func (r *Resource) Name() string {
	if r.IsRemote() {
		return path.Base(r.url.Path)
	}
	return filepath.Base(r.url.Path)
}

// Get the lowercase file extension (including the dot).
func (r *Resource) Ext() string {
	return strings.ToLower(filepath.Ext(r.Name()))
}

// Returns true if the Resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a resource. If relTo is specified and pathToResource does not define
// a scheme, the resource path is resolved against the directory of relTo so
// that assets referenced by a scene file are looked up next to it.
//
// The caller must close the returned resource.
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	target, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, fmt.Errorf("resource: invalid path %q: %w", pathToResource, err)
	}

	if target.Scheme == "" && relTo != nil && !filepath.IsAbs(target.Path) {
		target, err = resolveRelative(target.Path, relTo)
		if err != nil {
			return nil, err
		}
	}

	var reader io.ReadCloser
	switch target.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(target.Path))
		if err != nil {
			return nil, fmt.Errorf("resource: %w", err)
		}
	case "http", "https":
		resp, err := HTTPClient.Get(target.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", target.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", target.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", target.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        target,
	}, nil
}

func resolveRelative(relPath string, relTo *Resource) (*url.URL, error) {
	if relTo.IsRemote() {
		base := *relTo.url
		base.Path = path.Join(path.Dir(base.Path), relPath)
		return &base, nil
	}

	prefix, err := filepath.Abs(relTo.url.Path)
	if err != nil {
		return nil, fmt.Errorf("resource: could not detect abs path for %s; %s", relTo.url.String(), err.Error())
	}
	return &url.URL{Path: filepath.Join(filepath.Dir(prefix), relPath)}, nil
}

// Create a resource from a reader.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	target, err := url.Parse(name)
	if err != nil {
		target = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        target,
	}
}
