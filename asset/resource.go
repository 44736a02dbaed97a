package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// An asset path as authored in a scene together with the location it
// resolved to. Only the resolved path is used for loading.
type Path struct {
	Authored string
	Resolved string
}

// Create a path whose authored value is also its resolved location.
func NewPath(p string) Path {
	return Path{Authored: p, Resolved: p}
}

// Resolve an authored path against the location of the file that references
// it. URLs and absolute paths resolve to themselves.
func ResolvePath(authored, relTo string) Path {
	out := Path{Authored: authored, Resolved: authored}
	if authored == "" || relTo == "" {
		return out
	}

	u, err := url.Parse(strings.Replace(authored, `\`, `/`, -1))
	if err != nil || u.Scheme != "" || filepath.IsAbs(u.Path) {
		return out
	}

	base, err := url.Parse(relTo)
	if err == nil && base.Scheme != "" {
		ref, _ := url.Parse(u.Path)
		out.Resolved = base.ResolveReference(ref).String()
		return out
	}

	out.Resolved = filepath.Join(filepath.Dir(relTo), u.Path)
	return out
}

// Returns true if the path did not resolve to a location.
func (p Path) Empty() bool {
	return p.Resolved == ""
}

func (p Path) String() string {
	return p.Resolved
}

// The Resource type wraps a streamable local file or remote resource.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the path to this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Returns true if the Resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a resolved asset path for reading. Local files are opened directly
// while http/https URLs are fetched with the net/http package.
//
// The caller must close the returned resource.
func Open(pathToResource string) (*Resource, error) {
	if pathToResource == "" {
		return nil, fmt.Errorf("resource: empty path")
	}

	u, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, fmt.Errorf("resource: could not parse '%s': %w", pathToResource, err)
	}

	var reader io.ReadCloser
	switch u.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(u.Path))
		if err != nil {
			return nil, fmt.Errorf("resource: %w", err)
		}
	case "http", "https":
		resp, err := http.Get(u.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %w", u.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", u.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", u.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        u,
	}, nil
}
