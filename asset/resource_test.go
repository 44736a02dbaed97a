package asset

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestOpenLocalResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	res, err := Open(thisFile)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if res.IsRemote() {
		t.Fatal("expected local resource")
	}
}

func TestOpenHttpResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	thisDir := filepath.Dir(thisFile)

	server := httptest.NewServer(http.FileServer(http.Dir(thisDir)))
	defer server.Close()

	fetchUrl := server.URL + "/" + filepath.Base(thisFile)
	res, err := Open(fetchUrl)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if !res.IsRemote() {
		t.Fatal("expected remote resource")
	}

	fetchUrl = server.URL + "/file-not-found.png"
	expError := fmt.Sprintf("resource: could not fetch '%s': status %d", fetchUrl, 404)
	_, err = Open(fetchUrl)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestOpenErrors(t *testing.T) {
	type spec struct {
		path   string
		expErr string
	}
	specs := []spec{
		{"", "resource: empty path"},
		{"gopher://digging.png", "resource: unsupported scheme 'gopher'"},
		{"/no/such/texture.png", "no such file or directory"},
	}

	for index, s := range specs {
		_, err := Open(s.path)
		if err == nil || !strings.Contains(err.Error(), s.expErr) {
			t.Fatalf("[spec %d] expected error containing %q; got %v", index, s.expErr, err)
		}
	}
}

func TestResolvePath(t *testing.T) {
	type spec struct {
		authored string
		relTo    string
		exp      string
	}
	specs := []spec{
		{"tex/wood.png", "/scenes/room.yaml", "/scenes/tex/wood.png"},
		{"/abs/wood.png", "/scenes/room.yaml", "/abs/wood.png"},
		{"http://example.com/wood.png", "/scenes/room.yaml", "http://example.com/wood.png"},
		{"wood.png", "http://example.com/scenes/room.yaml", "http://example.com/scenes/wood.png"},
		{"wood.png", "", "wood.png"},
		{"", "/scenes/room.yaml", ""},
	}

	for index, s := range specs {
		p := ResolvePath(s.authored, s.relTo)
		if p.Resolved != s.exp {
			t.Fatalf("[spec %d] expected resolved path %q; got %q", index, s.exp, p.Resolved)
		}
		if p.Authored != s.authored {
			t.Fatalf("[spec %d] expected authored path to be preserved", index)
		}
	}
}
