package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAssembleDocument(t *testing.T) {
	got := AssembleDocument("<!DOCTYPE html>", `<div id="app">`, "<div>Hi</div>", "</div>")
	want := `<!DOCTYPE html><div id="app"><div>Hi</div></div>`
	if got != want {
		t.Errorf("AssembleDocument() = %q, want %q", got, want)
	}
}

func TestViewDirPattern(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		path string
		want bool
	}{
		{name: "file inside dir", dir: "/app/views", path: "/app/views/home.html", want: true},
		{name: "file outside dir", dir: "/app/views", path: "/app/lib/home.html", want: false},
		{name: "dir in the middle does not match", dir: "/views", path: "/app/views/home.html", want: false},
		{name: "metacharacters are literal", dir: "/app/v+ews (1)", path: "/app/v+ews (1)/a.html", want: true},
		{name: "dot is not a wildcard", dir: "/app/my.views", path: "/app/myXviews/a.html", want: false},
		{name: "empty dir matches every path", dir: "", path: "about.md", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ViewDirPattern(tt.dir).MatchString(tt.path); got != tt.want {
				t.Errorf("ViewDirPattern(%q).MatchString(%q) = %v, want %v", tt.dir, tt.path, got, tt.want)
			}
		})
	}
}

func TestDefaultEngineOptions(t *testing.T) {
	want := EngineOptions{
		Doctype:        "<!DOCTYPE html>",
		Beautify:       false,
		TransformViews: true,
		Transform: TransformConfig{
			Presets:    []string{"gfm", "highlight"},
			Style:      "github",
			Extensions: []string{".md", ".markdown"},
		},
	}

	if diff := cmp.Diff(want, DefaultEngineOptions()); diff != "" {
		t.Errorf("DefaultEngineOptions() mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineOptionsClone(t *testing.T) {
	opts := DefaultEngineOptions()
	clone := opts.Clone()
	clone.Transform.Presets[0] = "typographer"

	if opts.Transform.Presets[0] != "gfm" {
		t.Errorf("Clone shares presets with the original")
	}
}

func TestIsDevelopment(t *testing.T) {
	if !IsDevelopment("development") {
		t.Error("Expected development to be development")
	}
	for _, env := range []string{"", "production", "Development", "test"} {
		if IsDevelopment(env) {
			t.Errorf("Expected %q not to be development", env)
		}
	}
}
