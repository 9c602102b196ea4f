package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writePhoto stores a black w x h PNG beneath root at the given URL path.
func writePhoto(t *testing.T, root, urlPath string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	path := filepath.Join(root, filepath.FromSlash(urlPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderWritesPNG(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "www")
	writePhoto(t, root, "/static/images/orion.png", 40, 30)
	input := writeFile(t, dir, "result.json", `{
		"constellation_name": "Orion",
		"story": "the hunter",
		"image_path": "/static/images/orion.png",
		"stars": [{"x": 10, "y": 10}, {"x": 30, "y": 20}],
		"constellation_lines": [{"start": {"x": 10, "y": 10}, "end": {"x": 30, "y": 20}}]
	}`)
	outPath := filepath.Join(dir, "out", "orion.png")

	stdout, err := execute(t, "render", "--input", input, "--out", outPath,
		"--static-root", root, "--backend", "raster")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(stdout, "Orion") || !strings.Contains(stdout, "the hunter") {
		t.Errorf("stdout = %q", stdout)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("output size = %v, want 40x30", img.Bounds())
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	if r == 0 && g == 0 && b == 0 {
		t.Error("star pixel not drawn")
	}
	if got := color.RGBAModel.Convert(img.At(0, 29)).(color.RGBA); got.R != 0 || got.A != 255 {
		t.Errorf("background pixel = %v, want opaque black", got)
	}
}

func TestRenderFallsBackToAPIPath(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "www")
	writePhoto(t, root, "/api/images/lyra.png", 8, 8)
	input := writeFile(t, dir, "result.json",
		`{"constellation_name": "Lyra", "story": "", "image_path": "/static/images/lyra.png"}`)

	if _, err := execute(t, "render", "-i", input, "--static-root", root, "--backend", "raster"); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestRenderImageUnavailable(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "result.json",
		`{"constellation_name": "Lyra", "story": "a harp", "image_path": "/static/images/none.png"}`)

	stdout, err := execute(t, "render", "-i", input, "--static-root", dir)
	if !errors.Is(err, errImageUnavailable) {
		t.Fatalf("err = %v, want errImageUnavailable", err)
	}
	if !strings.Contains(stdout, "a harp") {
		t.Errorf("story missing from %q", stdout)
	}
}

func TestRenderTextOnly(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "result.json", `{"constellation_name": "Draco", "story": "a dragon"}`)

	stdout, err := execute(t, "render", "-i", input)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(stdout, "Draco\n") {
		t.Errorf("stdout = %q", stdout)
	}

	_, err = execute(t, "render", "-i", input, "-o", filepath.Join(dir, "x.png"))
	if !errors.Is(err, errNothingToWrite) {
		t.Errorf("err = %v, want errNothingToWrite", err)
	}
}

func TestRenderRequiresInput(t *testing.T) {
	if _, err := execute(t, "render"); err == nil {
		t.Error("expected missing --input error")
	}
}

func TestRenderRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "result.json", `{"constellation_name": "Draco", "story": ""}`)
	if _, err := execute(t, "render", "-i", input, "--backend", "opengl"); err == nil {
		t.Error("expected invalid backend error")
	}
}

func TestReadInputStdin(t *testing.T) {
	in, err := readInput("-", strings.NewReader(`{"constellation_name": "Vela", "story": "sails"}`))
	if err != nil {
		t.Fatal(err)
	}
	if in.Name != "Vela" {
		t.Errorf("name = %q", in.Name)
	}
	if _, err := readInput("-", strings.NewReader("nope")); err == nil {
		t.Error("expected decode error")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "/static/images/a.png", want: "/api/images/a.png"},
		{path: "/api/images/a.png", want: "/static/images/a.png"},
		{path: "photos/a.png", want: "/api/images/a.png"},
		{path: "/api/images/", want: "/static/images/"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out, err := execute(t, "resolve", tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if strings.TrimSpace(out) != tt.want {
				t.Errorf("out = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestResolveNeedsOneArg(t *testing.T) {
	if _, err := execute(t, "resolve"); err == nil {
		t.Error("expected argument error")
	}
}
