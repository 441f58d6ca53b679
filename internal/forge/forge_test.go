package forge

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/purelb/shipyard/internal/project"
	"github.com/purelb/shipyard/internal/selector"
	"github.com/purelb/shipyard/internal/shell"
)

func testConfig() project.Config {
	return project.Config{
		Name:                 "testproj",
		Binaries:             []string{"x", "y"},
		Architectures:        []string{"amd64", "arm"},
		DefaultArchitectures: []string{"amd64"},
		ImageBinaries:        []string{"x", "y"},
		LdflagsPrefix:        "example.com/testproj/internal/version",
		Manifest:             "deployments/testproj.yaml",
		VersionFile:          "internal/version/version.go",
		MainBranch:           "main",
	}
}

func testForge(t *testing.T) (*Forge, *shell.Recorder, Options) {
	t.Helper()
	rec := shell.NewRecorder()
	rec.Respond("git describe", shell.Response{Stdout: "abc123\n"})
	rec.Respond("git rev-parse", shell.Response{Stdout: "main\n"})

	opts := Options{
		Tag:        "dev",
		DockerUser: "metallb",
		Root:       t.TempDir(),
	}
	return New(rec, testConfig()), rec, opts
}

func TestCrossProduct(t *testing.T) {
	got := crossProduct([]string{"amd64", "arm"}, []string{"x", "y"})
	want := []Target{
		{Architecture: "amd64", Binary: "x"},
		{Architecture: "amd64", Binary: "y"},
		{Architecture: "arm", Binary: "x"},
		{Architecture: "arm", Binary: "y"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("crossProduct = %v, want %v", got, want)
	}
}

func TestBuildWalksMatrixInArchitectureMajorOrder(t *testing.T) {
	f, rec, opts := testForge(t)

	if err := f.Build(context.Background(), opts); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	ldflags := "-X example.com/testproj/internal/version.gitCommit=abc123" +
		" -X example.com/testproj/internal/version.gitBranch=main"
	want := []string{
		"git describe --dirty --always",
		"git rev-parse --abbrev-ref HEAD",
		"go build -v -o build/amd64/x/x -ldflags " + ldflags + " ./cmd/x",
		"docker build -t metallb/x:dev-amd64 -f build/package/Dockerfile.x build/amd64/x",
		"go build -v -o build/amd64/y/y -ldflags " + ldflags + " ./cmd/y",
		"docker build -t metallb/y:dev-amd64 -f build/package/Dockerfile.y build/amd64/y",
		"go build -v -o build/arm/x/x -ldflags " + ldflags + " ./cmd/x",
		"docker build -t metallb/x:dev-arm -f build/package/Dockerfile.x build/arm/x",
		"go build -v -o build/arm/y/y -ldflags " + ldflags + " ./cmd/y",
		"docker build -t metallb/y:dev-arm -f build/package/Dockerfile.y build/arm/y",
	}
	if !reflect.DeepEqual(rec.Lines(), want) {
		t.Fatalf("commands = %v, want %v", rec.Lines(), want)
	}
}

func TestBuildCompileEnvironment(t *testing.T) {
	f, rec, opts := testForge(t)
	opts.Binaries = []string{"x"}
	opts.Architectures = []string{"arm"}

	if err := f.Build(context.Background(), opts); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	compile := rec.Calls[2]
	wantEnv := map[string]string{
		"CGO_ENABLED": "0",
		"GOOS":        "linux",
		"GOARCH":      "arm",
		"GOARM":       "6",
		"GO111MODULE": "on",
	}
	if !reflect.DeepEqual(compile.Env, wantEnv) {
		t.Fatalf("compile env = %v, want %v", compile.Env, wantEnv)
	}
	if compile.Dir != opts.Root {
		t.Fatalf("compile dir = %q, want %q", compile.Dir, opts.Root)
	}
}

func TestBuildFailsFast(t *testing.T) {
	f, rec, opts := testForge(t)
	rec.Respond("go build -v -o build/arm/x/x", shell.Response{ExitCode: 1, Stderr: "compile error"})

	err := f.Build(context.Background(), opts)
	if !errors.Is(err, ErrBuild) {
		t.Fatalf("error = %v, want ErrBuild", err)
	}
	if !strings.Contains(err.Error(), "arm/x") {
		t.Fatalf("error %q does not name the failing target", err)
	}

	// Two git queries, the two complete amd64 cells, then the failing compile.
	// Nothing after it runs.
	if got, want := len(rec.Calls), 7; got != want {
		t.Fatalf("command count = %d, want %d (no continuation after failure)", got, want)
	}
	last := rec.Lines()[6]
	if !strings.HasPrefix(last, "go build -v -o build/arm/x/x") {
		t.Fatalf("last command = %q, want the failing compile", last)
	}
}

func TestBuildRejectsUnknownSelector(t *testing.T) {
	f, rec, opts := testForge(t)
	opts.Binaries = []string{"frobnicator"}

	err := f.Build(context.Background(), opts)
	var unknownErr *selector.UnknownTokenError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("error = %v, want *selector.UnknownTokenError", err)
	}
	if len(rec.Calls) != 0 {
		t.Fatalf("commands after invalid selector = %v, want none", rec.Lines())
	}
}

func TestPushBuildsThenPushesEachTarget(t *testing.T) {
	f, rec, opts := testForge(t)
	opts.Architectures = []string{"amd64"}

	if err := f.Push(context.Background(), opts); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}

	lines := rec.Lines()
	ldflags := "-X example.com/testproj/internal/version.gitCommit=abc123" +
		" -X example.com/testproj/internal/version.gitBranch=main"
	want := []string{
		"git describe --dirty --always",
		"git rev-parse --abbrev-ref HEAD",
		"go build -v -o build/amd64/x/x -ldflags " + ldflags + " ./cmd/x",
		"docker build -t metallb/x:dev-amd64 -f build/package/Dockerfile.x build/amd64/x",
		"docker push metallb/x:dev-amd64",
		"go build -v -o build/amd64/y/y -ldflags " + ldflags + " ./cmd/y",
		"docker build -t metallb/y:dev-amd64 -f build/package/Dockerfile.y build/amd64/y",
		"docker push metallb/y:dev-amd64",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("commands = %v, want %v", lines, want)
	}
}

func TestPushDerivesRevisionOnce(t *testing.T) {
	f, rec, opts := testForge(t)

	if err := f.Push(context.Background(), opts); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}

	describes := 0
	for _, line := range rec.Lines() {
		if strings.HasPrefix(line, "git describe") {
			describes++
		}
	}
	if describes != 1 {
		t.Fatalf("git describe ran %d times, want once per invocation", describes)
	}
}

func TestPushFailsFast(t *testing.T) {
	f, rec, opts := testForge(t)
	opts.Architectures = []string{"amd64"}
	rec.Respond("docker push metallb/x", shell.Response{ExitCode: 1, Stderr: "denied"})

	err := f.Push(context.Background(), opts)
	if !errors.Is(err, ErrPush) {
		t.Fatalf("error = %v, want ErrPush", err)
	}

	last := rec.Lines()[len(rec.Calls)-1]
	if last != "docker push metallb/x:dev-amd64" {
		t.Fatalf("last command = %q, want the failing push", last)
	}
}

func TestPushMultiarchSpansAllArchitectures(t *testing.T) {
	f, rec, opts := testForge(t)
	opts.Binaries = []string{"x"}
	// An architecture selection is ignored: publication is always
	// all-architecture.
	opts.Architectures = []string{"amd64"}

	if err := f.PushMultiarch(context.Background(), opts); err != nil {
		t.Fatalf("PushMultiarch returned error: %v", err)
	}

	lines := rec.Lines()
	pushes := []string{}
	for _, line := range lines {
		if strings.HasPrefix(line, "docker push") {
			pushes = append(pushes, line)
		}
	}
	wantPushes := []string{
		"docker push metallb/x:dev-amd64",
		"docker push metallb/x:dev-arm",
	}
	if !reflect.DeepEqual(pushes, wantPushes) {
		t.Fatalf("pushes = %v, want %v", pushes, wantPushes)
	}

	last := lines[len(lines)-1]
	wantManifest := "manifest-tool push from-args" +
		" --platforms linux/amd64,linux/arm" +
		" --template metallb/x:dev-ARCH" +
		" --target metallb/x:dev"
	if last != wantManifest {
		t.Fatalf("manifest command = %q, want %q", last, wantManifest)
	}
}

func TestPushMultiarchManifestFailure(t *testing.T) {
	f, rec, opts := testForge(t)
	opts.Binaries = []string{"x"}
	rec.Respond("manifest-tool", shell.Response{ExitCode: 1, Stderr: "no such manifest"})

	err := f.PushMultiarch(context.Background(), opts)
	if !errors.Is(err, ErrPublish) {
		t.Fatalf("error = %v, want ErrPublish", err)
	}
}
