// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container finds a local container engine and runs conversion
// images through it with the report piped over stdin.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Engine names accepted by Detect.
const (
	Docker = "docker"
	Podman = "podman"
	Auto   = "auto"
)

// maxStderr bounds how much container stderr is quoted in an error.
const maxStderr = 512

// Runtime runs conversion images on one container engine.
type Runtime interface {
	// Name returns the engine binary ("docker" or "podman").
	Name() string

	// Available reports whether the engine is on PATH and answers "info".
	Available() bool

	// ImageExists returns nil when image is present locally.
	ImageExists(image string) error

	// Run starts a throwaway container from image, streaming stdin in and
	// stdout out. Cancelling ctx kills the container process.
	Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error
}

// commander runs engine commands. Tests substitute a scripted one.
type commander interface {
	LookPath(file string) (string, error)
	Probe(name string, args ...string) error
	Stream(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osCommander struct{}

func (osCommander) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osCommander) Probe(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (osCommander) Stream(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// engine is a Runtime for a single binary. Docker and Podman only differ in
// how an image is looked up.
type engine struct {
	bin        string
	inspectCmd []string
	cmd        commander
}

func (e *engine) Name() string { return e.bin }

func (e *engine) Available() bool {
	if _, err := e.cmd.LookPath(e.bin); err != nil {
		return false
	}
	return e.cmd.Probe(e.bin, "info") == nil
}

func (e *engine) ImageExists(image string) error {
	args := append(append([]string(nil), e.inspectCmd...), image)
	if err := e.cmd.Probe(e.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, e.bin, err)
	}
	return nil
}

func (e *engine) Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	args := []string{"run", "--rm", "-i", "--network", "none", image}
	if err := e.cmd.Stream(ctx, e.bin, args, stdin, stdout, &stderr); err != nil {
		if msg := tail(stderr.String(), maxStderr); msg != "" {
			return fmt.Errorf("running %s container %s: %w: %s", e.bin, image, err, msg)
		}
		return fmt.Errorf("running %s container %s: %w", e.bin, image, err)
	}
	return nil
}

// tail returns the last n bytes of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		s = "..." + s[len(s)-n:]
	}
	return s
}

func newEngine(bin string, cmd commander) *engine {
	e := &engine{bin: bin, cmd: cmd}
	switch bin {
	case Podman:
		e.inspectCmd = []string{"image", "exists"}
	default:
		e.inspectCmd = []string{"image", "inspect"}
	}
	return e
}

// Detect returns a working engine. With prefer set to docker or podman only
// that engine is tried; with "" or auto docker is tried before podman.
func Detect(prefer string) (Runtime, error) {
	return detect(prefer, osCommander{})
}

func detect(prefer string, cmd commander) (Runtime, error) {
	var candidates []string
	switch prefer {
	case "", Auto:
		candidates = []string{Docker, Podman}
	case Docker, Podman:
		candidates = []string{prefer}
	default:
		return nil, fmt.Errorf("unknown container runtime %q: use %s, %s or %s", prefer, Docker, Podman, Auto)
	}

	for _, bin := range candidates {
		if e := newEngine(bin, cmd); e.Available() {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no container runtime available: tried %s", strings.Join(candidates, ", "))
}
