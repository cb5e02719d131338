// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs document conversion images under docker or podman.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Runtime runs short-lived, network-isolated containers that read a document
// on stdin and write text on stdout.
type Runtime interface {
	// Name returns the runtime binary ("docker" or "podman").
	Name() string

	// Available reports whether the binary is on PATH and its daemon answers.
	Available(ctx context.Context) bool

	// ImageExists returns nil when image is present locally.
	ImageExists(ctx context.Context, image string) error

	// Run starts image with stdin and stdout attached. Extra args are passed
	// to the image entrypoint.
	Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer, args ...string) error
}

// executor runs commands; tests substitute a fake.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// cli implements Runtime for a docker-compatible binary. Docker and Podman
// differ only in the image check subcommand.
type cli struct {
	bin        string
	imageCheck []string
	exec       executor
}

func (c *cli) Name() string { return c.bin }

func (c *cli) Available(ctx context.Context) bool {
	if _, err := c.exec.LookPath(c.bin); err != nil {
		return false
	}
	return c.exec.Run(ctx, c.bin, []string{"info"}, nil, io.Discard, io.Discard) == nil
}

func (c *cli) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string{}, c.imageCheck...), image)
	if err := c.exec.Run(ctx, c.bin, args, nil, io.Discard, io.Discard); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, c.bin, err)
	}
	return nil
}

func (c *cli) Run(ctx context.Context, image string, stdin io.Reader, stdout io.Writer, args ...string) error {
	argv := append([]string{"run", "--rm", "-i", "--network", "none", image}, args...)
	var stderr bytes.Buffer
	if err := c.exec.Run(ctx, c.bin, argv, stdin, stdout, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("running %s container %s: %w: %s", c.bin, image, err, msg)
		}
		return fmt.Errorf("running %s container %s: %w", c.bin, image, err)
	}
	return nil
}

func newDocker(e executor) *cli {
	return &cli{bin: binDocker, imageCheck: []string{"image", "inspect"}, exec: e}
}

func newPodman(e executor) *cli {
	return &cli{bin: binPodman, imageCheck: []string{"image", "exists"}, exec: e}
}

// DetectRuntime prefers docker and falls back to podman.
func DetectRuntime(ctx context.Context) (Runtime, error) {
	return detectRuntime(ctx, osExecutor{})
}

func detectRuntime(ctx context.Context, e executor) (Runtime, error) {
	for _, rt := range []*cli{newDocker(e), newPodman(e)} {
		if rt.Available(ctx) {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman)
}
