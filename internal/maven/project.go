// Package maven runs Maven builds inside cloned repositories.
package maven

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/mattn/go-shellwords"

	domainErrors "github.com/kiegroup/kie-pr-builds/internal/errors"
	"github.com/kiegroup/kie-pr-builds/internal/logger"
)

const outputTailSize = 4096

// Project is a Maven project checked out in Dir. Home is the Maven
// installation to use; when empty, mvn is looked up in PATH.
type Project struct {
	Dir  string
	Home string
	Opts string
}

type Option func(*Project)

func WithHome(home string) Option {
	return func(p *Project) {
		p.Home = home
	}
}

func WithOpts(opts string) Option {
	return func(p *Project) {
		p.Opts = opts
	}
}

func NewProject(dir string, opts ...Option) *Project {
	p := &Project{Dir: dir}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Executable returns the mvn launcher the project is built with.
func (p *Project) Executable() string {
	name := "mvn"
	if runtime.GOOS == "windows" {
		name = "mvn.cmd"
	}
	if p.Home == "" {
		return name
	}
	return filepath.Join(p.Home, "bin", name)
}

// Build runs mvn with args, split the way a shell would, and streams the
// combined output to out. env is appended to the current environment.
func (p *Project) Build(ctx context.Context, args string, env []string, out io.Writer) error {
	log := logger.FromContext(ctx)

	argv, err := shellwords.Parse(args)
	if err != nil {
		return domainErrors.ErrBuildToolFailure.
			WithMessage(fmt.Sprintf("Invalid Maven arguments '%s'", args)).
			WithError(err)
	}

	cmd := exec.CommandContext(ctx, p.Executable(), argv...)
	cmd.Dir = p.Dir
	cmd.Env = append(os.Environ(), env...)
	if p.Opts != "" {
		cmd.Env = append(cmd.Env, "MAVEN_OPTS="+p.Opts)
	}
	if p.Home != "" {
		cmd.Env = append(cmd.Env, "M2_HOME="+p.Home)
	}

	if out == nil {
		out = io.Discard
	}
	tail := &tailBuffer{limit: outputTailSize}
	w := io.MultiWriter(out, tail)
	cmd.Stdout = w
	cmd.Stderr = w

	log.Info("running maven build",
		"dir", p.Dir,
		"mvn", cmd.Path,
		"args", args)

	if err := cmd.Run(); err != nil {
		log.Error("maven build failed",
			"dir", p.Dir,
			"error", err)
		return domainErrors.ErrBuildToolFailure.
			WithMessage(fmt.Sprintf("Maven build failed in %s", p.Dir)).
			WithError(err).
			WithContext("dir", p.Dir).
			WithContext("args", args).
			WithContext("output", tail.String())
	}

	log.Info("maven build finished", "dir", p.Dir)
	return nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
