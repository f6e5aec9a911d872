package svckit

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// DefaultUnitDir is where system unit files are installed.
const DefaultUnitDir = "/etc/systemd/system"

// Runner invokes systemctl. Split out so tests can substitute a fake.
type Runner interface {
	// Run executes systemctl with the given arguments and returns the
	// captured stdout and stderr.
	Run(args ...string) (stdout, stderr string, err error)
}

type execRunner struct{}

func (execRunner) Run(args ...string) (string, string, error) {
	cmd := exec.Command("systemctl", args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.String(), errb.String(), err
}

// SystemdController manages services through unit files and systemctl.
type SystemdController struct {
	unitDir   string
	run       Runner
	clk       clock.Clock
	log       zerolog.Logger
	pollEvery time.Duration
	settle    time.Duration
}

// SystemdOption configures a SystemdController.
type SystemdOption func(*SystemdController)

// WithUnitDir overrides the unit file directory.
func WithUnitDir(dir string) SystemdOption {
	return func(c *SystemdController) { c.unitDir = dir }
}

// WithRunner overrides the systemctl invoker.
func WithRunner(r Runner) SystemdOption {
	return func(c *SystemdController) { c.run = r }
}

// WithClock overrides the clock used by the transition poll loop.
func WithClock(clk clock.Clock) SystemdOption {
	return func(c *SystemdController) { c.clk = clk }
}

// WithPollInterval sets how often the poll loop re-queries the unit
// state during a pending transition.
func WithPollInterval(d time.Duration) SystemdOption {
	return func(c *SystemdController) { c.pollEvery = d }
}

// WithSettleTimeout bounds how long Start and Stop wait for a pending
// transition before giving up.
func WithSettleTimeout(d time.Duration) SystemdOption {
	return func(c *SystemdController) { c.settle = d }
}

// WithSystemdLogger sets the controller logger.
func WithSystemdLogger(log zerolog.Logger) SystemdOption {
	return func(c *SystemdController) { c.log = log }
}

// NewSystemdController creates a controller for the system unit
// directory with a real systemctl runner.
func NewSystemdController(opts ...SystemdOption) *SystemdController {
	c := &SystemdController{
		unitDir:   DefaultUnitDir,
		run:       execRunner{},
		clk:       clock.New(),
		log:       zerolog.Nop(),
		pollEvery: 250 * time.Millisecond,
		settle:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *SystemdController) unitPath(name string) string {
	return filepath.Join(c.unitDir, name+".service")
}

// Exists checks for the unit file.
func (c *SystemdController) Exists(name string) (bool, error) {
	_, err := os.Stat(c.unitPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, wrapErr(fmt.Sprintf("stat unit file for %q", name), ErrIO, err)
}

// Create renders the unit file, installs it atomically (write to a
// temporary file, then rename), and reloads the systemd daemon. An
// error leaves no partial unit file behind.
func (c *SystemdController) Create(name string, cfg Config) error {
	exists, err := c.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return wrapErr(fmt.Sprintf("create service %q", name), ErrRejected, ErrAlreadyInstalled)
	}

	path := c.unitPath(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(renderUnit(cfg)), 0o644); err != nil {
		return wrapErr(fmt.Sprintf("write unit file for %q", name), ErrIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return wrapErr(fmt.Sprintf("install unit file for %q", name), ErrIO, err)
	}
	c.log.Info().Str("service", name).Str("path", path).Msg("Unit file installed")

	if err := c.systemctl("daemon-reload"); err != nil {
		return err
	}
	return nil
}

// Start requests a start and polls until the unit leaves the
// activating state. A terminal state other than active is a failure.
func (c *SystemdController) Start(name string) error {
	if err := c.systemctl("start", name); err != nil {
		return err
	}
	state, err := c.waitState(name, "activating")
	if err != nil {
		return err
	}
	if state != "active" {
		return wrapErr(fmt.Sprintf("start service %q: unit is %s", name, state), ErrRejected, nil)
	}
	return nil
}

// Stop requests a stop and polls until the unit leaves the
// deactivating state. A terminal state other than inactive is a
// failure.
func (c *SystemdController) Stop(name string) error {
	if err := c.systemctl("stop", name); err != nil {
		return err
	}
	state, err := c.waitState(name, "deactivating")
	if err != nil {
		return err
	}
	if state != "inactive" {
		return wrapErr(fmt.Sprintf("stop service %q: unit is %s", name, state), ErrRejected, nil)
	}
	return nil
}

// Delete removes the unit file. Deleting a service that is not
// installed is an error.
func (c *SystemdController) Delete(name string) error {
	exists, err := c.Exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return wrapErr(fmt.Sprintf("delete service %q", name), ErrNotInstalled, nil)
	}
	if err := os.Remove(c.unitPath(name)); err != nil {
		return wrapErr(fmt.Sprintf("delete unit file for %q", name), ErrIO, err)
	}
	c.log.Info().Str("service", name).Msg("Unit file removed")
	return nil
}

// systemctl runs one systemctl command and classifies the failure: a
// command that could not be invoked at all means the manager is
// unavailable, a non-zero exit means the manager rejected the request.
func (c *SystemdController) systemctl(args ...string) error {
	_, stderr, err := c.run.Run(args...)
	if err == nil {
		return nil
	}
	op := "systemctl " + strings.Join(args, " ")
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		c.log.Error().Err(err).Str("stderr", strings.TrimSpace(stderr)).Str("op", op).Msg("systemctl command failed")
		return wrapErr(fmt.Sprintf("%s: %s", op, strings.TrimSpace(stderr)), ErrRejected, err)
	}
	return wrapErr(op, ErrManagerUnavailable, err)
}

// activeState queries the unit's ActiveState property.
func (c *SystemdController) activeState(name string) (string, error) {
	stdout, stderr, err := c.run.Run("show", name, "--property=ActiveState")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", wrapErr(fmt.Sprintf("query service %q: %s", name, strings.TrimSpace(stderr)), ErrRejected, err)
		}
		return "", wrapErr(fmt.Sprintf("query service %q", name), ErrManagerUnavailable, err)
	}
	for _, line := range strings.Split(stdout, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "ActiveState="); ok {
			return v, nil
		}
	}
	return "", wrapErr(fmt.Sprintf("query service %q: no ActiveState in output", name), ErrRejected, nil)
}

// waitState polls until the unit leaves the given pending state,
// bounded by the settle timeout. A query failure mid-poll aborts the
// wait rather than looping forever.
func (c *SystemdController) waitState(name, pending string) (string, error) {
	deadline := c.clk.Now().Add(c.settle)
	for {
		state, err := c.activeState(name)
		if err != nil {
			return "", err
		}
		if state != pending {
			return state, nil
		}
		if c.clk.Now().After(deadline) {
			return state, wrapErr(fmt.Sprintf("service %q stuck in %s", name, pending), ErrRejected, nil)
		}
		c.clk.Sleep(c.pollEvery)
	}
}
