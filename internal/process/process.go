package process

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"
)

// defaultGracefulTimeout is how long Kill waits for a clean exit after the
// interrupt signal before escalating to a hard kill.
const defaultGracefulTimeout = 5 * time.Second

// LogParser parses a log line and returns the log level and message.
// Used to extract structured log info from process output (ffmpeg etc.).
type LogParser func(line string) (level, msg string)

// Option configures a Proc before it is started.
type Option func(*Proc)

// WithLogParser sets a custom logger and log parser for process output.
// The logger is used for process output (e.g., module="ffmpeg").
func WithLogParser(logger *slog.Logger, parser LogParser) Option {
	return func(p *Proc) {
		p.processLogger = logger
		p.logParser = parser
	}
}

// WithStderrCapture collects stderr into a buffer instead of streaming it to
// the logger. Discovery scans read the captured text with StderrText.
func WithStderrCapture() Option {
	return func(p *Proc) {
		p.captureStderr = true
	}
}

// WithGracefulTimeout overrides how long Kill waits for a clean exit before
// force-killing the process group.
func WithGracefulTimeout(d time.Duration) Option {
	return func(p *Proc) {
		p.gracefulTimeout = d
	}
}

// Proc is a started subprocess with a completion signal and a kill control.
type Proc struct {
	cmd             *exec.Cmd
	logger          *slog.Logger
	processLogger   *slog.Logger // logger for process output (nil = use logger)
	logParser       LogParser    // parses process output for log level (nil = no parsing)
	captureStderr   bool
	gracefulTimeout time.Duration

	stderrMu  sync.Mutex
	stderrBuf bytes.Buffer

	done   chan error
	exited chan struct{} // closed once the exit error has been delivered
}

// Start spawns bin with args and begins streaming its output.
func Start(bin string, args []string, logger *slog.Logger, opts ...Option) (*Proc, error) {
	p := &Proc{
		logger:          logger,
		gracefulTimeout: defaultGracefulTimeout,
		done:            make(chan error, 1),
		exited:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.cmd = exec.Command(bin, args...)
	setSysProcAttr(p.cmd)

	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		p.logger.Error("Failed to create stdout pipe", "error", err)
		return nil, err
	}

	stderr, err := p.cmd.StderrPipe()
	if err != nil {
		p.logger.Error("Failed to create stderr pipe", "error", err)
		return nil, err
	}

	if err := p.cmd.Start(); err != nil {
		p.logger.Error("Failed to start process", "error", err, "bin", bin)
		return nil, err
	}

	p.logger.Debug("Process started", "pid", p.cmd.Process.Pid, "bin", bin, "args", args)

	outputDone := make(chan struct{}, 2)
	go func() {
		p.streamOutput(stdout, "stdout")
		outputDone <- struct{}{}
	}()
	go func() {
		if p.captureStderr {
			p.captureOutput(stderr)
		} else {
			p.streamOutput(stderr, "stderr")
		}
		outputDone <- struct{}{}
	}()

	go func() {
		// Drain both streams before Wait closes the pipes.
		<-outputDone
		<-outputDone
		p.done <- p.cmd.Wait()
		close(p.exited)
	}()

	return p, nil
}

// Done returns a channel that receives the process exit error (nil on a
// clean exit) exactly once.
func (p *Proc) Done() <-chan error {
	return p.done
}

// Kill stops the process: interrupt first so the encoder can finalize its
// output file, then a hard kill of the process group if it has not exited
// within the graceful timeout. Calling it after the process has already
// exited is a no-op.
func (p *Proc) Kill() {
	if p.cmd.Process == nil {
		return
	}
	select {
	case <-p.exited:
		return
	default:
	}

	if err := p.interrupt(); err != nil {
		// "os: process already finished" - process exited before the signal
		if !errors.Is(err, os.ErrProcessDone) {
			p.logger.Warn("Failed to interrupt process", "error", err)
		}
		return
	}

	select {
	case <-p.exited:
		return
	case <-time.After(p.gracefulTimeout):
	}

	p.logger.Warn("Graceful shutdown timeout, forcing kill", "timeout", p.gracefulTimeout)
	if err := p.forceKill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		p.logger.Warn("Failed to kill process", "error", err)
	}
}

// Cmd exposes the underlying command for advanced callers.
func (p *Proc) Cmd() *exec.Cmd {
	return p.cmd
}

// StderrText returns the captured stderr output. Only populated when the
// process was started with WithStderrCapture.
func (p *Proc) StderrText() string {
	p.stderrMu.Lock()
	defer p.stderrMu.Unlock()
	return p.stderrBuf.String()
}

// captureOutput accumulates a stream into the stderr buffer.
func (p *Proc) captureOutput(reader io.Reader) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		p.stderrMu.Lock()
		p.stderrBuf.WriteString(scanner.Text())
		p.stderrBuf.WriteByte('\n')
		p.stderrMu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		p.logger.Warn("Error reading output", "source", "stderr", "error", err)
	}
}

// streamOutput streams output from the subprocess through the configured
// log parser, falling back to info level when no parser is set.
func (p *Proc) streamOutput(reader io.Reader, source string) {
	scanner := bufio.NewScanner(reader)

	logger := p.processLogger
	if logger == nil {
		logger = p.logger
	}

	for scanner.Scan() {
		line := scanner.Text()

		level, msg := "info", line
		if p.logParser != nil {
			level, msg = p.logParser(line)
		}

		switch level {
		case "fatal", "error":
			logger.Error(msg)
		case "warning":
			logger.Warn(msg)
		case "debug", "trace":
			logger.Debug(msg)
		default:
			logger.Info(msg)
		}
	}

	if err := scanner.Err(); err != nil {
		p.logger.Warn("Error reading output", "source", source, "error", err)
	}
}
