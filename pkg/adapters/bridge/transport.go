package bridge

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/avast/retry-go/v4"
)

// process adapts a spawned bridge to io.ReadWriteCloser.
type process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *os.File
	grace  time.Duration
	exited chan struct{}
}

func (p *process) Read(b []byte) (int, error)  { return p.stdout.Read(b) }
func (p *process) Write(b []byte) (int, error) { return p.stdin.Write(b) }

// Close closes stdin, waits up to the grace period for the bridge to exit, then kills it.
func (p *process) Close() error {
	err := p.stdin.Close()
	select {
	case <-p.exited:
	case <-time.After(p.grace):
		_ = p.cmd.Process.Kill()
		<-p.exited
	}
	p.stdout.Close()
	return err
}

// spawn starts the bridge command. Cancelling ctx kills the process.
func spawn(ctx context.Context, cfg Config, logger *slog.Logger) (*process, error) {
	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Dir = cfg.Dir
	cmd.Env = cmd.Environ()
	for k, v := range cfg.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdin: %w", err)
	}
	// An os.Pipe keeps the read end ours: Wait must not close it before the reader drains it.
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdout: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = &logWriter{logger: logger}

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("start bridge %s: %w", cfg.Command, err)
	}
	pw.Close()

	p := &process{cmd: cmd, stdin: stdin, stdout: pr, grace: cfg.ShutdownGrace, exited: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		logger.Debug("bridge process exited", "err", err)
		close(p.exited)
	}()
	return p, nil
}

// dial connects to a listening bridge, retrying with exponential backoff.
func dial(ctx context.Context, cfg Config, logger *slog.Logger) (net.Conn, error) {
	var d net.Dialer
	return retry.DoWithData(
		func() (net.Conn, error) {
			return d.DialContext(ctx, "tcp", cfg.Address)
		},
		retry.Context(ctx),
		retry.Attempts(cfg.DialAttempts),
		retry.Delay(cfg.DialDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("bridge dial failed, retrying", "attempt", n+1, "addr", cfg.Address, "err", err)
		}),
	)
}

// logWriter forwards the bridge's stderr to the logger line by line.
type logWriter struct {
	logger *slog.Logger
}

func (w *logWriter) Write(b []byte) (int, error) {
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			w.logger.Debug("bridge stderr", "line", line)
		}
	}
	return len(b), nil
}
