package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hawkeye-rf/emflow/internal/logging"
	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// maxLine bounds a single NDJSON message.
const maxLine = 16 << 20

// ErrClosed is returned for calls made on, or interrupted by, a closed connection.
var ErrClosed = errors.New("bridge connection closed")

// Conn is a JSON-RPC 2.0 client over a newline-delimited JSON stream.
// Calls may be issued concurrently; responses are matched by ID.
type Conn struct {
	rwc    io.ReadWriteCloser
	logger *slog.Logger
	hooks  domain.LifecycleHooks

	wmu sync.Mutex
	enc *json.Encoder

	mu      sync.Mutex
	pending map[string]chan *Response
	err     error

	done      chan struct{}
	closeOnce sync.Once
}

// ConnOption configures a Conn.
type ConnOption func(*Conn)

// WithConnLogger sets the logger for protocol diagnostics.
func WithConnLogger(logger *slog.Logger) ConnOption {
	return func(c *Conn) {
		c.logger = logger
	}
}

// WithHooks registers hooks fired after every call.
func WithHooks(hooks domain.LifecycleHooks) ConnOption {
	return func(c *Conn) {
		c.hooks = hooks
	}
}

// NewConn starts reading responses from rwc. Close must be called to stop the reader.
func NewConn(rwc io.ReadWriteCloser, opts ...ConnOption) *Conn {
	c := &Conn{
		rwc:     rwc,
		logger:  logging.NewNop(),
		enc:     json.NewEncoder(rwc),
		pending: make(map[string]chan *Response),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.readLoop()
	return c
}

func (c *Conn) readLoop() {
	defer close(c.done)

	scanner := bufio.NewScanner(c.rwc)
	scanner.Buffer(make([]byte, 64*1024), maxLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil || resp.JSONRPC != Version {
			// Bridges may print banners or solver chatter on stdout.
			c.logger.Debug("bridge: ignoring non-protocol line", "line", string(line))
			continue
		}
		if resp.ID == "" {
			c.logger.Debug("bridge: notification", "result", string(resp.Result))
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()
		if !ok {
			c.logger.Warn("bridge: response for unknown request", "id", resp.ID)
			continue
		}
		ch <- &resp
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.fail(fmt.Errorf("%w: %v", ErrClosed, err))
}

// fail records the terminal error and wakes every pending call.
func (c *Conn) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Call sends method with params and decodes the result into out (which may be nil).
func (c *Conn) Call(ctx context.Context, method string, params, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.hooks.OnSolverCall != nil {
			c.hooks.OnSolverCall(ctx, &domain.CallEvent{
				Timestamp: time.Now(),
				Method:    method,
				Duration:  time.Since(start),
				Err:       err,
			})
		}
	}()

	id := uuid.NewString()
	ch := make(chan *Response, 1)

	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return c.err
	}
	c.pending[id] = ch
	c.mu.Unlock()

	c.wmu.Lock()
	werr := c.enc.Encode(Request{JSONRPC: Version, ID: id, Method: method, Params: params})
	c.wmu.Unlock()
	if werr != nil {
		c.forget(id)
		return fmt.Errorf("bridge %s: write: %w", method, werr)
	}
	c.logger.Debug("bridge: call", "method", method, "id", id)

	select {
	case <-ctx.Done():
		c.forget(id)
		return ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			c.mu.Lock()
			defer c.mu.Unlock()
			return c.err
		}
		if resp.Error != nil {
			return &RemoteError{
				Method:  method,
				Code:    resp.Error.Code,
				Message: resp.Error.Message,
				Data:    resp.Error.Data,
			}
		}
		if out != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, out); err != nil {
				return fmt.Errorf("bridge %s: decode result: %w", method, err)
			}
		}
		return nil
	}
}

func (c *Conn) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Close closes the stream and waits for the reader to stop.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.rwc.Close()
		<-c.done
	})
	return err
}

// Done is closed once the reader has stopped.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}
