package deepgram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const defaultWriteTimeout = 5 * time.Second

// AudioSource yields raw 16-bit little-endian PCM.
type AudioSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// CommandSource captures audio from a recorder command's stdout, for example
// "arecord -q -f S16_LE -r 16000 -c 1 -t raw".
type CommandSource struct {
	Command string
}

// NewCommandSource returns nil when command is blank so that the recognizer
// reports itself unsupported.
func NewCommandSource(command string) AudioSource {
	if strings.TrimSpace(command) == "" {
		return nil
	}
	return &CommandSource{Command: command}
}

// Open starts the recorder. Closing the returned reader kills it.
func (s *CommandSource) Open(ctx context.Context) (io.ReadCloser, error) {
	fields := strings.Fields(s.Command)
	if len(fields) == 0 {
		return nil, errors.New("empty recorder command")
	}
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("recorder stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start recorder %q: %w", fields[0], err)
	}
	return &commandReader{ReadCloser: stdout, cmd: cmd, cancel: cancel}, nil
}

type commandReader struct {
	io.ReadCloser
	cmd    *exec.Cmd
	cancel context.CancelFunc
	once   sync.Once
	err    error
}

func (r *commandReader) Close() error {
	r.once.Do(func() {
		r.cancel()
		_ = r.ReadCloser.Close()
		if err := r.cmd.Wait(); err != nil && !isKilled(err) {
			r.err = err
		}
	})
	return r.err
}

func isKilled(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) || errors.Is(err, context.Canceled)
}
