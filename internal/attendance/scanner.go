// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attendance implements the attendance capture flow.
package attendance

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// DefaultFPS is the camera polling rate.
const DefaultFPS = 10

// Scanner yields decoded QR text. Scan blocks until text is available, the
// source is exhausted (io.EOF) or ctx ends.
type Scanner interface {
	Scan(ctx context.Context) (string, error)
}

// =============================================================================
// CAMERA POLLING
// =============================================================================

// Decoder attempts to decode one camera frame. ok is false when the frame
// held no readable code.
type Decoder interface {
	Decode(ctx context.Context) (text string, ok bool, err error)
}

// PollScanner polls a Decoder at a fixed frame rate.
type PollScanner struct {
	decoder Decoder
	limiter *rate.Limiter
}

// NewPollScanner polls decoder fps times per second.
func NewPollScanner(decoder Decoder, fps int) *PollScanner {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &PollScanner{
		decoder: decoder,
		limiter: rate.NewLimiter(rate.Limit(fps), 1),
	}
}

// Scan polls until a frame decodes.
func (p *PollScanner) Scan(ctx context.Context) (string, error) {
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", err
		}
		text, ok, err := p.decoder.Decode(ctx)
		if err != nil {
			return "", err
		}
		if ok && text != "" {
			return text, nil
		}
	}
}

// ExecDecoder runs a command per frame and treats its trimmed stdout as the
// decoded text, e.g. `zbarimg --raw -q /dev/shm/frame.png`. A non-zero exit
// status means no code was found.
type ExecDecoder struct {
	Name string
	Args []string
}

// Decode runs the command once.
func (d ExecDecoder) Decode(ctx context.Context) (string, bool, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, d.Name, d.Args...)
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", false, nil
		}
		return "", false, err
	}
	text := strings.TrimSpace(out.String())
	return text, text != "", nil
}

// =============================================================================
// LINE INPUT
// =============================================================================

// LineScanner reads one decoded text per line. HID barcode readers type the
// URL followed by Enter; continuous decoders such as `zbarcam --raw` print
// one line per code.
type LineScanner struct {
	once      sync.Once
	closeOnce sync.Once
	r         io.Reader
	lines     chan string
	done      chan struct{}
	err       error
}

// NewLineScanner reads lines from r. Call Close when done scanning.
func NewLineScanner(r io.Reader) *LineScanner {
	return &LineScanner{r: r, lines: make(chan string), done: make(chan struct{})}
}

func (l *LineScanner) start() {
	go func() {
		defer close(l.lines)
		sc := bufio.NewScanner(l.r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			select {
			case l.lines <- line:
			case <-l.done:
				return
			}
		}
		l.err = sc.Err()
	}()
}

// Scan returns the next non-blank line. After Close it returns io.EOF.
func (l *LineScanner) Scan(ctx context.Context) (string, error) {
	select {
	case <-l.done:
		return "", io.EOF
	default:
	}
	l.once.Do(l.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-l.done:
		return "", io.EOF
	case line, ok := <-l.lines:
		if !ok {
			if l.err != nil {
				return "", l.err
			}
			return "", io.EOF
		}
		return line, nil
	}
}

// Close stops the reader goroutine. A read already blocked on r ends at the
// next line or EOF and the line is dropped.
func (l *LineScanner) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	return nil
}

// =============================================================================
// CAPTURE LOOP
// =============================================================================

// ScanUntilSession feeds scanned text into c until one carries a session
// token and returns that token. Unusable scans are skipped.
func ScanUntilSession(ctx context.Context, c *Capture, s Scanner) (string, error) {
	c.StartScanning()
	defer c.StopScanning()

	for {
		text, err := s.Scan(ctx)
		if err != nil {
			return "", err
		}
		req, err := c.Scanned(text)
		if errors.Is(err, ErrNoSession) {
			continue
		}
		if err != nil {
			return "", err
		}
		return req.SessionCode, nil
	}
}
