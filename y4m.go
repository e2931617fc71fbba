// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	y4mMagic    = "YUV4MPEG2"
	frameMarker = "FRAME"
)

// ErrBadStream reports a malformed YUV4MPEG2 stream.
var ErrBadStream = errors.New("bounce: malformed YUV4MPEG2 stream")

// Y4MHeader describes a YUV4MPEG2 stream of 4:2:0 frames.
type Y4MHeader struct {
	Width  int
	Height int
	Rate   int // frames per second
}

// String returns the header line without its trailing newline.
func (h Y4MHeader) String() string {
	return fmt.Sprintf("%s W%d H%d F%d:1", y4mMagic, h.Width, h.Height, h.Rate)
}

// FrameSize returns the payload size of one frame.
func (h Y4MHeader) FrameSize() int {
	return FrameSize(h.Width, h.Height)
}

// WriteHeader writes the stream header line.
func WriteHeader(w io.Writer, h Y4MHeader) error {
	_, err := io.WriteString(w, h.String()+"\n")
	return err
}

// WriteFrame writes one frame: the FRAME line followed by the luma, Cb and
// Cr planes of c.
func WriteFrame(w io.Writer, c *Canvas) error {
	if _, err := io.WriteString(w, frameMarker+"\n"); err != nil {
		return err
	}
	_, err := c.WriteTo(w)
	return err
}

// Y4MReader reads frames from a YUV4MPEG2 stream.
//
// Only the W, H and F header parameters are interpreted; the others are
// skipped. Frame payloads are assumed to be 4:2:0.
type Y4MReader struct {
	Header Y4MHeader

	r     *bufio.Reader
	frame []byte
}

// NewY4MReader parses the stream header from r.
func NewY4MReader(r io.Reader) (*Y4MReader, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadStream, err)
	}
	h, err := parseHeader(strings.TrimSuffix(line, "\n"))
	if err != nil {
		return nil, err
	}
	return &Y4MReader{
		Header: h,
		r:      br,
		frame:  make([]byte, h.FrameSize()),
	}, nil
}

// Next returns the next frame payload. The slice is reused by the next
// call. Returns io.EOF at a clean end of stream.
func (y *Y4MReader) Next() ([]byte, error) {
	line, err := y.r.ReadString('\n')
	if err == io.EOF && line == "" {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%w: frame line: %v", ErrBadStream, err)
	}
	if line != frameMarker+"\n" && !strings.HasPrefix(line, frameMarker+" ") {
		return nil, fmt.Errorf("%w: expected %s, got %q", ErrBadStream, frameMarker, line)
	}
	if _, err := io.ReadFull(y.r, y.frame); err != nil {
		return nil, fmt.Errorf("%w: frame payload: %v", ErrBadStream, err)
	}
	return y.frame, nil
}

func parseHeader(line string) (Y4MHeader, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != y4mMagic {
		return Y4MHeader{}, fmt.Errorf("%w: missing %s magic", ErrBadStream, y4mMagic)
	}
	var h Y4MHeader
	for _, f := range fields[1:] {
		var err error
		switch f[0] {
		case 'W':
			h.Width, err = strconv.Atoi(f[1:])
		case 'H':
			h.Height, err = strconv.Atoi(f[1:])
		case 'F':
			h.Rate, err = parseRate(f[1:])
		}
		if err != nil {
			return Y4MHeader{}, fmt.Errorf("%w: parameter %q: %v", ErrBadStream, f, err)
		}
	}
	if h.Width <= 0 || h.Height <= 0 {
		return Y4MHeader{}, fmt.Errorf("%w: missing frame size", ErrBadStream)
	}
	return h, nil
}

// parseRate parses "num:den" and rounds down to whole frames per second.
func parseRate(s string) (int, error) {
	num, den, ok := strings.Cut(s, ":")
	if !ok {
		return 0, errors.New("want num:den")
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, err
	}
	d, err := strconv.Atoi(den)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("zero denominator")
	}
	return n / d, nil
}
