// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bounce_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"code.hybscloud.com/bounce"
)

func TestY4MHeader(t *testing.T) {
	h := bounce.Y4MHeader{Width: 1920, Height: 1080, Rate: 30}
	if got, want := h.String(), "YUV4MPEG2 W1920 H1080 F30:1"; got != want {
		t.Fatalf("String: got %q, want %q", got, want)
	}
	if got, want := h.FrameSize(), 3110400; got != want {
		t.Fatalf("FrameSize: got %d, want %d", got, want)
	}

	var buf bytes.Buffer
	if err := bounce.WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if got, want := buf.String(), "YUV4MPEG2 W1920 H1080 F30:1\n"; got != want {
		t.Fatalf("WriteHeader: got %q, want %q", got, want)
	}
}

func TestWriteFrame(t *testing.T) {
	c := newTestBackground(t, 8, 4, 3)
	var buf bytes.Buffer
	if err := bounce.WriteFrame(&buf, c); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	want := append([]byte("FRAME\n"), c.Bytes()...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("WriteFrame: got %d bytes, want FRAME line + %d payload bytes", buf.Len(), len(c.Bytes()))
	}
}

func TestY4MReaderRoundTrip(t *testing.T) {
	h := bounce.Y4MHeader{Width: 16, Height: 8, Rate: 25}
	var buf bytes.Buffer
	if err := bounce.WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	var frames [][]byte
	for seed := range uint64(3) {
		c := newTestBackground(t, 16, 8, seed)
		c.Draw(bounce.Rect{X: 2, Y: 2, W: 4, H: 4}, bounce.Color{Y: 235, Cb: 16, Cr: 240})
		frames = append(frames, bytes.Clone(c.Bytes()))
		if err := bounce.WriteFrame(&buf, c); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}

	r, err := bounce.NewY4MReader(&buf)
	if err != nil {
		t.Fatalf("NewY4MReader: %v", err)
	}
	if r.Header != h {
		t.Fatalf("Header: got %+v, want %+v", r.Header, h)
	}
	for i, want := range frames {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next #%d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Next #%d: payload mismatch", i)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next at end: got %v, want io.EOF", err)
	}
}

func TestY4MReaderHeaderParameters(t *testing.T) {
	r, err := bounce.NewY4MReader(strings.NewReader("YUV4MPEG2 W4 H2 F60000:1001 Ip A1:1 C420jpeg\n"))
	if err != nil {
		t.Fatalf("NewY4MReader: %v", err)
	}
	if r.Header.Width != 4 || r.Header.Height != 2 || r.Header.Rate != 59 {
		t.Fatalf("Header: got %+v, want 4x2 @ 59", r.Header)
	}
}

func TestY4MReaderMalformed(t *testing.T) {
	headers := []string{
		"",
		"MPEG W4 H2 F30:1\n",
		"YUV4MPEG2 W4 F30:1\n",
		"YUV4MPEG2 Wx H2 F30:1\n",
		"YUV4MPEG2 W4 H2 F30\n",
		"YUV4MPEG2 W4 H2 F30:0\n",
	}
	for _, s := range headers {
		if _, err := bounce.NewY4MReader(strings.NewReader(s)); !errors.Is(err, bounce.ErrBadStream) {
			t.Fatalf("header %q: got %v, want ErrBadStream", s, err)
		}
	}

	bodies := []string{
		"FRAME\nshort",
		"FRAMX\n0123456789ab",
		"FRAME", // no newline
	}
	for _, body := range bodies {
		r, err := bounce.NewY4MReader(strings.NewReader("YUV4MPEG2 W4 H2 F30:1\n" + body))
		if err != nil {
			t.Fatalf("NewY4MReader: %v", err)
		}
		if _, err := r.Next(); !errors.Is(err, bounce.ErrBadStream) {
			t.Fatalf("body %q: got %v, want ErrBadStream", body, err)
		}
	}
}
