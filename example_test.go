// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// This file contains examples that run the producer and consumer
// goroutines. The gate synchronizes them with atomix operations, which the
// race detector cannot see, so the examples are excluded from race testing.

package bounce_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"code.hybscloud.com/bounce"
)

// ExampleBuilder renders a short stream and reads it back.
func ExampleBuilder() {
	var stream bytes.Buffer
	p, err := bounce.New(64, 48).
		Square(16, 16).
		Frames(12).
		Seed(1).
		Logger(slog.New(slog.DiscardHandler)).
		Build(&stream)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := p.Run(context.Background()); err != nil {
		fmt.Println(err)
		return
	}

	r, err := bounce.NewY4MReader(&stream)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(r.Header)
	n := 0
	for {
		if _, err := r.Next(); err == io.EOF {
			break
		} else if err != nil {
			fmt.Println(err)
			return
		}
		n++
	}
	fmt.Println("frames:", n)
	fmt.Println("step:", p.Step())

	// Output:
	// YUV4MPEG2 W64 H48 F30:1
	// frames: 12
	// step: 16
}

// ExampleBuilder_OnFrame observes every frame as the consumer writes it.
func ExampleBuilder_OnFrame() {
	p, err := bounce.New(200, 200).
		Square(60, 60).
		Frames(9).
		Seed(1).
		Logger(slog.New(slog.DiscardHandler)).
		OnFrame(func(info bounce.FrameInfo, _ *bounce.Canvas) {
			fmt.Println(info.Seq, info.Run, info.Rect)
		}).
		Build(io.Discard)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := p.Run(context.Background()); err != nil {
		fmt.Println(err)
	}

	// Output:
	// 0 1 60x60+0+0
	// 1 1 60x60+20+20
	// 2 1 60x60+40+40
	// 3 1 60x60+60+60
	// 4 1 60x60+80+80
	// 5 1 60x60+100+100
	// 6 1 60x60+120+120
	// 7 1 60x60+140+140
	// 8 2 60x60+140+140
}

func ExampleCanvas_Draw() {
	c, err := bounce.NewBackground(8, 4, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		fmt.Println(err)
		return
	}
	c.Draw(bounce.Rect{X: 2, Y: 0, W: 4, H: 2}, bounce.Color{Y: 0xEB, Cb: 0x10, Cr: 0xF0})
	fmt.Printf("%#x %#x %#x\n", c.Y.Get(3, 1), c.Cb.Get(1, 0), c.Cr.Get(2, 0))
	fmt.Printf("%#x\n", c.Cb.Get(0, 0))
	fmt.Println(len(c.Bytes()) == bounce.FrameSize(8, 4))

	// Output:
	// 0xeb 0x10 0xf0
	// 0x80
	// true
}
