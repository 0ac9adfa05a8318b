package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/2toxic/evxx/cmd/ev/root"
	"github.com/2toxic/evxx/internal/logx"
)

type exitCoder interface {
	ExitCode() int
}

type silent interface {
	Silent() bool
}

func main() {
	err := root.Execute(os.Args[1:])
	if err == nil {
		return
	}
	var s silent
	if !errors.As(err, &s) || !s.Silent() {
		// Single-line message, no usage or stack traces.
		msg := strings.Join(strings.Fields(err.Error()), " ")
		if msg == "" {
			msg = "error"
		}
		logx.New(os.Stderr, logx.LevelFatal).Log(context.Background(), logx.LevelFatal, msg)
	}
	code := 1
	var ec exitCoder
	if errors.As(err, &ec) {
		if c := ec.ExitCode(); c != 0 {
			code = c
		}
	}
	os.Exit(code)
}
