package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mmdfmt/internal/driver"
	"mmdfmt/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

type formatOutcome struct {
	report *driver.FormatReport
	err    error
}

// runFormatWithUI runs the driver in the background and renders its
// progress events until the run finishes.
func runFormatWithUI(ctx context.Context, paths []string, opts driver.FormatOptions, out io.Writer) (*driver.FormatReport, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		report, err := driver.FormatPaths(ctx, paths, opts)
		outcomeCh <- formatOutcome{report: report, err: err}
		close(events)
	}()

	uiErr := ui.RunProgress("formatting", events, out)
	if uiErr != nil {
		// UI упал: дочитываем события, чтобы воркеры не заблокировались
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
