// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"gisthub/cli/internal/bridge/model"
	"gisthub/cli/internal/logging"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

// Tabular is an item that renders as a table row.
type Tabular interface {
	TableHeader() []string
	TableRow() []string
}

// Prompter asks a yes/no question.
type Prompter func(question string) (bool, error)

// Options configures a Host.
type Options struct {
	// Out receives items; Err receives records and diagnostics.
	Out io.Writer
	Err io.Writer

	Verbose bool
	Debug   bool
	// Yes accepts every confirmation without asking.
	Yes bool
	// WhatIf describes every confirmed action and declines it.
	WhatIf bool
	// JSON writes items as one JSON document per line.
	JSON bool
	// Interactive allows prompts and spinners.
	Interactive bool
	// Prompt replaces the interactive confirm prompt.
	Prompt Prompter
}

// Host implements bridge.Host on a terminal. It is driven from a single
// goroutine and is not safe for concurrent use.
type Host struct {
	opts Options

	verbose pterm.PrefixPrinter
	debug   pterm.PrefixPrinter

	header []string
	rows   [][]string

	spinner *pterm.SpinnerPrinter
	errors  int
}

// New creates a host writing to opts.Out and opts.Err (stdout and stderr by
// default).
func New(opts Options) *Host {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Prompt == nil {
		opts.Prompt = interactiveConfirm
	}

	debug := pterm.Debug
	debug.Debugger = false
	return &Host{
		opts: opts,
		verbose: pterm.PrefixPrinter{
			Prefix:       pterm.Prefix{Text: "VERBOSE", Style: pterm.NewStyle(pterm.BgGray, pterm.FgLightWhite)},
			MessageStyle: pterm.NewStyle(pterm.FgGray),
		},
		debug: debug,
	}
}

// ErrorCount returns the number of error records written so far.
func (h *Host) ErrorCount() int { return h.errors }

// WriteItem writes one output item. Tabular items are collected into a
// table that is rendered when an item of another shape arrives or on Flush.
func (h *Host) WriteItem(item any, path string, isContainer bool) {
	h.stopProgress()
	if h.opts.JSON {
		if err := json.NewEncoder(h.opts.Out).Encode(item); err != nil {
			zap.L().Warn("encode item", zap.String("path", path), zap.Error(err))
		}
		return
	}

	t, ok := item.(Tabular)
	if !ok {
		h.Flush()
		fmt.Fprintln(h.opts.Out, item)
		return
	}
	header := t.TableHeader()
	if !slices.Equal(header, h.header) {
		h.Flush()
		h.header = header
	}
	h.rows = append(h.rows, t.TableRow())
}

// Flush renders any buffered table rows.
func (h *Host) Flush() {
	if len(h.rows) == 0 {
		h.header = nil
		return
	}
	data := pterm.TableData{h.header}
	width := Width()
	for _, row := range h.rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = truncate(c, width/2)
		}
		data = append(data, cells)
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		zap.L().Warn("render table", zap.Error(err))
	} else {
		fmt.Fprintln(h.opts.Out, out)
	}
	h.header, h.rows = nil, nil
}

// WriteError prints a non-terminating error record.
func (h *Host) WriteError(rec *model.ErrorRecord) {
	h.stopProgress()
	h.errors++
	zap.L().Info("error record",
		zap.String("id", rec.ID),
		zap.String("category", string(rec.Category)),
		zap.String("target", rec.Target),
		zap.String("message", logging.Mask(rec.Message())))

	fmt.Fprint(h.opts.Err, pterm.Error.Sprintln(rec.Message()))
	if h.opts.Verbose {
		fmt.Fprint(h.opts.Err, h.verbose.Sprintfln("%s (%s) at '%s'", rec.ID, rec.Category, rec.Target))
	}
}

func (h *Host) WriteWarning(text string) {
	h.stopProgress()
	fmt.Fprint(h.opts.Err, pterm.Warning.Sprintln(text))
}

func (h *Host) WriteVerbose(text string) {
	if !h.opts.Verbose {
		return
	}
	h.stopProgress()
	fmt.Fprint(h.opts.Err, h.verbose.Sprintln(logging.Mask(text)))
}

func (h *Host) WriteDebug(text string) {
	if !h.opts.Debug {
		return
	}
	h.stopProgress()
	fmt.Fprint(h.opts.Err, h.debug.Sprintln(logging.Mask(text)))
}

func (h *Host) WriteInformation(rec model.InformationRecord) {
	h.stopProgress()
	fmt.Fprint(h.opts.Err, pterm.Info.Sprintln(rec.Message))
}

// WriteProgress shows a spinner for the activity until a completed record
// arrives. Without an interactive terminal progress is only logged.
func (h *Host) WriteProgress(rec model.ProgressRecord) {
	text := rec.Activity
	if rec.Status != "" {
		text += ": " + rec.Status
	}
	zap.L().Debug("progress", zap.String("activity", rec.Activity), zap.Int("percent", rec.Percent), zap.Bool("completed", rec.Completed))

	if rec.Completed {
		h.stopProgress()
		return
	}
	if !h.opts.Interactive {
		return
	}
	if h.spinner != nil {
		h.spinner.UpdateText(text)
		return
	}
	cursor.Hide()
	sp, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).WithWriter(h.opts.Err).Start(text)
	if err != nil {
		cursor.Show()
		return
	}
	h.spinner = sp
}

func (h *Host) stopProgress() {
	if h.spinner == nil {
		return
	}
	_ = h.spinner.Stop()
	h.spinner = nil
	cursor.Show()
}

// Confirm asks whether action may be performed on target. --what-if
// describes the action and declines, --yes accepts, and without a terminal
// to ask on the action is declined with a warning.
func (h *Host) Confirm(target, action string) bool {
	h.stopProgress()
	h.Flush()
	desc := fmt.Sprintf("Performing the operation %q on target %q.", action, target)

	switch {
	case h.opts.WhatIf:
		fmt.Fprintln(h.opts.Out, "What if: "+desc)
		return false
	case h.opts.Yes:
		return true
	case !h.opts.Interactive:
		h.WriteWarning(desc + " Skipped: no terminal to confirm on; pass --yes to proceed.")
		return false
	}

	ok, err := h.opts.Prompt(desc + " Continue?")
	if err != nil {
		zap.L().Warn("confirm prompt failed", zap.Error(err))
		return false
	}
	return ok
}

// Close flushes buffered output and stops any spinner.
func (h *Host) Close() {
	h.stopProgress()
	h.Flush()
}

func interactiveConfirm(question string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultText(question).
		WithDefaultValue(false).
		Show()
}
