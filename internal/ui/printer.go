package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer renders boxes at a fixed width onto one writer, usually stdout
// for results and stderr for failures.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter measures the terminal once; a nil w means os.Stdout.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

func (p *Printer) Writer() io.Writer { return p.out }
func (p *Printer) Width() int        { return p.width }

func (p *Printer) Print(content string)   { fmt.Fprint(p.out, content) }
func (p *Printer) Println(content string) { fmt.Fprintln(p.out, content) }
func (p *Printer) Newline()               { fmt.Fprintln(p.out) }

func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	p.Println(NewHeader(title, command, params).SetWidth(p.width).Render())
	p.Newline()
}

func (p *Printer) PrintSuccess(title string, details map[string]string) {
	p.Println(NewSuccessResult(title, details).SetWidth(p.width).Render())
}

func (p *Printer) PrintWarning(title string, details map[string]string) {
	p.Println(NewWarningResult(title, details).SetWidth(p.width).Render())
}

// PrintError draws a failure box with the given troubleshooting tips.
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}
