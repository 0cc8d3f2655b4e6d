package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Printer writes user-facing output, to STDERR unless redirected.
type Printer struct {
	out io.Writer
}

var _ io.Writer = (*Printer)(nil)

func NewPrinter() *Printer {
	return &Printer{out: os.Stderr}
}

// Redirect sends output to writer from now on.
func (p *Printer) Redirect(writer io.Writer) {
	p.out = writer
}

// IsTerminal reports whether output goes to an interactive terminal.
func (p *Printer) IsTerminal() bool {
	f, ok := p.out.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width is the column count of the terminal, or 0 if output isn't a terminal.
func (p *Printer) Width() int {
	f, ok := p.out.(interface{ Fd() uintptr })
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func (p *Printer) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

func (p *Printer) Print(msg ...any) {
	_, _ = fmt.Fprint(p.out, msg...)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) Println(msg ...any) {
	_, _ = fmt.Fprintln(p.out, msg...)
}
