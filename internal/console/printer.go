package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer writes the user facing output: "[+]" lines and keys to out,
// "[-]" lines to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	ok     *color.Color
	bad    *color.Color
}

func New(out, errOut io.Writer, colored bool) *Printer {
	ok := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)
	if colored {
		ok.EnableColor()
		bad.EnableColor()
	} else {
		ok.DisableColor()
		bad.DisableColor()
	}

	return &Printer{
		out:    out,
		errOut: errOut,
		ok:     ok,
		bad:    bad,
	}
}

func (p *Printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, "%s %s\n", p.ok.Sprint("[+]"), fmt.Sprintf(format, args...))
}

func (p *Printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.errOut, "%s %s\n", p.bad.Sprint("[-]"), fmt.Sprintf(format, args...))
}

func (p *Printer) Println(args ...any) {
	_, _ = fmt.Fprintln(p.out, args...)
}
