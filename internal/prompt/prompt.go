package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

//go:generate mockgen -source=prompt.go -destination=./prompt_mock.go -package=prompt

type Prompter interface {
	Ask(label string) (string, error)
}

// Line asks questions on w and reads one line answers from r.
type Line struct {
	r *bufio.Reader
	w io.Writer
}

func NewLine(r io.Reader, w io.Writer) *Line {
	return &Line{r: bufio.NewReader(r), w: w}
}

func (l *Line) Ask(label string) (string, error) {
	if _, err := fmt.Fprint(l.w, label); err != nil {
		return "", err
	}

	s, err := l.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}

	return strings.TrimSpace(s), nil
}

// Field is a value that must end up non-empty.
type Field struct {
	Label string
	Value *string
}

// Complete asks for every empty field until all of them are filled.
func Complete(p Prompter, fields ...Field) error {
	for !filled(fields) {
		for _, f := range fields {
			if *f.Value != "" {
				continue
			}
			v, err := p.Ask(f.Label)
			if err != nil {
				return fmt.Errorf("read %q: %w", strings.TrimSpace(f.Label), err)
			}
			*f.Value = v
		}
	}
	return nil
}

func filled(fields []Field) bool {
	for _, f := range fields {
		if *f.Value == "" {
			return false
		}
	}
	return true
}
