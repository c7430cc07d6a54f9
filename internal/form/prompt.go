package form

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// keepToken keeps the current value of a field.
const keepToken = "."

// Prompter renders Fields on a terminal and reads answers line by line.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Fill asks every field in order. "." keeps the current value; a textarea
// ends at the first empty line. Input ending early keeps the remaining values.
func (p *Prompter) Fill(c *Controller) error {
	for _, field := range Fields {
		current := c.Model().Draft.Value(field.Key)
		value, keep, err := p.ask(field, current)
		if errors.Is(err, io.EOF) {
			if !keep {
				if setErr := c.Set(field.Key, value); setErr != nil {
					return setErr
				}
			}
			return nil
		}
		if err != nil {
			return err
		}
		if keep {
			continue
		}
		if err := c.Set(field.Key, value); err != nil {
			return err
		}
	}
	return nil
}

func (p *Prompter) ask(field Field, current string) (string, bool, error) {
	hint := ""
	switch field.Kind {
	case KindDateTime:
		hint = " (YYYY-MM-DDTHH:MM)"
	case KindDate:
		hint = " (YYYY-MM-DD)"
	case KindTextarea:
		hint = " (end with an empty line)"
	}
	if current != "" {
		fmt.Fprintf(p.out, "%s%s [%s]: ", field.Label, hint, current)
	} else {
		fmt.Fprintf(p.out, "%s%s: ", field.Label, hint)
	}

	if field.Kind != KindTextarea {
		line, err := p.readLine()
		if line == keepToken || (errors.Is(err, io.EOF) && line == "") {
			return "", true, err
		}
		return line, false, err
	}

	var lines []string
	for {
		line, err := p.readLine()
		if len(lines) == 0 && line == keepToken {
			return "", true, err
		}
		if line == "" {
			if errors.Is(err, io.EOF) && len(lines) == 0 {
				return "", true, err
			}
			return strings.Join(lines, "\n"), false, err
		}
		lines = append(lines, line)
		if err != nil {
			return strings.Join(lines, "\n"), false, err
		}
	}
}

// Ask prints label and returns one trimmed line.
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.readLine()
	if errors.Is(err, io.EOF) && line != "" {
		return line, nil
	}
	return line, err
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	return strings.TrimSpace(line), err
}

// Render writes the model as "Label: value" lines followed by the notice.
func Render(w io.Writer, m Model) {
	for _, field := range Fields {
		fmt.Fprintf(w, "%-34s %s\n", field.Label+":", m.Draft.Value(field.Key))
	}
	fmt.Fprintf(w, "%-34s %s\n", "Customer Image:", m.Draft.CustomerImage)
	if m.Notice != "" {
		fmt.Fprintf(w, "\n%s\n", m.Notice)
	}
}
