package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Console reads utterances line by line and writes questions to out.
// Blank lines are skipped.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

// NewConsole returns a console reading from in and writing to out.
// prompt is printed before each read, e.g. "> ".
func NewConsole(in io.Reader, out io.Writer, prompt string) *Console {
	return &Console{scanner: bufio.NewScanner(in), out: out, prompt: prompt}
}

// Next returns the next non-blank line, or io.EOF.
func (c *Console) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if c.prompt != "" {
			fmt.Fprint(c.out, c.prompt)
		}
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		if line := strings.TrimSpace(c.scanner.Text()); line != "" {
			return line, nil
		}
	}
}

// Ask writes the question on its own line.
func (c *Console) Ask(question string) error {
	_, err := fmt.Fprintln(c.out, question)
	return err
}
