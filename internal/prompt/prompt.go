// Package prompt asks the user yes/no style questions on the terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var parens = strings.NewReplacer("(", "", ")", "")

var labels = map[string]string{
	"y": "(y)es",
	"n": "(n)o",
	"s": "(s)kip",
}

// Terminal reads answers line by line from an input stream.
type Terminal struct {
	mu       sync.Mutex
	in       *bufio.Reader
	out      io.Writer
	question func(a ...interface{}) string
}

// NewTerminal creates a prompter reading stdin and writing stdout.
func NewTerminal() *Terminal {
	return NewTerminalWithIO(os.Stdin, os.Stdout)
}

func NewTerminalWithIO(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:       bufio.NewReader(in),
		out:      out,
		question: color.New(color.FgCyan, color.Bold).SprintFunc(),
	}
}

// Confirm returns true only for "y" or "yes".
func (t *Terminal) Confirm(question string) bool {
	return t.Choose(question, "y", "n") == "y"
}

// Choose repeats the question until one of options is answered, either by
// its letter or by the full word. End of input yields "".
func (t *Terminal) Choose(question string, options ...string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	hints := make([]string, len(options))
	for i, o := range options {
		if label, ok := labels[o]; ok {
			hints[i] = label
		} else {
			hints[i] = "(" + o + ")"
		}
	}

	for {
		fmt.Fprintf(t.out, "%s %s: ", t.question(question), strings.Join(hints, "/"))
		line, err := t.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		for i, o := range options {
			if answer == o || answer == parens.Replace(hints[i]) {
				return o
			}
		}
		if err != nil {
			fmt.Fprintln(t.out)
			return ""
		}
	}
}

// Auto answers every question without asking.
type Auto struct {
	Yes bool
}

func (a Auto) Confirm(string) bool { return a.Yes }

// Choose picks "y" when Yes is set, "n" otherwise, falling back to the
// first option when the preferred one is not offered.
func (a Auto) Choose(_ string, options ...string) string {
	want := "n"
	if a.Yes {
		want = "y"
	}
	for _, o := range options {
		if o == want {
			return o
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return ""
}
