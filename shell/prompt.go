package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// Prompter reads answers line by line. Secrets are read without echo when
// the input is a terminal.
type Prompter struct {
	sc     *bufio.Scanner
	out    io.Writer
	secret func() (string, error)
}

// NewPrompter reads from in and writes prompts to out. Secrets are read as
// plain lines.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{sc: bufio.NewScanner(in), out: out}
}

// NewTerminalPrompter is NewPrompter on stdin/stdout with masked password input.
func NewTerminalPrompter() *Prompter {
	p := NewPrompter(os.Stdin, os.Stdout)
	if term.IsTerminal(int(syscall.Stdin)) {
		p.secret = func() (string, error) {
			b, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(p.out) // Add newline after password input
			return string(b), err
		}
	}
	return p
}

func (p *Prompter) Printf(format string, args ...any) { fmt.Fprintf(p.out, format, args...) }
func (p *Prompter) Println(args ...any)               { fmt.Fprintln(p.out, args...) }

// Raw prints prompt and returns the next line as typed. ok is false at end of input.
func (p *Prompter) Raw(prompt string) (string, bool) {
	fmt.Fprint(p.out, prompt)
	if !p.sc.Scan() {
		return "", false
	}
	return strings.TrimRight(p.sc.Text(), "\r"), true
}

// Line is Raw with surrounding whitespace removed.
func (p *Prompter) Line(prompt string) (string, bool) {
	s, ok := p.Raw(prompt)
	return strings.TrimSpace(s), ok
}

// Secret reads a password.
func (p *Prompter) Secret(prompt string) (string, bool) {
	if p.secret == nil {
		return p.Raw(prompt)
	}
	fmt.Fprint(p.out, prompt)
	s, err := p.secret()
	if err != nil {
		return "", false
	}
	return s, true
}

// AskDirectory asks where the database should live. It satisfies
// library.DirPrompter.
func (p *Prompter) AskDirectory(reason string) (string, error) {
	p.Println(styleError.Render("Database unavailable: " + reason))
	dir, ok := p.Line("Enter a data directory for the library database (empty to cancel): ")
	if !ok {
		return "", io.EOF
	}
	return dir, nil
}
