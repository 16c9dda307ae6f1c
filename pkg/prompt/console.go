package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	choiceStyle   = lipgloss.NewStyle().PaddingLeft(2)
	hintStyle     = lipgloss.NewStyle().Faint(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
)

// Console is a Prompter over an interactive terminal.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole creates a Console reading from stdin and writing to stdout.
func NewConsole() *Console {
	return NewConsoleWith(os.Stdin, os.Stdout)
}

// NewConsoleWith creates a Console over explicit streams.
func NewConsoleWith(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// Select implements Prompter. Choices are numbered; the operator answers
// with a number or presses enter for the default.
func (c *Console) Select(message string, choices []string, defaultChoice string) (string, error) {
	fmt.Fprintln(c.out, questionStyle.Render(message))
	for i, choice := range choices {
		marker := " "
		if choice == defaultChoice {
			marker = "*"
		}
		fmt.Fprintln(c.out, choiceStyle.Render(fmt.Sprintf("%s %d) %s", marker, i+1, choice)))
	}
	if defaultChoice != "" {
		fmt.Fprintln(c.out, hintStyle.Render(fmt.Sprintf("enter = %s", defaultChoice)))
	}

	for {
		line, err := c.readLine()
		if err != nil {
			return "", err
		}
		if line == "" && defaultChoice != "" {
			return defaultChoice, nil
		}
		idx, err := strconv.Atoi(line)
		if err == nil && idx >= 1 && idx <= len(choices) {
			return choices[idx-1], nil
		}
		fmt.Fprintln(c.out, warningStyle.Render(fmt.Sprintf("please enter a number between 1 and %d", len(choices))))
	}
}

// MultiSelect implements Prompter. The operator answers with a
// comma-separated list of numbers; an empty answer selects nothing.
func (c *Console) MultiSelect(message string, choices []string) ([]string, error) {
	fmt.Fprintln(c.out, questionStyle.Render(message))
	for i, choice := range choices {
		fmt.Fprintln(c.out, choiceStyle.Render(fmt.Sprintf("  %d) %s", i+1, choice)))
	}
	fmt.Fprintln(c.out, hintStyle.Render("comma-separated numbers, enter for none"))

	for {
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		parts := strings.Split(line, ",")
		selected := make([]string, 0, len(parts))
		ok := true
		for _, part := range parts {
			idx, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || idx < 1 || idx > len(choices) {
				ok = false
				break
			}
			selected = append(selected, choices[idx-1])
		}
		if ok {
			return selected, nil
		}
		fmt.Fprintln(c.out, warningStyle.Render("invalid selection, try again"))
	}
}

// Input implements Prompter.
func (c *Console) Input(message string) (string, error) {
	fmt.Fprintln(c.out, questionStyle.Render(message))
	return c.readLine()
}

// Confirm implements Prompter. The message is shown as a warning; only an
// exact sentinel match confirms.
func (c *Console) Confirm(message, sentinel string) (bool, error) {
	fmt.Fprintln(c.out, warningStyle.Render(message))
	fmt.Fprintln(c.out, hintStyle.Render(fmt.Sprintf("type %q to continue", sentinel)))
	line, err := c.readLine()
	if err != nil {
		return false, err
	}
	return line == sentinel, nil
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}
