package prompt

import "errors"

var (
	// ErrNoAnswers indicates a Fixed prompter ran out of scripted answers.
	ErrNoAnswers = errors.New("no scripted answers left")

	// ErrInvalidChoice indicates the operator's selection was not among the
	// offered choices.
	ErrInvalidChoice = errors.New("invalid choice")
)

// Prompter collects operator decisions.
type Prompter interface {
	// Select asks the operator to pick one of choices. An empty response
	// selects defaultChoice when it is non-empty.
	Select(message string, choices []string, defaultChoice string) (string, error)

	// MultiSelect asks the operator to pick any subset of choices.
	MultiSelect(message string, choices []string) ([]string, error)

	// Input asks for a free-form line of text.
	Input(message string) (string, error)

	// Confirm shows a warning and requires the operator to type sentinel
	// exactly. Returns false when anything else is entered.
	Confirm(message, sentinel string) (bool, error)
}
