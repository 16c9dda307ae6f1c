package prompt

// Fixed is a Prompter that replays scripted answers in order. Select,
// MultiSelect and Input each consume one answer; Confirm is governed by
// AutoConfirm and consumes nothing. Used in tests and headless runs.
type Fixed struct {
	// Answers are consumed front to back. MultiSelect answers hold the
	// chosen values directly.
	Answers []any
	// AutoConfirm is returned by every Confirm call.
	AutoConfirm bool
}

// Select implements Prompter. An empty scripted answer picks the default.
func (f *Fixed) Select(_ string, _ []string, defaultChoice string) (string, error) {
	answer, err := f.next()
	if err != nil {
		return "", err
	}
	s, ok := answer.(string)
	if !ok {
		return "", ErrInvalidChoice
	}
	if s == "" {
		return defaultChoice, nil
	}
	return s, nil
}

// MultiSelect implements Prompter.
func (f *Fixed) MultiSelect(_ string, _ []string) ([]string, error) {
	answer, err := f.next()
	if err != nil {
		return nil, err
	}
	values, ok := answer.([]string)
	if !ok {
		return nil, ErrInvalidChoice
	}
	return values, nil
}

// Input implements Prompter.
func (f *Fixed) Input(_ string) (string, error) {
	answer, err := f.next()
	if err != nil {
		return "", err
	}
	s, ok := answer.(string)
	if !ok {
		return "", ErrInvalidChoice
	}
	return s, nil
}

// Confirm implements Prompter.
func (f *Fixed) Confirm(_, _ string) (bool, error) {
	return f.AutoConfirm, nil
}

func (f *Fixed) next() (any, error) {
	if len(f.Answers) == 0 {
		return nil, ErrNoAnswers
	}
	answer := f.Answers[0]
	f.Answers = f.Answers[1:]
	return answer, nil
}
