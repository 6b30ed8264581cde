package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// Style picks the terminal widget used for a question.
type Style int

const (
	StyleLine Style = iota
	StyleSecret
	StyleMultiline
	StyleConfirm
	StyleChoice
	StyleChoices
)

func (s Style) String() string {
	switch s {
	case StyleSecret:
		return "secret"
	case StyleMultiline:
		return "multiline"
	case StyleConfirm:
		return "confirm"
	case StyleChoice:
		return "choice"
	case StyleChoices:
		return "choices"
	default:
		return "line"
	}
}

// Question is one prompt derived from a property.
type Question struct {
	Path    string
	Message string
	Help    string
	Style   Style
	// Text seeds line and multiline questions.
	Text string
	// Yes seeds confirm questions.
	Yes bool
	// Options and Picked drive choice questions; Picked holds option indices.
	Options []string
	Picked  []int
}

// Answer carries the reply for the question's style.
type Answer struct {
	Text   string
	Yes    bool
	Picked []int
}

// Asker puts questions to a person. Fill flows are tested against scripted
// askers.
type Asker interface {
	Ask(ctx context.Context, q Question) (Answer, error)
	Tell(ctx context.Context, msg string) error
}

type surveyAsker struct {
	out io.Writer
}

// NewSurveyAsker returns an Asker backed by survey. Tell writes to out,
// os.Stdout when nil.
func NewSurveyAsker(out io.Writer) Asker {
	if out == nil {
		out = os.Stdout
	}
	return &surveyAsker{out: out}
}

func (a *surveyAsker) Ask(ctx context.Context, q Question) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}
	var (
		answer Answer
		err    error
	)
	switch q.Style {
	case StyleSecret:
		err = survey.AskOne(&survey.Password{Message: q.Message, Help: q.Help}, &answer.Text)
	case StyleMultiline:
		err = survey.AskOne(&survey.Multiline{Message: q.Message, Help: q.Help, Default: q.Text}, &answer.Text)
	case StyleConfirm:
		err = survey.AskOne(&survey.Confirm{Message: q.Message, Help: q.Help, Default: q.Yes}, &answer.Yes)
	case StyleChoice:
		var picked int
		widget := &survey.Select{Message: q.Message, Help: q.Help, Options: q.Options}
		if len(q.Picked) > 0 && q.Picked[0] < len(q.Options) {
			widget.Default = q.Options[q.Picked[0]]
		}
		err = survey.AskOne(widget, &picked)
		answer.Picked = []int{picked}
	case StyleChoices:
		widget := &survey.MultiSelect{Message: q.Message, Help: q.Help, Options: q.Options}
		if defaults := optionsAt(q.Options, q.Picked); len(defaults) > 0 {
			widget.Default = defaults
		}
		err = survey.AskOne(widget, &answer.Picked)
	default:
		err = survey.AskOne(&survey.Input{Message: q.Message, Help: q.Help, Default: q.Text}, &answer.Text)
	}
	if errors.Is(err, terminal.InterruptErr) {
		return Answer{}, ErrAborted
	}
	if err != nil {
		return Answer{}, fmt.Errorf("prompt: %s: %w", q.Path, err)
	}
	return answer, nil
}

func (a *surveyAsker) Tell(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.out, msg)
	return err
}

func optionsAt(options []string, indices []int) []string {
	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}
