package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/localnerve/orgportal/internal/models"
)

// answerRule turns the submitted values for one question into the stored
// answer text. An empty result means the question was left blank.
type answerRule interface {
	normalize(q models.Question, values []string) (string, error)
}

// answerSeparator joins the labels of a multiple choice answer
const answerSeparator = ", "

var answerRules = map[models.QuestionType]answerRule{
	models.QuestionText:           textRule{max: 255},
	models.QuestionTextarea:       textRule{max: 5000, multiline: true},
	models.QuestionRadio:          radioRule{},
	models.QuestionMultipleChoice: multipleChoiceRule{},
}

// normalizeAnswer applies the rule for the question's type
func normalizeAnswer(q models.Question, values []string) (string, error) {
	rule, ok := answerRules[q.Type]
	if !ok {
		return "", fmt.Errorf("The question type %q is not supported.", q.Type)
	}
	return rule.normalize(q, values)
}

type textRule struct {
	max       int
	multiline bool
}

func (r textRule) normalize(_ models.Question, values []string) (string, error) {
	values = nonBlank(values)
	switch len(values) {
	case 0:
		return "", nil
	case 1:
	default:
		return "", errors.New("The answer must be a single value.")
	}

	value := values[0]
	if !r.multiline && strings.ContainsAny(value, "\r\n") {
		return "", errors.New("The answer must be a single line.")
	}
	if utf8.RuneCountInString(value) > r.max {
		return "", fmt.Errorf("The answer may not be greater than %d characters.", r.max)
	}
	return value, nil
}

type radioRule struct{}

func (radioRule) normalize(q models.Question, values []string) (string, error) {
	values = nonBlank(values)
	switch len(values) {
	case 0:
		return "", nil
	case 1:
	default:
		return "", errors.New("Select exactly one option.")
	}
	if !slices.Contains(q.Options, values[0]) {
		return "", fmt.Errorf("The selected option %q is invalid.", values[0])
	}
	return values[0], nil
}

type multipleChoiceRule struct{}

// normalize stores the selected labels in option order
func (multipleChoiceRule) normalize(q models.Question, values []string) (string, error) {
	values = nonBlank(values)
	if len(values) == 0 {
		return "", nil
	}

	selected := make(map[string]bool, len(values))
	for _, v := range values {
		if !slices.Contains(q.Options, v) {
			return "", fmt.Errorf("The selected option %q is invalid.", v)
		}
		if selected[v] {
			return "", fmt.Errorf("The option %q was selected more than once.", v)
		}
		selected[v] = true
	}

	labels := make([]string, 0, len(selected))
	for _, o := range q.Options {
		if selected[o] {
			labels = append(labels, o)
		}
	}
	return strings.Join(labels, answerSeparator), nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
