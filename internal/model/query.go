package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidChoice is returned for a menu answer that is not an index in range.
var ErrInvalidChoice = errors.New("wrong input! try again")

// QueryKind distinguishes free-text questions from numbered menus.
type QueryKind int

const (
	QueryText QueryKind = iota
	QueryMenu
)

// PendingQuery is one open question to the operator.
type PendingQuery struct {
	Kind    QueryKind
	Prompt  string
	Choices []Subsystem
}

func TextQuery(prompt string) *PendingQuery {
	return &PendingQuery{Kind: QueryText, Prompt: prompt}
}

func MenuQuery(prompt string, choices []Subsystem) *PendingQuery {
	return &PendingQuery{Kind: QueryMenu, Prompt: prompt, Choices: choices}
}

// Text renders the prompt, followed by the numbered choices for a menu.
func (q *PendingQuery) Text() string {
	if q.Kind != QueryMenu {
		return q.Prompt
	}
	var b strings.Builder
	b.WriteString(q.Prompt)
	for i, s := range q.Choices {
		fmt.Fprintf(&b, "\n%d - %s", i+1, s)
	}
	return b.String()
}

// Choose parses a 1-based menu answer.
func (q *PendingQuery) Choose(answer string) (Subsystem, error) {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(q.Choices) {
		return 0, ErrInvalidChoice
	}
	return q.Choices[n-1], nil
}
