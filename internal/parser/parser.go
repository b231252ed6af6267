// Package parser turns raw chat text into typed commands.
//
// The grammar is whitespace-tokenized after lower-casing and the rules are
// tried in a fixed order with no backtracking:
//
//	<amount> доход                    -> AddIncome
//	<amount> <category-alias>         -> AddExpense
//	кредит <name> <amount> <day>      -> AddCredit
//	удалить <name>                    -> DeleteCredit
//
// A rule "matches" on its shape and keywords alone; a non-numeric amount or
// day token inside a matched rule is reported as *InvalidNumberError, never
// as an unrecognized command.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"kopilka/internal/core"
)

const (
	wordIncome = "доход"
	wordCredit = "кредит"
	wordDelete = "удалить"
)

// ErrUnrecognized is returned when the input matches none of the grammars.
var ErrUnrecognized = errors.New("unrecognized command")

// InvalidNumberError reports a token that had to be numeric but was not.
type InvalidNumberError struct {
	Token string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("not a number: %q", e.Token)
}

type (
	// Command is one of AddExpense, AddIncome, AddCredit, DeleteCredit.
	Command interface{ command() }

	AddExpense struct {
		Amount   int64
		Category string
	}

	AddIncome struct {
		Amount int64
	}

	AddCredit struct {
		Name   string
		Amount int64
		PayDay int
	}

	DeleteCredit struct {
		Name string
	}
)

func (AddExpense) command()   {}
func (AddIncome) command()    {}
func (AddCredit) command()    {}
func (DeleteCredit) command() {}

// Parse is a pure function: identical input always yields an identical
// command or failure.
func Parse(raw string) (Command, error) {
	tokens := strings.Fields(strings.ToLower(raw))

	switch {
	case len(tokens) == 2 && tokens[1] == wordIncome:
		amount, err := parseAmount(tokens[0])
		if err != nil {
			return nil, err
		}
		return AddIncome{Amount: amount}, nil

	case len(tokens) == 2 && isCategory(tokens[1]):
		key, _ := core.MatchCategory(tokens[1])
		amount, err := parseAmount(tokens[0])
		if err != nil {
			return nil, err
		}
		return AddExpense{Amount: amount, Category: key}, nil

	case len(tokens) == 4 && tokens[0] == wordCredit:
		amount, err := parseAmount(tokens[2])
		if err != nil {
			return nil, err
		}
		day, err := parseDay(tokens[3])
		if err != nil {
			return nil, err
		}
		return AddCredit{Name: tokens[1], Amount: amount, PayDay: day}, nil

	case len(tokens) == 2 && tokens[0] == wordDelete:
		return DeleteCredit{Name: tokens[1]}, nil
	}

	return nil, ErrUnrecognized
}

func isCategory(token string) bool {
	_, ok := core.MatchCategory(token)
	return ok
}

func parseAmount(token string) (int64, error) {
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, &InvalidNumberError{Token: token}
	}
	return n, nil
}

func parseDay(token string) (int, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, &InvalidNumberError{Token: token}
	}
	return n, nil
}
