package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCommand     = errors.New("unknown robot command")
	ErrMissingTableNumber = errors.New("table_number is required for go_to_table")
)

// CommandKind names an instruction the robot understands.
type CommandKind string

const (
	CommandGoToTable  CommandKind = "go_to_table"
	CommandReturnHome CommandKind = "return_home"
	CommandStop       CommandKind = "stop"
)

// Command is a transient instruction for the robot; it is never persisted.
type Command struct {
	Command     CommandKind `json:"command"`
	TableNumber *int        `json:"table_number"`
	OrderID     *int64      `json:"order_id"`
}

// GoToTable builds the delivery command issued when an order becomes ready.
func GoToTable(tableNumber int, orderID int64) Command {
	return Command{Command: CommandGoToTable, TableNumber: &tableNumber, OrderID: &orderID}
}

// Validate checks the command kind and its required arguments.
func (c Command) Validate() error {
	switch c.Command {
	case CommandGoToTable:
		if c.TableNumber == nil {
			return ErrMissingTableNumber
		}
		return nil
	case CommandReturnHome, CommandStop:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, string(c.Command))
	}
}

// Normalized returns the command with its kind trimmed and lower-cased.
func (c Command) Normalized() Command {
	c.Command = CommandKind(strings.ToLower(strings.TrimSpace(string(c.Command))))
	return c
}
