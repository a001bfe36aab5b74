package domain

import "strconv"

const (
	PositionHome = "home"

	ResultSuccess = "success"
	ResultError   = "error"
)

// TablePosition is the position string the robot reports while parked at a table.
func TablePosition(tableNumber int) string {
	return "table_" + strconv.Itoa(tableNumber)
}

// Status is a snapshot of the robot state.
type Status struct {
	Connected       bool   `json:"connected"`
	CurrentPosition string `json:"current_position"`
}

// Result acknowledges a command. Failures are reported with Status "error"
// rather than as transport errors.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func Success(message string) Result {
	return Result{Status: ResultSuccess, Message: message}
}

func Failure(err error) Result {
	return Result{Status: ResultError, Message: err.Error()}
}

func (r Result) OK() bool {
	return r.Status == ResultSuccess
}
