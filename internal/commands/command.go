package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeSnooze   Type = "snooze"
	TypeDone     Type = "done"
	TypeIgnore   Type = "ignore"
	TypeLater    Type = "later"
	TypePause    Type = "pause"
	TypeLock     Type = "lock"
	TypeRevert   Type = "revert"
	TypeMove     Type = "move"
	TypeEstimate Type = "estimate"
	TypeLog      Type = "log"
	TypeUndo     Type = "undo"
	TypeReset    Type = "reset"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type SnoozeArgs struct {
	ReminderID string
	Minutes    int
}

type ReminderArgs struct {
	ReminderID string
}

// PauseArgs pauses a single reminder, or every reminder when All is set.
type PauseArgs struct {
	ReminderID string
	All        bool
}

type MoveArgs struct {
	AnchorID string
	Start    string
	End      string
}

type EstimateArgs struct {
	Category string
	SubSteps int
}

type LogArgs struct {
	Category   string
	Difficulty string
	SubSteps   int
	Minutes    int
}

type Command struct {
	Type     Type
	Raw      string
	Snooze   *SnoozeArgs
	Done     *ReminderArgs
	Ignore   *ReminderArgs
	Later    *ReminderArgs
	Pause    *PauseArgs
	Lock     *ReminderArgs
	Revert   *ReminderArgs
	Move     *MoveArgs
	Estimate *EstimateArgs
	Log      *LogArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeSnooze:
		return parseSnooze(input, args)
	case TypeDone:
		return parseReminderTarget(TypeDone, input, args)
	case TypeIgnore:
		return parseReminderTarget(TypeIgnore, input, args)
	case TypeLater:
		return parseReminderTarget(TypeLater, input, args)
	case TypePause:
		return parsePause(input, args)
	case TypeLock:
		return parseReminderTarget(TypeLock, input, args)
	case TypeRevert:
		return parseReminderTarget(TypeRevert, input, args)
	case TypeMove:
		return parseMove(input, args)
	case TypeEstimate:
		return parseEstimate(input, args)
	case TypeLog:
		return parseLog(input, args)
	case TypeUndo:
		return Command{Type: TypeUndo, Raw: input}, nil
	case TypeReset:
		return Command{Type: TypeReset, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseSnooze(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "snooze requires a reminder id and minutes"}
	}
	minutes, err := strconv.Atoi(args[1])
	if err != nil || minutes <= 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid snooze minutes: %s", args[1])}
	}
	return Command{Type: TypeSnooze, Raw: raw, Snooze: &SnoozeArgs{ReminderID: args[0], Minutes: minutes}}, nil
}

func parseReminderTarget(t Type, raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a reminder id", t)}
	}
	target := &ReminderArgs{ReminderID: args[0]}
	cmd := Command{Type: t, Raw: raw}
	switch t {
	case TypeDone:
		cmd.Done = target
	case TypeIgnore:
		cmd.Ignore = target
	case TypeLater:
		cmd.Later = target
	case TypeLock:
		cmd.Lock = target
	case TypeRevert:
		cmd.Revert = target
	}
	return cmd, nil
}

func parsePause(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "pause requires a reminder id or 'all'"}
	}
	if strings.ToLower(args[0]) == "all" {
		return Command{Type: TypePause, Raw: raw, Pause: &PauseArgs{All: true}}, nil
	}
	return Command{Type: TypePause, Raw: raw, Pause: &PauseArgs{ReminderID: args[0]}}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "move requires an anchor id and start time"}
	}
	move := &MoveArgs{AnchorID: args[0], Start: args[1]}
	if len(args) > 2 {
		move.End = args[2]
	}
	return Command{Type: TypeMove, Raw: raw, Move: move}, nil
}

func parseEstimate(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "estimate requires a category and sub-step count"}
	}
	steps, err := strconv.Atoi(args[1])
	if err != nil || steps < 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid sub-step count: %s", args[1])}
	}
	return Command{Type: TypeEstimate, Raw: raw, Estimate: &EstimateArgs{Category: strings.ToLower(args[0]), SubSteps: steps}}, nil
}

func parseLog(raw string, args []string) (Command, error) {
	if len(args) < 4 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "log requires category, difficulty, sub-steps, and minutes"}
	}
	steps, err := strconv.Atoi(args[2])
	if err != nil || steps < 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid sub-step count: %s", args[2])}
	}
	minutes, err := strconv.Atoi(args[3])
	if err != nil || minutes <= 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid duration minutes: %s", args[3])}
	}
	return Command{Type: TypeLog, Raw: raw, Log: &LogArgs{
		Category:   strings.ToLower(args[0]),
		Difficulty: strings.ToLower(args[1]),
		SubSteps:   steps,
		Minutes:    minutes,
	}}, nil
}
