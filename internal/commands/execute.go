package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Snooze   func(SnoozeArgs) (Result, error)
	Done     func(ReminderArgs) (Result, error)
	Ignore   func(ReminderArgs) (Result, error)
	Later    func(ReminderArgs) (Result, error)
	Pause    func(PauseArgs) (Result, error)
	Lock     func(ReminderArgs) (Result, error)
	Revert   func(ReminderArgs) (Result, error)
	Move     func(MoveArgs) (Result, error)
	Estimate func(EstimateArgs) (Result, error)
	Log      func(LogArgs) (Result, error)
	Undo     func() (Result, error)
	Reset    func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeSnooze:
		if handlers.Snooze == nil {
			return Result{}, missingHandler("snooze")
		}
		return handlers.Snooze(*cmd.Snooze)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missingHandler("done")
		}
		return handlers.Done(*cmd.Done)
	case TypeIgnore:
		if handlers.Ignore == nil {
			return Result{}, missingHandler("ignore")
		}
		return handlers.Ignore(*cmd.Ignore)
	case TypeLater:
		if handlers.Later == nil {
			return Result{}, missingHandler("later")
		}
		return handlers.Later(*cmd.Later)
	case TypePause:
		if handlers.Pause == nil {
			return Result{}, missingHandler("pause")
		}
		return handlers.Pause(*cmd.Pause)
	case TypeLock:
		if handlers.Lock == nil {
			return Result{}, missingHandler("lock")
		}
		return handlers.Lock(*cmd.Lock)
	case TypeRevert:
		if handlers.Revert == nil {
			return Result{}, missingHandler("revert")
		}
		return handlers.Revert(*cmd.Revert)
	case TypeMove:
		if handlers.Move == nil {
			return Result{}, missingHandler("move")
		}
		return handlers.Move(*cmd.Move)
	case TypeEstimate:
		if handlers.Estimate == nil {
			return Result{}, missingHandler("estimate")
		}
		return handlers.Estimate(*cmd.Estimate)
	case TypeLog:
		if handlers.Log == nil {
			return Result{}, missingHandler("log")
		}
		return handlers.Log(*cmd.Log)
	case TypeUndo:
		if handlers.Undo == nil {
			return Result{}, missingHandler("undo")
		}
		return handlers.Undo()
	case TypeReset:
		if handlers.Reset == nil {
			return Result{}, missingHandler("reset")
		}
		return handlers.Reset()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missingHandler(name string) *CommandError {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", name)}
}
