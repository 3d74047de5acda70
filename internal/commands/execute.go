package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Voice  func() (Result, error)
	Mute   func() (Result, error)
	Unmute func() (Result, error)
	Status func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	var handler func() (Result, error)
	switch cmd.Type {
	case TypeVoice:
		handler = handlers.Voice
	case TypeMute:
		handler = handlers.Mute
	case TypeUnmute:
		handler = handlers.Unmute
	case TypeStatus:
		handler = handlers.Status
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
	if handler == nil {
		return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", cmd.Type)}
	}
	return handler()
}
