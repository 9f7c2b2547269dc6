// Package log provides slog attribute helpers shared across veriflow
package log

import "log/slog"

func Engine[T ~string](name T) slog.Attr {
	return slog.String("engine", string(name))
}

func Instruction[T ~string](id T) slog.Attr {
	return slog.String("instruction", string(id))
}

func Action[T ~string](id T) slog.Attr {
	return slog.String("action_id", string(id))
}

func Step(index int) slog.Attr {
	return slog.Int("step", index)
}

func Path(p string) slog.Attr {
	return slog.String("path", p)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
