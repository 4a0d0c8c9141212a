// Package notice carries the transient messages shown to the person filling the form.
package notice

import (
	"context"
	"log/slog"
	"time"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

type Code string

const (
	CodeIdentityFailed Code = "identity-failed"
	CodeIdentityAbsent Code = "identity-absent"
	CodeIdentityServer Code = "identity-server"
	CodeSkillDuplicate Code = "skill-duplicate"
	CodeSkillEmpty     Code = "skill-empty"
	CodeInvalidInput   Code = "invalid-input"
	CodeValidation     Code = "validation"
	CodeSubmitSuccess  Code = "submit-success"
	CodeSubmitFailed   Code = "submit-failed"
)

type Notice struct {
	Kind    Kind      `json:"kind"`
	Code    Code      `json:"code"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

func New(kind Kind, code Code, message string) Notice {
	return Notice{Kind: kind, Code: code, Message: message, Time: time.Now()}
}

func Info(code Code, message string) Notice    { return New(KindInfo, code, message) }
func Success(code Code, message string) Notice { return New(KindSuccess, code, message) }
func Warning(code Code, message string) Notice { return New(KindWarning, code, message) }
func Error(code Code, message string) Notice   { return New(KindError, code, message) }

type Notifier interface {
	Notify(n Notice)
}

type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Multi fans a notice out to every non-nil notifier in order.
type Multi []Notifier

func (m Multi) Notify(n Notice) {
	for _, nt := range m {
		if nt != nil {
			nt.Notify(n)
		}
	}
}

type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) Notify(n Notice) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	switch n.Kind {
	case KindWarning:
		level = slog.LevelWarn
	case KindError:
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, n.Message, "kind", n.Kind, "code", n.Code)
}
