package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/tbxark/interviewform/notice"
)

const (
	MsgIdentityAbsent = "no user identifier found; sign in to submit"
	MsgIdentityFailed = "failed to retrieve user information"
)

// Event is the outcome of one identity lookup, delivered to the form controller.
// Exactly one of UserID and Notice is set.
type Event struct {
	UserID string
	Notice *notice.Notice
	Err    error
}

// Resolve performs a single lookup against src and converts every failure into
// a notice. It never returns an error or panics on a nil source.
func Resolve(ctx context.Context, src Source) Event {
	if src == nil {
		return failed(errors.New("identity: no source configured"))
	}

	id, err := src.FetchUserID(ctx)
	if err == nil && id != "" {
		return Event{UserID: id}
	}
	if err == nil {
		err = ErrNoIdentifier
	}

	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrNoIdentifier):
		n := notice.Warning(notice.CodeIdentityAbsent, MsgIdentityAbsent)
		return Event{Notice: &n, Err: err}
	case errors.As(err, &statusErr):
		n := notice.Error(notice.CodeIdentityServer,
			fmt.Sprintf("could not load user information (status %d)", statusErr.StatusCode))
		return Event{Notice: &n, Err: err}
	default:
		return failed(err)
	}
}

func failed(err error) Event {
	n := notice.Error(notice.CodeIdentityFailed, MsgIdentityFailed)
	return Event{Notice: &n, Err: err}
}
