package controller

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"
	"github.com/tbxark/interviewform/types"
)

const (
	eventSubmit  = "submit"
	eventReject  = "reject"
	eventSucceed = "succeed"
	eventFail    = "fail"
	eventSettle  = "settle"
)

// newStatusMachine builds the submission status machine:
//
//	idle -submit-> in-flight -reject-> idle
//	in-flight -succeed-> succeeded -settle-> idle
//	in-flight -fail-> failed -settle-> idle
func newStatusMachine(logger *slog.Logger) *fsm.FSM {
	idle := string(types.StatusIdle)
	inFlight := string(types.StatusInFlight)
	succeeded := string(types.StatusSucceeded)
	failed := string(types.StatusFailed)

	return fsm.NewFSM(
		idle,
		fsm.Events{
			{Name: eventSubmit, Src: []string{idle}, Dst: inFlight},
			{Name: eventReject, Src: []string{inFlight}, Dst: idle},
			{Name: eventSucceed, Src: []string{inFlight}, Dst: succeeded},
			{Name: eventFail, Src: []string{inFlight}, Dst: failed},
			{Name: eventSettle, Src: []string{succeeded, failed}, Dst: idle},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				logger.Debug("Submission status changed", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
}
