package agent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tbxark/interviewform/controller"
	"github.com/tbxark/interviewform/form"
	"github.com/tbxark/interviewform/notice"
	"github.com/tbxark/interviewform/types"
	"github.com/tbxark/interviewform/validate"
)

const helpText = `Commands:
  set type <technical|behavioral|mixed>
  set role <job title>
  set level <entry|mid|senior|staff|manager>
  set amount <3|5|10|15|20>
  add <skill>             add a skill tag
  remove <skill>          remove a skill tag
  pending <text>, enter   type a skill, then add it
  show                    print the form
  refresh                 look up your user information again
  submit                  generate the interview
  quit                    discard the form`

func renderNotice(n notice.Notice) string {
	return fmt.Sprintf("[%s] %s", n.Kind, n.Message)
}

// nextStep points at the first thing that still blocks submission.
func nextStep(ctrl *controller.Controller) string {
	if ctrl.Status() == types.StatusInFlight {
		return "A submission is in progress."
	}
	if ctrl.CanSubmit() {
		return "Everything is filled in. Type \"submit\" to generate the interview."
	}
	res := validate.Validate(ctrl.Snapshot())
	if res.Field.Description != "" {
		return fmt.Sprintf("Next: %s (%s).", res.Message, res.Field.Description)
	}
	return fmt.Sprintf("Next: %s.", res.Message)
}

// storeFailure renders an unexpected form error. Input mistakes are left out
// because the controller already reports them as notices.
func storeFailure(action string, err error) (string, bool) {
	if err == nil || errors.Is(err, form.ErrInvalidNumber) || errors.Is(err, form.ErrUnknownField) {
		return "", false
	}
	return fmt.Sprintf("Could not %s: %v", action, err), true
}

func describeOutcome(out controller.Outcome) []string {
	if out.Ignored {
		return []string{"A submission is already in progress; please wait for it to finish."}
	}
	if out.Result == nil || len(out.Result.Questions) == 0 {
		return nil
	}
	lines := []string{"Questions:"}
	for i, q := range out.Result.Questions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(q)))
	}
	return lines
}
