package main

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/tbxark/interviewform/form"
	"github.com/tbxark/interviewform/generate"
	"github.com/tbxark/interviewform/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate form values without submitting them",
	Long:  "Builds the form from flags, runs the submission checks and prints the request that would be sent. Exits with status 1 when the form would be rejected.",
	RunE:  runValidate,
}

var (
	validateForm   formFlags
	validateUserID string
)

func init() {
	validateCmd.Flags().StringVar(&validateForm.interviewType, "type", "", "Interview type")
	validateCmd.Flags().StringVar(&validateForm.role, "role", "", "Role")
	validateCmd.Flags().StringVar(&validateForm.level, "level", "", "Experience level")
	validateCmd.Flags().StringVar(&validateForm.skills, "skills", "", "Comma separated skills")
	validateCmd.Flags().IntVar(&validateForm.amount, "amount", 0, "Number of questions")
	validateCmd.Flags().StringVar(&validateUserID, "userid", "", "User identifier")

	rootCmd.AddCommand(validateCmd)
}

type validateReport struct {
	Valid   bool              `json:"valid"`
	Message string            `json:"message,omitempty"`
	Field   string            `json:"field,omitempty"`
	Payload *generate.Payload `json:"payload,omitempty"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	store := form.NewStore()
	if err := store.Prefill(validateForm.state()); err != nil {
		return err
	}
	if _, err := store.ResolveUserID(validateUserID); err != nil {
		return err
	}

	snapshot := store.Snapshot()
	report := validateReport{Valid: true}
	if res := validate.Validate(snapshot); !res.OK {
		report = validateReport{Message: res.Message, Field: res.Field.Name}
	} else {
		payload := generate.NewPayload(snapshot)
		report.Payload = &payload
		if err := generate.ValidatePayload(payload); err != nil {
			report.Valid = false
			report.Message = err.Error()
		}
	}

	data, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	if !report.Valid {
		cmd.SilenceUsage = true
		return errors.New(report.Message)
	}
	return nil
}
