package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/archmeta/archmeta-go/internal/feedback"
)

var reviewNotes string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Apply a review decision to a pending feedback",
	Long: `Apply one of the review actions to a feedback:

  llm-approve / llm-reject   first-stage (automated reviewer) verdict on PENDING
  approve / reject           human verdict on LLM_APPROVED MEDIUM/HIGH feedback

SAFE feedback never reaches the human stage; approving or rejecting it as a
human is an invalid transition.`,
}

func init() {
	reviewCmd.PersistentFlags().StringVar(&reviewNotes, "notes", "", "review notes recorded with the decision")

	reviewCmd.AddCommand(
		reviewActionCmd("llm-approve", feedback.ActionLLMApprove, "Record an LLM approval"),
		reviewActionCmd("llm-reject", feedback.ActionLLMReject, "Record an LLM rejection (terminal)"),
		reviewActionCmd("approve", feedback.ActionHumanApprove, "Record a human approval"),
		reviewActionCmd("reject", feedback.ActionHumanReject, "Record a human rejection (terminal)"),
	)
}

func reviewActionCmd(name string, action feedback.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [feedback-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid feedback id %q", args[0])
			}

			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			svc, err := newService(store)
			if err != nil {
				return err
			}

			snap, err := svc.ApplyAction(cmd.Context(), id, action, reviewNotes)
			if err != nil {
				return err
			}

			fmt.Printf("Applied %s.\n", action)
			printSnapshot(snap)
			return nil
		},
	}
}
