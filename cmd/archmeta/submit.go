package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archmeta/archmeta-go/internal/feedback"
)

var (
	submitTargetID    int64
	submitPayload     string
	submitPayloadFile string
)

var submitCmd = &cobra.Command{
	Use:   "submit [target-type] [feedback-type]",
	Short: "Submit a proposed change for review",
	Long: `Submit a proposed change ("feedback") against a metadata entity.
The payload is validated immediately; an invalid payload or a reference to a
missing parent entity rejects the submission before anything is stored.

Target types: CODING_RULE, CLASS_TEMPLATE, RULE_EXAMPLE
Feedback types: ADD, MODIFY, DELETE`,
	Args: cobra.ExactArgs(2),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().Int64Var(&submitTargetID, "target-id", 0, "id of the targeted entity (required for MODIFY/DELETE)")
	submitCmd.Flags().StringVar(&submitPayload, "payload", "", "change payload as inline JSON")
	submitCmd.Flags().StringVar(&submitPayloadFile, "payload-file", "", "path to a JSON payload file")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	targetType, err := feedback.ParseTargetType(args[0])
	if err != nil {
		return err
	}
	feedbackType, err := feedback.ParseType(args[1])
	if err != nil {
		return err
	}

	payload := submitPayload
	if submitPayloadFile != "" {
		data, err := os.ReadFile(submitPayloadFile)
		if err != nil {
			return fmt.Errorf("read payload file: %w", err)
		}
		payload = string(data)
	}
	if payload == "" && feedbackType != feedback.TypeDelete {
		return fmt.Errorf("--payload or --payload-file is required for %s", feedbackType)
	}

	var targetID *int64
	if cmd.Flags().Changed("target-id") {
		targetID = &submitTargetID
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

	snap, err := svc.Submit(cmd.Context(), feedback.SubmitRequest{
		TargetType:   targetType,
		TargetID:     targetID,
		FeedbackType: feedbackType,
		Payload:      payload,
	})
	if err != nil {
		return err
	}

	fmt.Println("Submitted.")
	printSnapshot(snap)
	return nil
}
