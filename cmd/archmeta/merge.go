package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [feedback-id]",
	Short: "Apply an approved feedback to its target",
	Long: `Merge an approved feedback into the metadata catalog.

SAFE feedback merges directly from LLM_APPROVED; MEDIUM and HIGH feedback must
be HUMAN_APPROVED first. The target is re-validated at merge time, so a parent
entity deleted since submission blocks the merge. A failed merge leaves the
feedback in its approved state and can be retried.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
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

	snap, err := svc.Merge(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Println("Merged.")
	printSnapshot(snap)
	return nil
}
