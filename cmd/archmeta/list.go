package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/archmeta/archmeta-go/internal/feedback"
)

var (
	listSize          int
	listCursor        string
	listStatuses      []string
	listTargetTypes   []string
	listFeedbackTypes []string
	listRiskLevels    []string
	listActions       []string

	listPending       bool
	listAutoMergeable bool
	listAwaitingHuman bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedback as a cursor-paginated slice",
	Long: `List feedback newest-first. Pages are cursor based: pass the
next-cursor value printed at the bottom of a page to fetch the one after it.

Filter flags are repeatable and combine with AND across dimensions, OR within
one. The shortcut flags select common review queues:

  --pending           feedback awaiting LLM review
  --auto-mergeable    SAFE feedback cleared for automatic merge
  --awaiting-human    MEDIUM/HIGH feedback blocked on a human reviewer`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listSize, "size", 0, fmt.Sprintf("page size, 1..%d (default %d)", feedback.MaxSliceSize, feedback.DefaultSliceSize))
	listCmd.Flags().StringVar(&listCursor, "cursor", "", "exclusive cursor from a previous page")
	listCmd.Flags().StringSliceVar(&listStatuses, "status", nil, "filter by status")
	listCmd.Flags().StringSliceVar(&listTargetTypes, "target-type", nil, "filter by target type")
	listCmd.Flags().StringSliceVar(&listFeedbackTypes, "feedback-type", nil, "filter by feedback type")
	listCmd.Flags().StringSliceVar(&listRiskLevels, "risk-level", nil, "filter by risk level")
	listCmd.Flags().StringSliceVar(&listActions, "action", nil, "filter by review outcome action")
	listCmd.Flags().BoolVar(&listPending, "pending", false, "shortcut: feedback awaiting LLM review")
	listCmd.Flags().BoolVar(&listAutoMergeable, "auto-mergeable", false, "shortcut: SAFE feedback ready to auto-merge")
	listCmd.Flags().BoolVar(&listAwaitingHuman, "awaiting-human", false, "shortcut: feedback awaiting human review")
	listCmd.MarkFlagsMutuallyExclusive("pending", "auto-mergeable", "awaiting-human")
}

func runList(cmd *cobra.Command, args []string) error {
	criteria, err := buildListCriteria()
	if err != nil {
		return err
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

	slice, err := svc.Search(cmd.Context(), criteria)
	if err != nil {
		return err
	}

	if len(slice.Content) == 0 {
		fmt.Println("No feedback matched.")
		return nil
	}
	for _, snap := range slice.Content {
		printSnapshot(snap)
	}
	fmt.Printf("%d shown", len(slice.Content))
	if slice.HasNext {
		fmt.Printf(", more available (next cursor: %s)", slice.NextCursor)
	}
	fmt.Println()
	return nil
}

func buildListCriteria() (feedback.SliceCriteria, error) {
	var cursor *int64
	if listCursor != "" {
		v, err := strconv.ParseInt(listCursor, 10, 64)
		if err != nil {
			return feedback.SliceCriteria{}, fmt.Errorf("invalid cursor %q", listCursor)
		}
		cursor = &v
	}

	switch {
	case listPending:
		return feedback.PendingCriteria(listSize, cursor)
	case listAutoMergeable:
		return feedback.AutoMergeableCriteria(listSize, cursor)
	case listAwaitingHuman:
		return feedback.AwaitingHumanReviewCriteria(listSize, cursor)
	}

	criteria, err := feedback.NewSliceCriteria(listSize, cursor)
	if err != nil {
		return feedback.SliceCriteria{}, err
	}
	for _, s := range listStatuses {
		status, err := feedback.ParseStatus(s)
		if err != nil {
			return feedback.SliceCriteria{}, err
		}
		criteria.Statuses = append(criteria.Statuses, status)
	}
	for _, s := range listTargetTypes {
		tt, err := feedback.ParseTargetType(s)
		if err != nil {
			return feedback.SliceCriteria{}, err
		}
		criteria.TargetTypes = append(criteria.TargetTypes, tt)
	}
	for _, s := range listFeedbackTypes {
		ft, err := feedback.ParseType(s)
		if err != nil {
			return feedback.SliceCriteria{}, err
		}
		criteria.FeedbackTypes = append(criteria.FeedbackTypes, ft)
	}
	for _, s := range listRiskLevels {
		rl, err := feedback.ParseRiskLevel(s)
		if err != nil {
			return feedback.SliceCriteria{}, err
		}
		criteria.RiskLevels = append(criteria.RiskLevels, rl)
	}
	for _, s := range listActions {
		a, err := feedback.ParseAction(s)
		if err != nil {
			return feedback.SliceCriteria{}, err
		}
		criteria.Actions = append(criteria.Actions, a)
	}
	return criteria, nil
}
