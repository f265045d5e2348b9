package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// seeder is implemented by both storage backends. Conventions and package
// structures are authored outside the feedback workflow, so the CLI seeds
// them directly instead of routing them through review.
type seeder interface {
	SeedConvention(ctx context.Context, name, description string) (int64, error)
	SeedPackageStructure(ctx context.Context, name, layer string) (int64, error)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create parent catalog entities",
	Long: `Create the parent entities that feedback targets hang off of.
Coding rules attach to a convention; class templates attach to a package
structure. These parents are prerequisites for ADD feedback.`,
}

var seedConventionCmd = &cobra.Command{
	Use:   "convention [name] [description]",
	Short: "Create a convention",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		return runSeed(cmd, func(ctx context.Context, s seeder) (int64, error) {
			return s.SeedConvention(ctx, args[0], description)
		}, "convention")
	},
}

var seedPackageStructureCmd = &cobra.Command{
	Use:   "package-structure [name] [layer]",
	Short: "Create a package structure",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		layer := ""
		if len(args) > 1 {
			layer = args[1]
		}
		return runSeed(cmd, func(ctx context.Context, s seeder) (int64, error) {
			return s.SeedPackageStructure(ctx, args[0], layer)
		}, "package structure")
	},
}

func init() {
	seedCmd.AddCommand(seedConventionCmd, seedPackageStructureCmd)
}

func runSeed(cmd *cobra.Command, fn func(context.Context, seeder) (int64, error), kind string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	sdr, ok := store.(seeder)
	if !ok {
		return fmt.Errorf("storage backend does not support seeding")
	}

	id, err := fn(cmd.Context(), sdr)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s #%d\n", kind, id)
	return nil
}
