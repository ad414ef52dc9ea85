package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/inkspire/inkspire-client/internal/validation"
	"github.com/inkspire/inkspire-client/internal/views"
	"github.com/inkspire/inkspire-client/pkg/errors"
)

func parseID(value, name string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.InvalidInputError(name, "must be a positive number")
	}
	return id, nil
}

func parseIndex(value string) (int, error) {
	index, err := strconv.Atoi(value)
	if err != nil || index < 0 {
		return 0, errors.InvalidInputError("index", "must be zero or a positive number")
	}
	return index, nil
}

func newPlansCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage learning plans",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(
		newPlansListCommand(e),
		newPlansShowCommand(e),
		newPlansCreateCommand(e),
		newPlansUpdateCommand(e),
		newPlansDeleteCommand(e),
		newPlansMilestoneCommand(e),
		newMaterialCommand(e),
	)
	return cmd
}

// mountPlans enters the plan list view and loads it
func mountPlans(e *env, cmd *cobra.Command) (*views.PlanList, error) {
	ctx := cmd.Context()
	if err := e.enter(ctx, views.PathPlans); err != nil {
		return nil, err
	}
	list := e.app.PlanList()
	if err := list.Mount(ctx); err != nil {
		return nil, err
	}
	e.cleanup = append(e.cleanup, list.Unmount)
	return list, nil
}

func printPlans(e *env, plans []models.LearningPlan) {
	if len(plans) == 0 {
		fmt.Fprintln(e.out, "No learning plans yet")
		return
	}
	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tVISIBILITY\tMILESTONES\tMATERIALS\tSTATUS")
	for _, p := range plans {
		done := 0
		for _, m := range p.Milestones {
			if m.Completed {
				done++
			}
		}
		visibility := "private"
		if p.Public {
			visibility = "public"
		}
		status := "in progress"
		if p.Completed() {
			status = "completed"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d/%d\t%d\t%s\n",
			p.ID, p.Title, visibility, done, len(p.Milestones), len(p.LearningMaterials), status)
	}
	w.Flush() //nolint:errcheck
}

func printPlan(e *env, p models.LearningPlan) {
	fmt.Fprintf(e.out, "%s (#%d)\n", p.Title, p.ID)
	if p.Description != "" {
		fmt.Fprintf(e.out, "%s\n", p.Description)
	}
	fmt.Fprintln(e.out)

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MILESTONE\tDONE\tTITLE\tDUE")
	for _, m := range p.Milestones {
		done := " "
		if m.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "%d\t[%s]\t%s\t%s\n", m.ID, done, m.Title, m.DueDate.Display())
	}
	w.Flush() //nolint:errcheck

	if len(p.LearningMaterials) > 0 {
		fmt.Fprintln(e.out)
		fmt.Fprintln(e.out, "Materials:")
		for i, name := range p.LearningMaterials {
			fmt.Fprintf(e.out, "  %d  %s\n", i, models.MaterialDisplayName(name))
		}
	}
}

func newPlansListCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your learning plans",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := mountPlans(e, cmd)
			if err != nil {
				return err
			}
			printPlans(e, list.Plans())
			return nil
		},
	}
}

func newPlansShowCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show [plan-id]",
		Short: "Show one plan with its milestones and materials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "plan-id")
			if err != nil {
				return err
			}
			list, err := mountPlans(e, cmd)
			if err != nil {
				return err
			}
			plan, ok := list.Plan(id)
			if !ok {
				return errors.NotFoundError("plan " + args[0])
			}
			printPlan(e, plan)
			return nil
		},
	}
}

func newPlansCreateCommand(e *env) *cobra.Command {
	var form validation.PlanForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a learning plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.enter(ctx, "/create-plan"); err != nil {
				return err
			}
			plan, err := e.app.CreatePlan().Submit(ctx, form)
			if err != nil {
				return formErrors(e, err)
			}
			fmt.Fprintf(e.out, "Created plan #%d %s\n", plan.ID, plan.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Title, "title", "t", "", "plan title")
	cmd.Flags().StringVarP(&form.Description, "description", "d", "", "plan description")
	cmd.Flags().BoolVar(&form.Public, "public", false, "share the plan publicly")
	cmd.Flags().StringArrayVarP(&form.Milestones, "milestone", "m", nil, "milestone description, repeat for more")
	return cmd
}

func newPlansUpdateCommand(e *env) *cobra.Command {
	var (
		title, description string
		public             bool
		milestones         []string
	)

	cmd := &cobra.Command{
		Use:   "update [plan-id]",
		Short: "Edit a plan's title, description, visibility or milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "plan-id")
			if err != nil {
				return err
			}
			list, err := mountPlans(e, cmd)
			if err != nil {
				return err
			}
			plan, ok := list.Plan(id)
			if !ok {
				return errors.NotFoundError("plan " + args[0])
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				plan.Title = title
			}
			if flags.Changed("description") {
				plan.Description = description
			}
			if flags.Changed("public") {
				plan.Public = public
			}
			if flags.Changed("milestone") {
				kept := make([]models.Milestone, 0, len(milestones))
				for i, desc := range milestones {
					if i < len(plan.Milestones) {
						m := plan.Milestones[i]
						m.Description = desc
						m.Title = ""
						kept = append(kept, m)
						continue
					}
					kept = append(kept, models.NewMilestone(desc))
				}
				plan.Milestones = kept
			}

			if err := list.Update(cmd.Context(), plan); err != nil {
				return err
			}
			if updated, ok := list.Plan(id); ok {
				printPlan(e, updated)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().BoolVar(&public, "public", false, "share the plan publicly")
	cmd.Flags().StringArrayVarP(&milestones, "milestone", "m", nil, "replace milestone descriptions in order, repeat for more")
	return cmd
}

func newPlansDeleteCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [plan-id]",
		Aliases: []string{"rm"},
		Short:   "Delete a plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "plan-id")
			if err != nil {
				return err
			}
			list, err := mountPlans(e, cmd)
			if err != nil {
				return err
			}
			return list.Delete(cmd.Context(), id)
		},
	}
}

func newPlansMilestoneCommand(e *env) *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "milestone [plan-id] [milestone-id]",
		Short: "Mark a milestone done, or open again with --open",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID(args[0], "plan-id")
			if err != nil {
				return err
			}
			milestoneID, err := parseID(args[1], "milestone-id")
			if err != nil {
				return err
			}
			list, err := mountPlans(e, cmd)
			if err != nil {
				return err
			}
			return list.SetMilestoneStatus(cmd.Context(), planID, milestoneID, !open)
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "mark the milestone as not completed")
	return cmd
}

func newMaterialCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "material",
		Short: "Upload, download or delete plan materials",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		newMaterialUploadCommand(e),
		newMaterialDownloadCommand(e),
		newMaterialDeleteCommand(e),
	)
	return cmd
}

func newMaterialUploadCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [plan-id] [file]",
		Short: "Attach a file to a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID(args[0], "plan-id")
			if err != nil {
				return err
			}
			file, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[1], err)
			}
			defer file.Close()

			list, err := mountPlans(e, cmd)
			if err != nil {
				return err
			}
			return list.UploadMaterial(cmd.Context(), planID, filepath.Base(args[1]), file)
		},
	}
}

func newMaterialDownloadCommand(e *env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download [plan-id] [index]",
		Short: "Save a plan material to disk",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID(args[0], "plan-id")
			if err != nil {
				return err
			}
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			list, err := mountPlans(e, cmd)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			material, err := list.DownloadMaterial(cmd.Context(), planID, index, &buf)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = filepath.Base(material.DisplayName)
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
				return fmt.Errorf("failed to save %s: %w", path, err)
			}
			fmt.Fprintf(e.out, "Saved %s (%d bytes)\n", path, buf.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "destination path, defaults to the material name")
	return cmd
}

func newMaterialDeleteCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [plan-id] [index]",
		Short: "Remove a material from a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID(args[0], "plan-id")
			if err != nil {
				return err
			}
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			list, err := mountPlans(e, cmd)
			if err != nil {
				return err
			}
			return list.DeleteMaterial(cmd.Context(), planID, index)
		},
	}
}
