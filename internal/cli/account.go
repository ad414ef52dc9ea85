package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inkspire/inkspire-client/internal/validation"
	"github.com/inkspire/inkspire-client/internal/views"
)

func newWhoamiCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := e.app.Session.Current()
			if !ok {
				fmt.Fprintln(e.out, "Not signed in")
				return nil
			}
			fmt.Fprintf(e.out, "%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}

func newProfileCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.enter(cmd.Context(), "/profile"); err != nil {
				return err
			}
			user, _ := e.app.Profile().Show()
			w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name\t%s\n", user.Name)
			fmt.Fprintf(w, "Email\t%s\n", user.Email)
			fmt.Fprintf(w, "Phone\t%s\n", user.PhoneNumber)
			return w.Flush()
		},
	}
	cmd.AddCommand(newProfileUpdateCommand(e))
	return cmd
}

func newProfileUpdateCommand(e *env) *cobra.Command {
	var form validation.ProfileForm

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change your name or phone number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.enter(ctx, "/profile"); err != nil {
				return err
			}
			profile := e.app.Profile()
			current, _ := profile.Show()
			if !cmd.Flags().Changed("name") {
				form.Name = current.Name
			}
			if !cmd.Flags().Changed("phone") {
				form.PhoneNumber = current.PhoneNumber
			}
			_, err := profile.Save(ctx, form)
			return formErrors(e, err)
		},
	}

	cmd.Flags().StringVarP(&form.Name, "name", "n", "", "new display name")
	cmd.Flags().StringVar(&form.PhoneNumber, "phone", "", "new 10 digit phone number")
	return cmd
}

func newDashboardCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the home view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.enter(cmd.Context(), views.PathHome); err != nil {
				return err
			}
			user, _ := e.app.Session.Current()
			dashboard := views.NewDashboard(user)
			fmt.Fprintln(e.out, dashboard.Greeting)
			w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
			for _, s := range dashboard.Shortcuts {
				fmt.Fprintf(w, "  %s\t%s\n", s.Title, s.Path)
			}
			return w.Flush()
		},
	}
}

func newRoutesCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the views and whether they need a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tVIEW\tTITLE\tACCESS")
			for _, r := range e.app.Routes.Routes() {
				access := "public"
				if r.Protected {
					access = "login required"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Path, r.View, r.Title, access)
			}
			return w.Flush()
		},
	}
}
