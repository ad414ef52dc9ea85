package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkspire/inkspire-client/internal/validation"
	"github.com/inkspire/inkspire-client/internal/views"
	"github.com/inkspire/inkspire-client/pkg/errors"
)

// readSecret returns value, or one line of stdin when value is "-"
func readSecret(in io.Reader, value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCommand(e *env) *cobra.Command {
	var form validation.LoginForm

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.enter(ctx, views.PathLogin); err != nil {
				return err
			}
			password, err := readSecret(cmd.InOrStdin(), form.Password)
			if err != nil {
				return err
			}
			form.Password = password

			user, err := e.app.Login().Submit(ctx, form)
			if err != nil {
				return formErrors(e, err)
			}
			fmt.Fprintf(e.out, "Signed in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "-", `password, "-" reads it from stdin`)
	return cmd
}

func newSignupCommand(e *env) *cobra.Command {
	var form validation.SignupForm

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.enter(ctx, "/signup"); err != nil {
				return err
			}
			password, err := readSecret(cmd.InOrStdin(), form.Password)
			if err != nil {
				return err
			}
			form.Password = password
			if form.ConfirmPassword == "" {
				form.ConfirmPassword = password
			}
			return formErrors(e, e.app.Signup().Submit(ctx, form))
		},
	}

	cmd.Flags().StringVarP(&form.Name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&form.PhoneNumber, "phone", "", "10 digit phone number")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "-", `password, "-" reads it from stdin`)
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm", "", "password confirmation, defaults to --password")
	return cmd
}

func newResetPasswordCommand(e *env) *cobra.Command {
	var form validation.ResetPasswordForm

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := e.enter(ctx, "/forgot-password"); err != nil {
				return err
			}
			password, err := readSecret(cmd.InOrStdin(), form.NewPassword)
			if err != nil {
				return err
			}
			form.NewPassword = password
			if form.ConfirmPassword == "" {
				form.ConfirmPassword = password
			}
			return formErrors(e, e.app.ForgotPassword().Submit(ctx, form))
		},
	}

	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&form.NewPassword, "password", "p", "-", `new password, "-" reads it from stdin`)
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm", "", "password confirmation, defaults to --password")
	return cmd
}

func newLogoutCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Signed out")
			return nil
		},
	}
}

// formErrors prints field errors, which the views do not notify
func formErrors(e *env, err error) error {
	var formErr *views.FormError
	if !errors.As(err, &formErr) {
		return err
	}
	fmt.Fprintln(e.errOut, "Invalid input:")
	for _, f := range formErr.Fields {
		fmt.Fprintf(e.errOut, "  %s: %s\n", f.Field, f.Message)
	}
	e.notified = true
	return err
}
