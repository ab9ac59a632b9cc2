package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *Cli) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "register",
		Short:   "Register a new user",
		Args:    cobra.NoArgs,
		GroupID: "session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Println(headerColor.Sprint("=== Registration ==="))
			c.io.Println()

			email, err := c.io.ReadInput("Email: ")
			if err != nil {
				return fmt.Errorf("failed to read email: %w", err)
			}

			password, err := c.getPassword("Password (min 8 chars): ")
			if err != nil {
				return err
			}

			// Подтверждение нужно только при интерактивном вводе
			if !c.passwordFromNonInteractive() {
				confirm, err := c.io.ReadPassword("Confirm password: ")
				if err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if password != confirm {
					return errors.New("passwords do not match")
				}
			}

			resp, err := c.session.Register(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			c.io.Println()
			c.io.Println(okColor.Sprint("✓ Registration successful!"))
			c.io.Printf("User ID: %s\n", resp.UserID)
			c.io.Println()
			c.io.Println("Please run 'roadsync login' to start using the service.")
			return nil
		},
	}
}
