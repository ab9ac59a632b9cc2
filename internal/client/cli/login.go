package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func (c *Cli) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "login",
		Short:   "Login to the server",
		Args:    cobra.NoArgs,
		GroupID: "session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Println(headerColor.Sprint("=== Login ==="))
			c.io.Println()

			email, err := c.io.ReadInput("Email: ")
			if err != nil {
				return fmt.Errorf("failed to read email: %w", err)
			}

			password, err := c.getPassword("Password: ")
			if err != nil {
				return err
			}

			data, err := c.session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			c.io.Println()
			c.io.Println(okColor.Sprint("✓ Login successful!"))
			c.io.Printf("Email: %s\n", data.Email)
			c.io.Printf("Token expires: %s\n", time.Unix(data.ExpiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}
}

// passwordFromNonInteractive возвращает true, если пароль берется не из терминала
func (c *Cli) passwordFromNonInteractive() bool {
	return os.Getenv(PasswordEnv) != "" || c.opts.PasswordFile != ""
}
