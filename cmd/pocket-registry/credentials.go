package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ataraskov/pocket-registry/internal/credentials"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		host     string
		port     string
		username string
		password string
		insecure bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store credentials for a registry",
		Example: `  pocket-registry add --host registry.example.com --username alice
  pocket-registry add --host localhost --port 5000 --insecure --username admin --password admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := credentials.ServiceURL(host, port, !insecure)
			if err != nil {
				return err
			}

			if password == "" {
				password = a.cfg.GetString("password")
			}
			if password == "" {
				password, err = readPassword(cmd)
				if err != nil {
					return err
				}
			}

			if err := a.store.Set(service, username, password); err != nil {
				return fmt.Errorf("failed to store credentials: %w", err)
			}

			a.logger.Info("Credentials stored", "service", service, "username", username)
			fmt.Fprintf(cmd.OutOrStdout(), "%s added!\n", host)
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Registry hostname")
	cmd.Flags().StringVar(&port, "port", "", "Registry port (default: 443, or 80 with --insecure)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Registry username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Registry password (or POCKET_REGISTRY_PASSWORD env, prompted when omitted)")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "Use plain http instead of https")
	_ = cmd.MarkFlagRequired("host")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

// readPassword prompts without echo on a terminal and reads one line otherwise
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registries with stored credentials",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := a.store.ListServices()
			if err != nil {
				return err
			}
			if len(services) == 0 {
				a.logger.Info("No registries stored yet", "hint", "run '"+appName+" add'")
				return nil
			}
			printLines(cmd.OutOrStdout(), services)
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove SERVICE",
		Aliases: []string{"rm"},
		Short:   "Delete the stored credentials of a registry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Delete(args[0]); err != nil {
				return fmt.Errorf("error deleting %s: %w", args[0], err)
			}
			a.logger.Info("Credentials deleted", "service", args[0])
			return nil
		},
	}
}
