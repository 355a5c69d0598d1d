package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"wodassist-backend/internal/components/restyutil"
	"wodassist-backend/internal/components/serviceutil"
	"wodassist-backend/internal/components/telemetry"
	"wodassist-backend/internal/scrapers/wodify"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	email    string
	password string
	baseUrl  string
	verbose  bool
	dumpDir  string
)

var client *wodify.Client

var rootCmd = &cobra.Command{
	Use:   "wodify-cli",
	Short: "wodify-cli is a CLI interface for the wodify client api.",
	Long: `wodify-cli is a CLI interface for the wodify client api.

Credentials are read from WODIFY_EMAIL and WODIFY_PASSWORD (a .env file in the
working directory is loaded first), --email and --password override them.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		var opts []wodify.ClientOption
		if dumpDir != "" {
			output, err := restyutil.NewFilesystemOutput(dumpDir)
			if err != nil {
				return err
			}
			opts = append(opts, wodify.WithExchangeDump(output))
		}

		c, err := wodify.NewClient(baseUrl, opts...)
		if err != nil {
			return err
		}
		client = c
		return nil
	},
}

func init() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "failed to load .env:", err)
	}

	rootCmd.PersistentFlags().StringVar(&email, "email", os.Getenv("WODIFY_EMAIL"), "wodify account email")
	rootCmd.PersistentFlags().StringVar(&password, "password", os.Getenv("WODIFY_PASSWORD"), "wodify account password")
	rootCmd.PersistentFlags().StringVar(&baseUrl, "base-url", wodify.DEFAULT_BASE_URL, "base url of the wodify client application")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump-dir", "", "write every http exchange with wodify into this directory (cleared first)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Execute() {
	if err := rootCmd.ExecuteContext(serviceutil.SignalContext()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

func login(cmd *cobra.Command) wodify.Session {
	if email == "" || password == "" {
		fatal(fmt.Errorf("missing credentials, set WODIFY_EMAIL and WODIFY_PASSWORD or pass --email and --password"))
	}
	session, err := client.Login(cmd.Context(), email, password)
	if err != nil {
		fatal(err)
	}
	return session
}
