package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(datetimeCmd)
}

func printJSON(value any) {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Logs in and prints the session.",
	Run: func(cmd *cobra.Command, args []string) {
		session := login(cmd)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendRows([]table.Row{
			{"Name", session.User.FirstName + " " + session.User.LastName},
			{"User", session.User.UserId},
			{"Customer", session.Customer},
			{"Location", session.User.ActiveLocationId},
			{"Program", session.User.GymProgramId},
			{"CSRF token", session.CsrfToken},
		})
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

var datetimeCmd = &cobra.Command{
	Use:   "datetime",
	Short: "Prints the current date and time of the gym.",
	Run: func(cmd *cobra.Command, args []string) {
		session := login(cmd)
		dt, err := client.GetCustomerDateTime(cmd.Context(), session)
		if err != nil {
			fatal(err)
		}
		printJSON(dt)
	},
}
