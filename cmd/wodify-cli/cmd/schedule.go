package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var classesDate string

func init() {
	classesCmd.Flags().StringVar(&classesDate, "date", "", "date (yyyy-mm-dd) to list the classes of, defaults to today at the gym")
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(programsCmd)
}

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "Lists the classes of a day.",
	Run: func(cmd *cobra.Command, args []string) {
		session := login(cmd)

		date := classesDate
		if date == "" {
			dt, err := client.GetCustomerDateTime(cmd.Context(), session)
			if err != nil {
				fatal(err)
			}
			date = dt.CurrentDate
		}

		classes, err := client.ListClasses(cmd.Context(), session, date)
		if err != nil {
			fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Name", "Start", "End", "Coach", "Reserved", "Status"})
		for _, c := range classes {
			t.AppendRow(table.Row{
				c.Id,
				c.Name,
				c.StartTime,
				c.EndTime,
				c.CoachName,
				c.ReservationCount,
				c.ClassReservationStatusId,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "Lists the programs of every location.",
	Run: func(cmd *cobra.Command, args []string) {
		session := login(cmd)
		programs, err := client.ListPrograms(cmd.Context(), session)
		if err != nil {
			fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Program", "Name", "Location", "Location name"})
		for _, p := range programs {
			t.AppendRow(table.Row{p.ProgramId, p.Name, p.LocationId, p.LocationName})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
