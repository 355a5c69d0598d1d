package cmd

import (
	"fmt"
	"wodassist-backend/internal/workout"

	"github.com/spf13/cobra"
)

var (
	workoutDate    string
	workoutProgram string
	workoutRaw     bool
)

func init() {
	workoutCmd.Flags().StringVar(&workoutDate, "date", "", "date (yyyy-mm-dd) of the workout, defaults to today at the gym")
	workoutCmd.Flags().StringVar(&workoutProgram, "program", "", "program id, defaults to your gym program (or the program it is aliased to)")
	workoutCmd.Flags().BoolVar(&workoutRaw, "raw", false, "print the workout components as json instead of a card")
	rootCmd.AddCommand(workoutCmd)
}

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Prints the workout of a day.",
	Run: func(cmd *cobra.Command, args []string) {
		session := login(cmd)

		date := workoutDate
		if date == "" {
			dt, err := client.GetCustomerDateTime(cmd.Context(), session)
			if err != nil {
				fatal(err)
			}
			date = dt.CurrentDate
		}

		program := workoutProgram
		if program == "" {
			program = workout.ProgramFor(workout.DEFAULT_PROGRAM_ALIASES, session.User.GymProgramId)
		}

		components, err := client.ListWorkoutComponents(cmd.Context(), session, date, program)
		if err != nil {
			fatal(err)
		}
		if workoutRaw {
			printJSON(components)
			return
		}
		fmt.Println(workout.Format(workout.PrimaryWorkout(components)))
	},
}
