package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reserveCmd)
	rootCmd.AddCommand(signinCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(accessCmd)
}

var reserveCmd = &cobra.Command{
	Use:   "reserve <class id>",
	Short: "Reserves a spot in a class.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := login(cmd)
		status, err := client.ReserveClass(cmd.Context(), session, args[0])
		if err != nil {
			fatal(err)
		}
		printJSON(status)
	},
}

var signinCmd = &cobra.Command{
	Use:   "signin <class id>",
	Short: "Signs in to a class.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := login(cmd)
		status, err := client.SignInClass(cmd.Context(), session, args[0])
		if err != nil {
			fatal(err)
		}
		printJSON(status)
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <reservation id>",
	Short: "Cancels a class reservation.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := login(cmd)
		status, err := client.CancelReservation(cmd.Context(), session, args[0])
		if err != nil {
			fatal(err)
		}
		printJSON(status)
	},
}

var accessCmd = &cobra.Command{
	Use:   "access <class id>",
	Short: "Prints what you are allowed to do with a class.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		session := login(cmd)
		access, err := client.GetClassAccess(cmd.Context(), session, args[0])
		if err != nil {
			fatal(err)
		}
		printJSON(access)
	},
}
