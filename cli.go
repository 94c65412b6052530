package main

import (
	"fmt"

	. "github.com/elijahnyp/switcher/util"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "switcher",
	Short:        "Push a switch state to one or more device endpoints",
	SilenceUsage: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		LogInit("info")
		SetupConfig()
		LogInit(Config.GetString("log_level"))
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify <state>",
	Short: "Send one state to every endpoint and log the replies",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		return doNotify(args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().String("endpoints", "", "comma separated device endpoints")
	rootCmd.PersistentFlags().String("log-level", "", "trace, debug, info, warn or error")
	rootCmd.PersistentFlags().Duration("request-timeout", 0, "per request timeout, eg. 5s; 0 waits forever")
	rootCmd.PersistentFlags().Int("max-concurrent", 0, "maximum deliveries in flight")

	errPanic(Config.BindPFlag("endpoints", rootCmd.PersistentFlags().Lookup("endpoints")))
	errPanic(Config.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))
	errPanic(Config.BindPFlag("request_timeout", rootCmd.PersistentFlags().Lookup("request-timeout")))
	errPanic(Config.BindPFlag("max_concurrent", rootCmd.PersistentFlags().Lookup("max-concurrent")))

	rootCmd.AddCommand(notifyCmd)
}

func errPanic(err error) {
	if err != nil {
		panic(err)
	}
}

func doNotify(value string) error {
	notifier := NewNotifierFromConfig()
	if len(notifier.Endpoints()) == 0 {
		return fmt.Errorf("no endpoints configured")
	}
	notifier.Notify(value)
	// the process must outlive the deliveries for their outcome to be logged
	notifier.Close()
	return nil
}
