package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relaygrid/relaygrid/src/relaygrid"
)

var (
	stopRunID  int64
	stopReason string
)

// NewStopCmd produces a StopCmd which broadcasts the stop signal to every
// participant of a run. Useful when a coordinator died before its own
// shutdown path could run.
func NewStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Broadcast a stop signal to all participants",
		RunE:  stop,
	}

	cmd.Flags().Int64Var(&stopRunID, "run-id", 0, "Run id the stop signal belongs to")
	cmd.Flags().StringVar(&stopReason, "reason", "Stopped by operator", "Human-readable reason")

	return cmd
}

func stop(cmd *cobra.Command, args []string) error {
	engine := relaygrid.NewRelayGrid(_config)

	if err := engine.Init(); err != nil {
		return fmt.Errorf("cannot initialize engine: %v", err)
	}
	defer engine.Transport.Close()

	if err := engine.Grid.StartRun(stopRunID); err != nil {
		return err
	}

	sent, err := engine.Grid.SendStopSignal(stopReason)
	if err != nil {
		return err
	}

	fmt.Printf("Stop signal sent to %d participants\n", len(sent))

	return nil
}

func init() {
	RootCmd.AddCommand(NewStopCmd())
}
