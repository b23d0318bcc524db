package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relaygrid/relaygrid/src/envelope"
	"github.com/relaygrid/relaygrid/src/relaygrid"
)

// NewPingCmd produces a PingCmd which round-trips a query envelope to every
// participant, a quick way to check who is reachable through the relay.
func NewPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Send a query to every participant and wait for replies",
		RunE:  ping,
	}
}

func ping(cmd *cobra.Command, args []string) error {
	engine := relaygrid.NewRelayGrid(_config)

	if err := engine.Init(); err != nil {
		return fmt.Errorf("cannot initialize engine: %v", err)
	}
	defer engine.Transport.Close()

	if err := engine.Grid.StartRun(time.Now().Unix()); err != nil {
		return err
	}

	msgs := make([]*envelope.Envelope, 0, engine.Participants.Len())
	for _, p := range engine.Participants.Participants {
		msg, err := engine.Grid.BuildMessage([]byte("ping"), envelope.TypeQuery, p.Address, "ping", 0)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	replies, err := engine.Grid.SendAndReceive(msgs, _config.Timeout)
	if err != nil {
		return err
	}

	fmt.Printf("%d/%d participants replied\n", len(replies), engine.Participants.Len())

	return nil
}

func init() {
	RootCmd.AddCommand(NewPingCmd())
}
