package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewStatusCmd создаёт команду status.
func NewStatusCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dispatcher status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			st, err := client.GetStatus()
			if err != nil {
				return err
			}

			headers := []string{"VISITS", "SKIPPED", "HASH_BURN", "QUEUED", "IN_FLIGHT", "SLOTS", "WORKERS", "BUSY"}
			rows := [][]string{{
				strconv.FormatUint(st.Visits, 10),
				strconv.FormatUint(st.Skipped, 10),
				strconv.FormatUint(st.HashBurn, 10),
				strconv.Itoa(st.QueueLen),
				strconv.FormatInt(st.InFlight, 10),
				strconv.FormatInt(st.Slots, 10),
				strconv.Itoa(st.Workers),
				strconv.Itoa(st.BusyWorkers),
			}}

			out.Print(headers, rows, st)
			return nil
		},
	}
}
