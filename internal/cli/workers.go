package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewWorkersCmd создаёт команду workers.
func NewWorkersCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "workers",
		Short: "List workers and their state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workers, err := client.ListWorkers()
			if err != nil {
				return err
			}

			headers := []string{"ID", "BUSY", "LAT", "LON", "SPEED", "SCAN_DELAYED", "VISITS"}
			rows := make([][]string, len(workers))
			for i, w := range workers {
				rows[i] = []string{
					strconv.Itoa(w.ID),
					strconv.FormatBool(w.Busy),
					fmt.Sprintf("%.6f", w.Lat),
					fmt.Sprintf("%.6f", w.Lon),
					fmt.Sprintf("%.2f", w.Speed),
					strconv.FormatInt(w.ScanDelayed, 10),
					strconv.FormatUint(w.Visits, 10),
				}
			}

			out.Print(headers, rows, workers)
			return nil
		},
	}
}
