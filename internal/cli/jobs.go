package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewJobsCmd создаёт команду jobs.
func NewJobsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List stalest pending jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			jobs, err := client.ListJobs(limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "EXTERNAL_ID", "NAME", "LAT", "LON", "UPDATED", "STALENESS"}
			rows := make([][]string, len(jobs))
			for i, j := range jobs {
				rows[i] = []string{
					strconv.FormatInt(j.ID, 10),
					j.ExternalID,
					j.Name,
					fmt.Sprintf("%.6f", j.Lat),
					fmt.Sprintf("%.6f", j.Lon),
					strconv.FormatInt(j.Updated, 10),
					strconv.FormatInt(j.Staleness, 10),
				}
			}

			out.Print(headers, rows, jobs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of jobs to show")

	return cmd
}
