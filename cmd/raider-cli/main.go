// Raider CLI — инструмент командной строки для наблюдения за
// работающим daemon'ом через его HTTP API.
//
// Использование:
//
//	raider-cli [--api-url URL] [--json] <command> [flags]
//
// Команды:
//
//	status   Счётчики и сводка dispatcher'а
//	workers  Состояние workers
//	jobs     Самые протухшие pending jobs
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Raider/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "raider-cli",
		Short:         "Raider CLI — revisit dispatcher inspector",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewStatusCmd(clientFn, outputFn),
		cli.NewWorkersCmd(clientFn, outputFn),
		cli.NewJobsCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
