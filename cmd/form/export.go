package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
	"github.com/sngm3741/facts-finders/api/internal/infrastructure/apiclient"
	"github.com/sngm3741/facts-finders/api/internal/infrastructure/excel"
)

var (
	exportStart  string
	exportEnd    string
	exportName   string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the Excel export",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportStart, "start", "", "Inclusive start date (YYYY-MM-DD or RFC3339)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "Inclusive end date (YYYY-MM-DD or RFC3339)")
	exportCmd.Flags().StringVar(&exportName, "name", "", "Case-insensitive name substring")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", excel.Filename, "Output file")
}

func runExport(cmd *cobra.Command, _ []string) error {
	a := newApp()

	tmp := exportOutput + ".part"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	n, err := a.api.Export(cmd.Context(), apiclient.ExportQuery{
		StartDate: exportStart,
		EndDate:   exportEnd,
		Name:      exportName,
	}, file)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		if errors.Is(err, domain.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No data found for given filters")
			return nil
		}
		return err
	}

	if err := os.Rename(tmp, exportOutput); err != nil {
		return fmt.Errorf("move output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", exportOutput, n)
	return nil
}
