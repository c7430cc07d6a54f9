package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sngm3741/facts-finders/api/internal/form"
	"github.com/sngm3741/facts-finders/api/internal/infrastructure/upload"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill in a record interactively and save it",
	RunE:  runFill,
}

func runFill(cmd *cobra.Command, _ []string) error {
	a := newApp()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	ctrl, err := a.controller(ctx, true)
	if err != nil {
		return err
	}
	prompter := form.NewPrompter(cmd.InOrStdin(), out)

	fmt.Fprintln(out, "Facts Finders Form (\".\" keeps the current value)")
	for {
		if err := prompter.Fill(ctrl); err != nil {
			return err
		}

		path, err := prompter.Ask("Capture Customer Image (path, empty to skip)")
		if err != nil && path == "" {
			return nil
		}
		if path != "" {
			image, err := upload.ImageFromFile(path)
			if err == nil {
				err = ctrl.Capture(ctx, image)
			}
			if err != nil {
				fmt.Fprintln(out, form.NoticeUploadFailed)
			}
		}

		fmt.Fprintln(out)
		form.Render(out, ctrl.Model())

		answer, err := prompter.Ask("Save? [y/N]")
		if err != nil && answer == "" {
			return nil
		}
		if !strings.EqualFold(answer, "y") {
			return nil
		}

		saveErr := ctrl.Save(ctx)
		fmt.Fprintln(out, ctrl.Model().Notice)
		if saveErr == nil {
			return nil
		}

		retry, err := prompter.Ask("Edit and retry? [y/N]")
		if err != nil || !strings.EqualFold(retry, "y") {
			return saveErr
		}
	}
}
