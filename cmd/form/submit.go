package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
	"github.com/sngm3741/facts-finders/api/internal/form"
	"github.com/sngm3741/facts-finders/api/internal/infrastructure/upload"
)

var (
	submitFile  string
	submitImage string
)

var submitCmd = &cobra.Command{
	Use:   "submit --file draft.json [--image photo.jpg]",
	Short: "Validate and submit a draft stored as JSON",
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitFile, "file", "f", "", "Draft JSON file")
	submitCmd.Flags().StringVar(&submitImage, "image", "", "Customer photo to upload before saving")
	_ = submitCmd.MarkFlagRequired("file")
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	a := newApp()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	raw, err := os.ReadFile(submitFile)
	if err != nil {
		return fmt.Errorf("read draft: %w", err)
	}
	var draft domain.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return fmt.Errorf("parse draft: %w", err)
	}

	ctrl, err := a.controller(ctx, submitImage != "")
	if err != nil {
		return err
	}
	if err := ctrl.Load(draft); err != nil {
		return err
	}

	if submitImage != "" {
		image, err := upload.ImageFromFile(submitImage)
		if err == nil {
			err = ctrl.Capture(ctx, image)
		}
		if err != nil {
			fmt.Fprintln(out, form.NoticeUploadFailed)
			return fmt.Errorf("capture image: %w", err)
		}
	}

	saveErr := ctrl.Save(ctx)
	fmt.Fprintln(out, ctrl.Model().Notice)
	return saveErr
}
