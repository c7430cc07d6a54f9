package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/sngm3741/facts-finders/api/internal/config"
	"github.com/sngm3741/facts-finders/api/internal/form"
	"github.com/sngm3741/facts-finders/api/internal/infrastructure/apiclient"
	"github.com/sngm3741/facts-finders/api/internal/infrastructure/geo"
	"github.com/sngm3741/facts-finders/api/internal/infrastructure/upload"
)

var rootCmd = &cobra.Command{
	Use:   "facts-form",
	Short: "Facts Finder field form",
	Long: `facts-form fills in a Facts Finder record on the terminal, attaches a
customer photo, stamps the device location and submits it to the API.
It can also download the filtered Excel export.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(fillCmd, submitCmd, exportCmd)
}

// app はサブコマンドが共有する依存。
type app struct {
	cfg        config.ClientConfig
	httpClient *http.Client
	api        *apiclient.Client
}

func newApp() *app {
	cfg := config.LoadClient()
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	return &app{
		cfg:        cfg,
		httpClient: httpClient,
		api:        apiclient.New(cfg.APIBaseURL, httpClient),
	}
}

func (a *app) uploader(ctx context.Context) (form.Uploader, error) {
	switch a.cfg.UploadProvider {
	case "minio":
		client, err := upload.NewMinIOClient(a.cfg.MinIO)
		if err != nil {
			return nil, err
		}
		uploader := upload.NewMinIOUploader(client, a.cfg.MinIO.Bucket, a.cfg.MinIO.PublicBaseURL)
		if err := uploader.EnsureBucket(ctx); err != nil {
			a.cfg.Log.Warnw("バケットの確認に失敗", "bucket", a.cfg.MinIO.Bucket, "error", err)
		}
		return uploader, nil
	case "cloudinary":
		uploader, err := upload.NewCloudinaryUploader(a.cfg.Cloudinary, a.httpClient)
		if err != nil {
			return nil, err
		}
		return uploader, nil
	default:
		return nil, fmt.Errorf("unknown UPLOAD_PROVIDER %q", a.cfg.UploadProvider)
	}
}

func (a *app) locator() (form.Locator, error) {
	switch a.cfg.GeoProvider {
	case "static":
		return geo.StaticLocator{Latitude: a.cfg.GeoLatitude, Longitude: a.cfg.GeoLongitude}, nil
	case "http":
		return geo.NewHTTPLocator(a.cfg.GeoEndpoint, a.httpClient), nil
	default:
		return nil, fmt.Errorf("unknown GEO_PROVIDER %q", a.cfg.GeoProvider)
	}
}

// controller builds a form controller. The uploader is only built when needed
// so that submitting without a photo works without upload credentials.
func (a *app) controller(ctx context.Context, withUploader bool) (*form.Controller, error) {
	locator, err := a.locator()
	if err != nil {
		return nil, err
	}
	cfg := form.Config{Logger: a.cfg.Log, Locator: locator, Submitter: a.api}
	if withUploader {
		if cfg.Uploader, err = a.uploader(ctx); err != nil {
			return nil, err
		}
	}
	return form.NewController(cfg), nil
}
