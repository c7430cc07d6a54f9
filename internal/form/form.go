package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
)

// ErrBusy is returned when an action starts while another is in flight.
var ErrBusy = errors.New("form: another action is in progress")

// ErrUnknownField is returned by Set for keys outside Fields.
var ErrUnknownField = errors.New("form: field is not editable")

// Uploader stores a captured photo and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, image domain.Image) (string, error)
}

// Locator resolves the device position.
type Locator interface {
	Locate(ctx context.Context) (domain.Position, error)
}

// Submitter sends a finished draft to the API.
type Submitter interface {
	Submit(ctx context.Context, draft domain.Draft) error
}

// Config defines dependencies required by Controller.
type Config struct {
	Logger    *zap.SugaredLogger
	Uploader  Uploader
	Locator   Locator
	Submitter Submitter
}

// Controller は Model を保持し、アダプタ呼び出しをロックの外で行う。
type Controller struct {
	mu        sync.Mutex
	model     Model
	logger    *zap.SugaredLogger
	uploader  Uploader
	locator   Locator
	submitter Submitter
}

func NewController(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Controller{
		logger:    logger,
		uploader:  cfg.Uploader,
		locator:   cfg.Locator,
		submitter: cfg.Submitter,
	}
}

// Model returns a snapshot of the current state.
func (c *Controller) Model() Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

func (c *Controller) dispatch(e Event) Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = Reduce(c.model, e)
	return c.model
}

// Set updates one editable field.
func (c *Controller) Set(key, value string) error {
	if _, ok := Lookup(key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	c.dispatch(FieldChanged{Key: key, Value: value})
	return nil
}

// Load replaces the draft. Coordinates in d are dropped.
func (c *Controller) Load(d domain.Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model.Phase != Idle {
		return ErrBusy
	}
	c.model = Reduce(c.model, DraftLoaded{Draft: d})
	return nil
}

// Capture uploads image and stores the returned URL in customerImage.
// On failure the previous customerImage is kept.
func (c *Controller) Capture(ctx context.Context, image domain.Image) error {
	c.mu.Lock()
	if c.model.Phase != Idle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.model = Reduce(c.model, CaptureStarted{})
	c.mu.Unlock()

	if c.uploader == nil {
		err := fmt.Errorf("%w: no uploader configured", domain.ErrUpload)
		c.dispatch(CaptureFailed{Err: err})
		return err
	}

	url, err := c.uploader.Upload(ctx, image)
	if err == nil && url == "" {
		err = fmt.Errorf("%w: empty url", domain.ErrUpload)
	}
	if err != nil {
		c.logger.Warnw("画像アップロードに失敗", "error", err, "file", image.Filename)
		c.dispatch(CaptureFailed{Err: err})
		return err
	}

	c.dispatch(CaptureSucceeded{URL: url})
	c.logger.Infow("画像をアップロードしました", "url", url)
	return nil
}

// Save validates the draft, resolves the position and submits.
// Validation or location failures make no submit call.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.model.Phase != Idle {
		c.mu.Unlock()
		return ErrBusy
	}
	if err := domain.Validate(c.model.Draft); err != nil {
		c.model = Reduce(c.model, SaveRejected{Err: err})
		c.mu.Unlock()
		return err
	}
	c.model = Reduce(c.model, SaveStarted{})
	draft := c.model.Draft
	c.mu.Unlock()

	if c.locator == nil {
		err := fmt.Errorf("%w: location not supported", domain.ErrLocation)
		c.dispatch(SaveFailed{Err: err})
		return err
	}
	pos, err := c.locator.Locate(ctx)
	if err != nil {
		c.logger.Warnw("位置情報の取得に失敗", "error", err)
		c.dispatch(SaveFailed{Err: err})
		return err
	}

	if err := c.submitter.Submit(ctx, draft.WithPosition(pos)); err != nil {
		c.logger.Errorw("保存に失敗", "error", err)
		c.dispatch(SaveFailed{Err: err})
		return err
	}

	c.dispatch(SaveSucceeded{})
	c.logger.Infow("レコードを送信しました", "name", draft.Name, "lat", pos.Latitude, "lng", pos.Longitude)
	return nil
}
