package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
)

// RecordRepository は Record の追記と条件付き読み取りを提供するポート。
type RecordRepository interface {
	Insert(ctx context.Context, record *domain.Record) error
	Find(ctx context.Context, filter ExportFilter) ([]domain.Record, error)
}

// WorkbookFormatter はレコード列を表計算ファイルとして書き出すポート。
type WorkbookFormatter interface {
	Format(records []domain.Record, w io.Writer) error
}

// ExportFilter expresses the optional export predicates.
// Start/End are inclusive bounds on dateTime; Name is a case-insensitive substring.
type ExportFilter struct {
	Start *time.Time
	End   *time.Time
	Name  string
}

// RecordCommandService handles the create-record use-case.
type RecordCommandService interface {
	Create(ctx context.Context, draft domain.Draft) (*domain.Record, error)
}

// RecordQueryService handles the export-records read.
type RecordQueryService interface {
	Export(ctx context.Context, filter ExportFilter) ([]domain.Record, error)
}

// CommandOptions はコマンドサービスの挙動を切り替える。
type CommandOptions struct {
	Location *time.Location
	// Validate が true の場合、クライアントと同じ検証をサーバーでも行う。
	Validate bool
	Now      func() time.Time
}

func NewRecordCommandService(repo RecordRepository, opts CommandOptions) RecordCommandService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &recordCommandService{repo: repo, opts: opts}
}

type recordCommandService struct {
	repo RecordRepository
	opts CommandOptions
}

func (s *recordCommandService) Create(ctx context.Context, draft domain.Draft) (*domain.Record, error) {
	if s.opts.Validate {
		if err := domain.Validate(draft); err != nil {
			return nil, err
		}
	}

	record, err := draft.ToRecord(s.opts.Location)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = s.opts.Now().UTC()

	if err := s.repo.Insert(ctx, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return &record, nil
}

func NewRecordQueryService(repo RecordRepository) RecordQueryService {
	return &recordQueryService{repo: repo}
}

type recordQueryService struct {
	repo RecordRepository
}

func (s *recordQueryService) Export(ctx context.Context, filter ExportFilter) ([]domain.Record, error) {
	records, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}
	return records, nil
}

// IsClientError は呼び出し側の入力に起因するエラーかどうかを判定する。
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrInvalidPayload)
}
