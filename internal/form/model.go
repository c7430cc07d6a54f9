package form

import (
	"errors"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
)

// Phase はフォームが同時に 1 つだけ持てる状態。
type Phase int

const (
	Idle Phase = iota
	CapturingImage
	Saving
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case CapturingImage:
		return "capturing-image"
	case Saving:
		return "saving"
	default:
		return "unknown"
	}
}

const (
	NoticeUploadFailed   = "Image upload failed!"
	NoticeLocationFailed = "Unable to fetch location. Please enable GPS."
	NoticeSaveFailed     = "Failed to save data."
	NoticeSaved          = "Data saved successfully!"
)

// Model is the complete form state.
type Model struct {
	Draft  domain.Draft
	Phase  Phase
	Notice string
}

// Event is an input to Reduce.
type Event interface {
	event()
}

type (
	FieldChanged struct {
		Key   string
		Value string
	}
	CaptureStarted   struct{}
	CaptureSucceeded struct{ URL string }
	CaptureFailed    struct{ Err error }
	SaveStarted      struct{}
	SaveSucceeded    struct{}
	SaveFailed       struct{ Err error }
	// SaveRejected は検証で弾かれた保存要求。状態遷移は起きない。
	SaveRejected struct{ Err error }
	// DraftLoaded replaces the whole draft, e.g. from a file.
	DraftLoaded struct{ Draft domain.Draft }
)

func (FieldChanged) event()     {}
func (CaptureStarted) event()   {}
func (CaptureSucceeded) event() {}
func (CaptureFailed) event()    {}
func (SaveStarted) event()      {}
func (SaveSucceeded) event()    {}
func (SaveFailed) event()       {}
func (SaveRejected) event()     {}
func (DraftLoaded) event()      {}

// Reduce returns the model after applying e. Events that are not legal in the
// current phase return m unchanged.
func Reduce(m Model, e Event) Model {
	switch ev := e.(type) {
	case FieldChanged:
		if _, ok := Lookup(ev.Key); !ok {
			return m
		}
		if err := m.Draft.Set(ev.Key, ev.Value); err != nil {
			return m
		}
	case DraftLoaded:
		if m.Phase != Idle {
			return m
		}
		m.Draft = ev.Draft
		m.Draft.Latitude, m.Draft.Longitude = nil, nil
		m.Notice = ""
	case CaptureStarted:
		if m.Phase != Idle {
			return m
		}
		m.Phase = CapturingImage
		m.Notice = ""
	case CaptureSucceeded:
		if m.Phase != CapturingImage {
			return m
		}
		m.Draft.CustomerImage = ev.URL
		m.Phase = Idle
	case CaptureFailed:
		if m.Phase != CapturingImage {
			return m
		}
		m.Phase = Idle
		m.Notice = NoticeUploadFailed
	case SaveRejected:
		if m.Phase != Idle {
			return m
		}
		m.Notice = rejectionNotice(ev.Err)
	case SaveStarted:
		if m.Phase != Idle {
			return m
		}
		m.Phase = Saving
		m.Notice = ""
	case SaveSucceeded:
		if m.Phase != Saving {
			return m
		}
		m.Draft = domain.Draft{}
		m.Phase = Idle
		m.Notice = NoticeSaved
	case SaveFailed:
		if m.Phase != Saving {
			return m
		}
		m.Phase = Idle
		if errors.Is(ev.Err, domain.ErrLocation) {
			m.Notice = NoticeLocationFailed
		} else {
			m.Notice = NoticeSaveFailed
		}
	}
	return m
}

func rejectionNotice(err error) string {
	var violations domain.ValidationErrors
	if errors.As(err, &violations) && len(violations) > 0 {
		return violations.First().Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
