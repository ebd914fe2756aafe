package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/oibkeeper/internal/client/clipboard"
	"github.com/dmitrijs2005/oibkeeper/internal/client/history"
	"github.com/dmitrijs2005/oibkeeper/internal/client/models"
	"github.com/dmitrijs2005/oibkeeper/internal/common"
	"github.com/dmitrijs2005/oibkeeper/internal/logging"
	"github.com/dmitrijs2005/oibkeeper/internal/metrics"
	"github.com/dmitrijs2005/oibkeeper/internal/oib"
)

// Generator produces new identifier values. *oib.Generator satisfies it.
type Generator interface {
	Generate() string
}

// OIBService is what the CLI drives: one method per user action.
type OIBService interface {
	Init(ctx context.Context) models.Entry
	Generate(ctx context.Context) models.Entry
	Latest(ctx context.Context) (models.Entry, bool)
	List(ctx context.Context) []models.Entry
	Search(ctx context.Context, term string) []models.Entry
	Pin(ctx context.Context, value string) error
	Unpin(ctx context.Context, value string) error
	ClearUnpinned(ctx context.Context)
	ClearAll(ctx context.Context)
	Copy(ctx context.Context, value string) error
	Verify(value string) bool
}

type oibService struct {
	gen     Generator
	store   *history.Store
	clip    clipboard.Writer
	log     logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewOIBService returns an OIBService that records identifiers from gen in store.
func NewOIBService(gen Generator, store *history.Store, clip clipboard.Writer, log logging.Logger, m *metrics.Metrics) OIBService {
	if log == nil {
		log = logging.Nop()
	}
	return &oibService{gen: gen, store: store, clip: clip, log: log, metrics: m, now: time.Now}
}

// Init returns the newest entry, generating a first one when the history
// is empty.
func (s *oibService) Init(ctx context.Context) models.Entry {
	if e, ok := s.Latest(ctx); ok {
		return e
	}
	return s.Generate(ctx)
}

func (s *oibService) Generate(ctx context.Context) models.Entry {
	value := s.gen.Generate()
	s.metrics.Generated()
	return s.store.Add(ctx, value, s.now().UnixMilli())
}

func (s *oibService) Latest(ctx context.Context) (models.Entry, bool) {
	list := s.store.List(ctx)
	if len(list) == 0 {
		return models.Entry{}, false
	}
	return list[0], true
}

func (s *oibService) List(ctx context.Context) []models.Entry {
	return s.store.List(ctx)
}

func (s *oibService) Search(ctx context.Context, term string) []models.Entry {
	return history.Filter(s.store.List(ctx), term)
}

func (s *oibService) Pin(ctx context.Context, value string) error {
	_, err := s.store.SetPinned(ctx, value, true)
	return err
}

func (s *oibService) Unpin(ctx context.Context, value string) error {
	_, err := s.store.SetPinned(ctx, value, false)
	return err
}

func (s *oibService) ClearUnpinned(ctx context.Context) {
	s.store.ClearUnpinned(ctx)
}

func (s *oibService) ClearAll(ctx context.Context) {
	s.store.ClearAll(ctx)
}

// Copy puts value on the clipboard. Empty values and the "-" placeholder
// are ignored.
func (s *oibService) Copy(ctx context.Context, value string) error {
	if value == "" || value == "-" {
		return nil
	}
	if err := s.clip.Write(ctx, value); err != nil {
		s.metrics.ClipboardFailed()
		s.log.Error(ctx, "clipboard write failed", "value", value, "err", err)
		return fmt.Errorf("%w: %v", common.ErrorClipboard, err)
	}
	s.log.Debug(ctx, "copied", "value", value)
	return nil
}

func (s *oibService) Verify(value string) bool {
	return oib.Verify(value)
}
