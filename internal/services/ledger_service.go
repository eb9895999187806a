package services

import (
	"context"
	"errors"
	"fmt"

	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/log"
)

// Notifier receives every snapshot produced by a command. Delivery is best
// effort.
type Notifier interface {
	PublishSnapshot(ctx context.Context, snap core.Snapshot) error
	Close() error
}

// Catalog is the category source the service validates input against.
type Catalog interface {
	All() []core.CategoryDef
	Get(key string) (core.CategoryDef, bool)
}

// LedgerService is the command surface of the ledger: month navigation and
// entry mutations, each followed by a snapshot notification.
type LedgerService struct {
	store    *ledger.Store
	view     *ledger.View
	catalog  Catalog
	notifier Notifier
	logger   *log.Logger
}

// Options configures a LedgerService.
type Options struct {
	Month    core.MonthID // zero means the current month
	Locale   string
	Notifier Notifier // optional
	Logger   *log.Logger
}

// NewLedgerService starts an empty ledger viewing opts.Month.
func NewLedgerService(catalog Catalog, opts Options) *LedgerService {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	store := ledger.NewStore(nil)
	return &LedgerService{
		store:    store,
		view:     ledger.NewView(store, catalog, opts.Month, opts.Locale),
		catalog:  catalog,
		notifier: opts.Notifier,
		logger:   logger.WithComponent(log.ComponentLedger),
	}
}

// View exposes the observable outputs.
func (s *LedgerService) View() *ledger.View { return s.view }

// Snapshot returns the selected month's current derived state.
func (s *LedgerService) Snapshot() core.Snapshot { return s.view.Snapshot() }

// Categories returns the catalog in seed order.
func (s *LedgerService) Categories() []core.CategoryDef { return s.catalog.All() }

// EntryCount returns how many entries the ledger holds across all months.
func (s *LedgerService) EntryCount() int { return s.store.Len() }

// Subscribe pushes every new snapshot to fn, starting with the current one.
func (s *LedgerService) Subscribe(fn func(core.Snapshot)) (cancel func()) {
	return s.view.Subscribe(fn)
}

// Entry returns a stored entry by id, whatever its month.
func (s *LedgerService) Entry(id string) (core.Entry, error) {
	e, ok := s.store.Get(id)
	if !ok {
		return core.Entry{}, fmt.Errorf("entry %q: %w", id, core.ErrNotFound)
	}
	return e, nil
}

// SelectMonth parses id and makes it the active month.
func (s *LedgerService) SelectMonth(ctx context.Context, id string) (core.Snapshot, error) {
	m, err := core.ParseMonthID(id)
	if err != nil {
		s.logger.LogOp(ctx, log.OpSelectMonth, err, log.NewFields().WithMonth(id))
		return core.Snapshot{}, err
	}
	s.view.SelectMonth(m)
	return s.published(ctx), nil
}

// SelectNextMonth moves the selection one month forward.
func (s *LedgerService) SelectNextMonth(ctx context.Context) core.Snapshot {
	s.view.SelectNextMonth()
	return s.published(ctx)
}

// SelectPreviousMonth moves the selection one month back.
func (s *LedgerService) SelectPreviousMonth(ctx context.Context) core.Snapshot {
	s.view.SelectPreviousMonth()
	return s.published(ctx)
}

// AddEntry validates in and appends the resulting entry.
func (s *LedgerService) AddEntry(ctx context.Context, in core.EntryInput) (core.Entry, error) {
	e, err := core.ParseEntryInput(in, s.catalog)
	if err != nil {
		s.logger.LogOp(ctx, log.OpCreate, err, nil)
		return core.Entry{}, err
	}
	stored := s.store.Add(e)
	s.logger.LogOp(ctx, log.OpCreate, nil, entryFields(stored))
	s.published(ctx)
	return stored, nil
}

// UpdateEntry replaces the entry with the given id.
func (s *LedgerService) UpdateEntry(ctx context.Context, id string, in core.EntryInput) (core.Entry, error) {
	e, err := core.ParseEntryInput(in, s.catalog)
	if err != nil {
		s.logger.LogOp(ctx, log.OpUpdate, err, log.NewFields().WithEntry(id, in.CategoryKey, in.Amount))
		return core.Entry{}, err
	}
	e.ID = id
	if !s.store.Update(e) {
		err := fmt.Errorf("entry %q: %w", id, core.ErrNotFound)
		s.logger.LogOp(ctx, log.OpUpdate, err, nil)
		return core.Entry{}, err
	}
	s.logger.LogOp(ctx, log.OpUpdate, nil, entryFields(e))
	s.published(ctx)
	return e, nil
}

// DeleteEntry removes the entry with the given id.
func (s *LedgerService) DeleteEntry(ctx context.Context, id string) error {
	if !s.store.Delete(id) {
		err := fmt.Errorf("entry %q: %w", id, core.ErrNotFound)
		s.logger.LogOp(ctx, log.OpDelete, err, nil)
		return err
	}
	s.logger.LogOp(ctx, log.OpDelete, nil, log.NewFields().WithEntry(id, "", ""))
	s.published(ctx)
	return nil
}

// ReplaceAll swaps the whole ledger, e.g. for seeding or import. Every entry
// must pass core.Entry.Validate; otherwise nothing is replaced. Unknown
// category keys are accepted and left out of the totals.
func (s *LedgerService) ReplaceAll(ctx context.Context, entries []core.Entry) error {
	var errs []error
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		err = fmt.Errorf("replace ledger: %w: %w", core.ErrValidation, err)
		s.logger.LogOp(ctx, log.OpCreate, err, nil)
		return err
	}
	s.store.ReplaceAll(entries)
	s.logger.InfoContext(ctx, "Ledger replaced", log.FieldEntries, len(entries))
	s.published(ctx)
	return nil
}

// published returns the current snapshot after forwarding it to the
// notifier. Notification failures are logged, never returned: the ledger has
// already changed.
func (s *LedgerService) published(ctx context.Context) core.Snapshot {
	snap := s.view.Snapshot()
	if s.notifier == nil {
		return snap
	}
	if err := s.notifier.PublishSnapshot(ctx, snap); err != nil {
		s.logger.LogOp(ctx, log.OpPublish, err, log.NewFields().WithMonth(snap.Month.String()))
	}
	return snap
}

func entryFields(e core.Entry) log.LogFields {
	return log.NewFields().
		WithEntry(e.ID, e.CategoryKey, core.AmountString(e.Amount)).
		WithMonth(core.MonthOf(e.Date.Time).String())
}

// Close detaches the view and closes the notifier.
func (s *LedgerService) Close() error {
	s.view.Close()

	var errs []error
	if s.notifier != nil {
		if err := s.notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("notifier: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close ledger service: %w", err)
	}
	return nil
}
