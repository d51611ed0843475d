package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/fairshare/internal/events"
	"github.com/mmynk/fairshare/internal/ledger"
	"github.com/mmynk/fairshare/internal/metrics"
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/report"
	"github.com/mmynk/fairshare/internal/storage"
	"github.com/mmynk/fairshare/pkg/api"
	"github.com/mmynk/fairshare/pkg/api/apiconnect"
)

var (
	errHouseholdIDRequired = errors.New("household_id required")
	errUnknownIncomeMode   = errors.New("mode must be gross or leftover")
	errLeftoverRequired    = errors.New("salaryRemaining is required for leftover mode")
	errUnknownFormat       = errors.New("format must be text or csv")
)

// Mutation names used for metrics labels and events.
const (
	opUpdateRoster  = "update_roster"
	opSetIncomeMode = "set_income_mode"
	opAddExpense    = "add_expense"
	opRemoveExpense = "remove_expense"
	opImportState   = "import_state"
)

// entry caches one household. Its mutex serializes every operation on
// that household; the ledger.Household inside is not safe for concurrent use.
type entry struct {
	mu     sync.Mutex
	loaded bool
	meta   *models.Household
	hh     *ledger.Household
}

// HouseholdService implements the Connect HouseholdService.
type HouseholdService struct {
	store     storage.Store
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

var _ apiconnect.HouseholdServiceHandler = (*HouseholdService)(nil)

type Option func(*HouseholdService)

// WithPublisher sets where summary events go. Defaults to events.Noop.
func WithPublisher(p events.Publisher) Option {
	return func(s *HouseholdService) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *HouseholdService) { s.metrics = m }
}

// WithClock overrides time.Now for report dates and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *HouseholdService) { s.now = now }
}

// NewHouseholdService creates a new HouseholdService with the given storage backend.
func NewHouseholdService(store storage.Store, opts ...Option) *HouseholdService {
	s := &HouseholdService{
		store:     store,
		publisher: events.Noop{},
		now:       time.Now,
		entries:   make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// toConnectError maps domain and storage errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrPayerRequired),
		errors.Is(err, ledger.ErrUnknownPayer),
		errors.Is(err, ledger.ErrContributionMismatch),
		errors.Is(err, ledger.ErrIndexOutOfRange),
		errors.Is(err, models.ErrLeftoverExceedsIncome),
		errors.Is(err, models.ErrInvalidIncome),
		errors.Is(err, errPartialLeftover),
		errors.Is(err, errHouseholdIDRequired),
		errors.Is(err, errUnknownIncomeMode),
		errors.Is(err, errLeftoverRequired),
		errors.Is(err, errUnknownFormat):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// ErrorCode reports the Connect code the service uses for err.
func ErrorCode(err error) connect.Code {
	return connect.CodeOf(toConnectError(err))
}

// acquire returns the locked, loaded entry for id. The caller must unlock it.
func (s *HouseholdService) acquire(ctx context.Context, id string) (*entry, error) {
	if id == "" {
		return nil, errHouseholdIDRequired
	}

	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{}
		s.entries[id] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	if e.loaded {
		return e, nil
	}

	stored, err := s.store.GetHousehold(ctx, id)
	if err != nil {
		e.mu.Unlock()
		if errors.Is(err, storage.ErrNotFound) {
			s.mu.Lock()
			if s.entries[id] == e && !e.loaded {
				delete(s.entries, id)
			}
			s.mu.Unlock()
		}
		return nil, err
	}
	e.meta = stored
	e.hh = ledger.FromState(stored.State)
	e.loaded = true
	return e, nil
}

// view runs fn with the household locked and without saving.
func (s *HouseholdService) view(ctx context.Context, id string, fn func(e *entry) error) error {
	e, err := s.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	return fn(e)
}

// mutate applies fn to the household, persists the result and publishes
// a summary event once the household lock is released. When fn or the save
// fails the cached household is restored to its state before the call.
func (s *HouseholdService) mutate(ctx context.Context, id, op string, fn func(hh *ledger.Household) error) (api.Household, error) {
	out, err := s.apply(ctx, id, op, fn)
	if err != nil {
		return api.Household{}, err
	}
	s.publish(ctx, op, out)
	return out, nil
}

func (s *HouseholdService) apply(ctx context.Context, id, op string, fn func(hh *ledger.Household) error) (api.Household, error) {
	e, err := s.acquire(ctx, id)
	if err != nil {
		return api.Household{}, err
	}
	defer e.mu.Unlock()

	before := e.hh.Clone()
	if err := fn(e.hh); err != nil {
		e.hh = before
		return api.Household{}, err
	}

	updated := *e.meta
	updated.State = e.hh.State()
	if err := s.store.SaveHousehold(ctx, &updated); err != nil {
		e.hh = before
		return api.Household{}, fmt.Errorf("failed to save household: %w", err)
	}
	e.meta = &updated

	s.metrics.ObserveMutation(op)
	return toAPIHousehold(e.meta, e.hh), nil
}

func (s *HouseholdService) publish(ctx context.Context, op string, h api.Household) {
	ev := events.SummaryEvent{
		HouseholdID: h.ID,
		Operation:   op,
		Summary: models.Summary{
			TotalExpenses:         h.Summary.TotalExpenses,
			TotalPaid:             h.Summary.TotalPaid,
			ExpectedContributions: h.Summary.ExpectedContributions,
			Balances:              h.Summary.Balances,
		},
		Settlement: h.Settlement,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishSummary(ctx, ev); err != nil {
		slog.Warn("Failed to publish summary event", "household_id", h.ID, "operation", op, "error", err)
	}
}

// CreateHousehold creates a new household.
func (s *HouseholdService) CreateHousehold(ctx context.Context, req *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error) {
	slog.Info("CreateHousehold request received", "name", req.Msg.Name)

	roster := models.NewRoster("", 0, "", 0)
	if req.Msg.Participants != nil {
		r, err := grossRoster(*req.Msg.Participants)
		if err != nil {
			return nil, toConnectError(err)
		}
		roster = r
	}

	hh := ledger.NewHousehold(roster)
	meta := &models.Household{Name: req.Msg.Name, State: hh.State()}
	if err := s.store.CreateHousehold(ctx, meta); err != nil {
		slog.Error("CreateHousehold failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.mu.Lock()
	s.entries[meta.ID] = &entry{loaded: true, meta: meta, hh: hh}
	s.mu.Unlock()

	slog.Info("Household created", "household_id", meta.ID, "name", meta.Name)

	return connect.NewResponse(&api.CreateHouseholdResponse{
		Household: toAPIHousehold(meta, hh),
	}), nil
}

// GetHousehold retrieves a household with its ledger and summary.
func (s *HouseholdService) GetHousehold(ctx context.Context, req *connect.Request[api.GetHouseholdRequest]) (*connect.Response[api.GetHouseholdResponse], error) {
	slog.Info("GetHousehold request received", "household_id", req.Msg.HouseholdID)

	var out api.Household
	err := s.view(ctx, req.Msg.HouseholdID, func(e *entry) error {
		out = toAPIHousehold(e.meta, e.hh)
		return nil
	})
	if err != nil {
		slog.Error("GetHousehold failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetHouseholdResponse{Household: out}), nil
}

// ListHouseholds lists stored households without their ledgers.
func (s *HouseholdService) ListHouseholds(ctx context.Context, _ *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error) {
	slog.Info("ListHouseholds request received")

	households, err := s.store.ListHouseholds(ctx)
	if err != nil {
		slog.Error("ListHouseholds failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	infos := make([]api.HouseholdInfo, len(households))
	for i, h := range households {
		total := ledger.FromState(h.State).Summary().TotalExpenses
		infos[i] = api.HouseholdInfo{
			ID:            h.ID,
			Name:          h.Name,
			ExpenseCount:  len(h.State.Expenses),
			TotalExpenses: total,
			UpdatedAt:     h.UpdatedAt,
		}
	}

	slog.Info("ListHouseholds successful", "count", len(infos))

	return connect.NewResponse(&api.ListHouseholdsResponse{Households: infos}), nil
}

// UpdateRoster replaces names and gross incomes. Stored shares are
// re-derived; contributions are left as they were.
func (s *HouseholdService) UpdateRoster(ctx context.Context, req *connect.Request[api.UpdateRosterRequest]) (*connect.Response[api.UpdateRosterResponse], error) {
	slog.Info("UpdateRoster request received", "household_id", req.Msg.HouseholdID)

	out, err := s.mutate(ctx, req.Msg.HouseholdID, opUpdateRoster, func(hh *ledger.Household) error {
		r, err := grossRoster(req.Msg.Participants)
		if err != nil {
			return err
		}
		// Keep leftover mode when the caller did not restate it.
		current := hh.Roster()
		if r.Mode() == models.GrossMode && current.Mode() == models.LeftoverMode {
			r, err = models.ToLeftoverMode(r, models.Pair{*current[0].SalaryRemaining, *current[1].SalaryRemaining})
			if err != nil {
				return err
			}
		}
		hh.UpdateRoster(r)
		return nil
	})
	if err != nil {
		slog.Error("UpdateRoster failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.UpdateRosterResponse{Household: out}), nil
}

// SetIncomeMode switches between gross and leftover income accounting.
func (s *HouseholdService) SetIncomeMode(ctx context.Context, req *connect.Request[api.SetIncomeModeRequest]) (*connect.Response[api.SetIncomeModeResponse], error) {
	slog.Info("SetIncomeMode request received", "household_id", req.Msg.HouseholdID, "mode", req.Msg.Mode)

	out, err := s.mutate(ctx, req.Msg.HouseholdID, opSetIncomeMode, func(hh *ledger.Household) error {
		switch req.Msg.Mode {
		case api.IncomeModeGross:
			hh.ClearLeftover()
			return nil
		case api.IncomeModeLeftover:
			if req.Msg.SalaryRemaining == nil {
				return errLeftoverRequired
			}
			return hh.SetLeftover(models.Pair(*req.Msg.SalaryRemaining))
		default:
			return errUnknownIncomeMode
		}
	})
	if err != nil {
		slog.Error("SetIncomeMode failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SetIncomeModeResponse{Household: out}), nil
}

// PreviewExpense returns the expense AddExpense would store.
func (s *HouseholdService) PreviewExpense(ctx context.Context, req *connect.Request[api.PreviewExpenseRequest]) (*connect.Response[api.PreviewExpenseResponse], error) {
	var preview models.Expense
	err := s.view(ctx, req.Msg.HouseholdID, func(e *entry) error {
		var err error
		preview, err = e.hh.Preview(draftFromAPI(req.Msg.Expense))
		return err
	})
	if err != nil {
		slog.Debug("PreviewExpense rejected", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.PreviewExpenseResponse{Expense: toAPIExpense(preview)}), nil
}

// AddExpense appends an expense and returns the recomputed household.
func (s *HouseholdService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"household_id", req.Msg.HouseholdID,
		"category", req.Msg.Expense.Category,
		"amount", req.Msg.Expense.Amount,
	)

	var added models.Expense
	out, err := s.mutate(ctx, req.Msg.HouseholdID, opAddExpense, func(hh *ledger.Household) error {
		var err error
		added, err = hh.AddExpense(draftFromAPI(req.Msg.Expense))
		return err
	})
	if err != nil {
		slog.Error("AddExpense failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ObserveExpense(added.Amount)

	slog.Info("Expense added",
		"household_id", out.ID,
		"expense_count", len(out.Expenses),
		"total_expenses", out.Summary.TotalExpenses,
	)

	return connect.NewResponse(&api.AddExpenseResponse{
		Expense:   toAPIExpense(added),
		Household: out,
	}), nil
}

// RemoveExpense deletes the expense at req.Index.
func (s *HouseholdService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	slog.Info("RemoveExpense request received", "household_id", req.Msg.HouseholdID, "index", req.Msg.Index)

	var removed models.Expense
	out, err := s.mutate(ctx, req.Msg.HouseholdID, opRemoveExpense, func(hh *ledger.Household) error {
		var err error
		removed, err = hh.RemoveExpense(req.Msg.Index)
		return err
	})
	if err != nil {
		slog.Error("RemoveExpense failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RemoveExpenseResponse{
		Removed:   toAPIExpense(removed),
		Household: out,
	}), nil
}

// Report renders the household report in the given format ("text" when
// empty). It backs both GetReport and the HTTP download route.
func (s *HouseholdService) Report(ctx context.Context, id, format string) (contentType string, body []byte, err error) {
	if format == "" {
		format = api.ReportFormatText
	}
	if format != api.ReportFormatText && format != api.ReportFormatCSV {
		return "", nil, errUnknownFormat
	}

	var rep report.Report
	err = s.view(ctx, id, func(e *entry) error {
		rep = report.Build(e.hh.Roster(), e.hh.Expenses(), e.hh.Summary(), s.now())
		if e.meta.Name != "" {
			rep.Title = fmt.Sprintf("%s: %s", report.DefaultTitle, e.meta.Name)
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	if format == api.ReportFormatCSV {
		contentType = "text/csv; charset=utf-8"
		err = rep.WriteCSV(&buf)
	} else {
		contentType = "text/plain; charset=utf-8"
		err = rep.WriteText(&buf)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to render report: %w", err)
	}
	return contentType, buf.Bytes(), nil
}

// GetReport renders the household report.
func (s *HouseholdService) GetReport(ctx context.Context, req *connect.Request[api.GetReportRequest]) (*connect.Response[api.GetReportResponse], error) {
	slog.Info("GetReport request received", "household_id", req.Msg.HouseholdID, "format", req.Msg.Format)

	contentType, body, err := s.Report(ctx, req.Msg.HouseholdID, req.Msg.Format)
	if err != nil {
		slog.Error("GetReport failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetReportResponse{
		ContentType: contentType,
		Content:     string(body),
	}), nil
}

// ExportState returns the persistable roster and ledger.
func (s *HouseholdService) ExportState(ctx context.Context, req *connect.Request[api.ExportStateRequest]) (*connect.Response[api.ExportStateResponse], error) {
	slog.Info("ExportState request received", "household_id", req.Msg.HouseholdID)

	var st models.State
	err := s.view(ctx, req.Msg.HouseholdID, func(e *entry) error {
		st = e.hh.State()
		return nil
	})
	if err != nil {
		slog.Error("ExportState failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ExportStateResponse{State: toAPIState(st)}), nil
}

// ImportState replaces the roster and ledger. Shares are re-derived for the
// imported roster; contributions are kept as exported.
func (s *HouseholdService) ImportState(ctx context.Context, req *connect.Request[api.ImportStateRequest]) (*connect.Response[api.ImportStateResponse], error) {
	slog.Info("ImportState request received",
		"household_id", req.Msg.HouseholdID,
		"expense_count", len(req.Msg.State.Expenses),
	)

	st, err := stateFromAPI(req.Msg.State)
	if err != nil {
		return nil, toConnectError(err)
	}

	out, err := s.mutate(ctx, req.Msg.HouseholdID, opImportState, func(hh *ledger.Household) error {
		imported := ledger.FromState(st)
		imported.UpdateRoster(st.Participants)
		*hh = *imported
		return nil
	})
	if err != nil {
		slog.Error("ImportState failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ImportStateResponse{Household: out}), nil
}
