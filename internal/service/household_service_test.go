package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/fairshare/internal/events"
	"github.com/mmynk/fairshare/internal/metrics"
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/storage"
	"github.com/mmynk/fairshare/internal/storage/memory"
	"github.com/mmynk/fairshare/internal/storage/sqlite"
	"github.com/mmynk/fairshare/pkg/api"
	"github.com/mmynk/fairshare/pkg/api/apiconnect"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.SummaryEvent
}

func (p *recordingPublisher) PublishSummary(_ context.Context, e events.SummaryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) operations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ops := make([]string, len(p.events))
	for i, e := range p.events {
		ops[i] = e.Operation
	}
	return ops
}

// blockingPublisher holds every publish until release is closed.
type blockingPublisher struct {
	started chan struct{}
	release chan struct{}
}

func (p *blockingPublisher) PublishSummary(ctx context.Context, _ events.SummaryEvent) error {
	p.started <- struct{}{}
	select {
	case <-p.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *blockingPublisher) Close() error { return nil }

// failingStore wraps a store and fails SaveHousehold on demand.
type failingStore struct {
	storage.Store
	failSave bool
}

func (s *failingStore) SaveHousehold(ctx context.Context, h *models.Household) error {
	if s.failSave {
		return errors.New("disk full")
	}
	return s.Store.SaveHousehold(ctx, h)
}

func newTestClient(t *testing.T, svc *HouseholdService) apiconnect.HouseholdServiceClient {
	t.Helper()
	path, handler := apiconnect.NewHouseholdServiceHandler(svc)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return apiconnect.NewHouseholdServiceClient(http.DefaultClient, server.URL)
}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T, opts ...Option) (apiconnect.HouseholdServiceClient, storage.Store) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return newTestClient(t, NewHouseholdService(store, opts...)), store
}

func aliceAndBob() *[2]api.Participant {
	return &[2]api.Participant{{Name: "Alice", Income: 3000}, {Name: "Bob", Income: 1000}}
}

func createHousehold(t *testing.T, client apiconnect.HouseholdServiceClient) api.Household {
	t.Helper()
	resp, err := client.CreateHousehold(context.Background(), connect.NewRequest(&api.CreateHouseholdRequest{
		Participants: aliceAndBob(),
	}))
	if err != nil {
		t.Fatalf("CreateHousehold failed: %v", err)
	}
	return resp.Msg.Household
}

func addExpense(t *testing.T, client apiconnect.HouseholdServiceClient, id string, in api.ExpenseInput) *api.AddExpenseResponse {
	t.Helper()
	resp, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		HouseholdID: id,
		Expense:     in,
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg
}

func assertPair(t *testing.T, label string, got, want [2]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > 0.01 {
			t.Errorf("%s = %v, want %v", label, got, want)
			return
		}
	}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code = %v, want %v (err: %v)", got, want, err)
	}
}

func TestCreateHousehold(t *testing.T) {
	client, _ := setupTestServer(t)

	t.Run("defaults to two unnamed participants", func(t *testing.T) {
		resp, err := client.CreateHousehold(context.Background(), connect.NewRequest(&api.CreateHouseholdRequest{}))
		if err != nil {
			t.Fatalf("CreateHousehold failed: %v", err)
		}
		h := resp.Msg.Household
		if h.ID == "" {
			t.Error("Expected household ID to be generated")
		}
		if !strings.HasPrefix(h.Name, "Household - ") {
			t.Errorf("Name = %q, want generated name", h.Name)
		}
		for i, p := range h.Participants {
			if p.Name != "" || p.Income != 0 {
				t.Errorf("participant %d = %+v, want empty", i, p)
			}
		}
		if h.IncomeMode != api.IncomeModeGross {
			t.Errorf("IncomeMode = %q, want gross", h.IncomeMode)
		}
	})

	t.Run("with participants", func(t *testing.T) {
		h := createHousehold(t, client)
		if h.Name != "Alice & Bob" {
			t.Errorf("Name = %q, want %q", h.Name, "Alice & Bob")
		}
		if h.Settlement != "" {
			t.Errorf("Settlement = %q, want empty", h.Settlement)
		}
	})

	t.Run("negative income", func(t *testing.T) {
		_, err := client.CreateHousehold(context.Background(), connect.NewRequest(&api.CreateHouseholdRequest{
			Participants: &[2]api.Participant{{Name: "Alice", Income: -1}, {Name: "Bob"}},
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("leftover for one participant only", func(t *testing.T) {
		keep := 100.0
		_, err := client.CreateHousehold(context.Background(), connect.NewRequest(&api.CreateHouseholdRequest{
			Participants: &[2]api.Participant{{Name: "Alice", Income: 3000, SalaryRemaining: &keep}, {Name: "Bob", Income: 1000}},
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestGetHousehold(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		_, err := client.GetHousehold(ctx, connect.NewRequest(&api.GetHouseholdRequest{HouseholdID: "missing"}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := client.GetHousehold(ctx, connect.NewRequest(&api.GetHouseholdRequest{}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("returns ledger and summary", func(t *testing.T) {
		h := createHousehold(t, client)
		addExpense(t, client, h.ID, api.ExpenseInput{Category: "Rent", Amount: 1000, PaidBy: "Alice", PaidFor: "Common"})

		resp, err := client.GetHousehold(ctx, connect.NewRequest(&api.GetHouseholdRequest{HouseholdID: h.ID}))
		if err != nil {
			t.Fatalf("GetHousehold failed: %v", err)
		}
		got := resp.Msg.Household
		if len(got.Expenses) != 1 {
			t.Fatalf("Expected 1 expense, got %d", len(got.Expenses))
		}
		if got.Summary.TotalExpenses != 1000 {
			t.Errorf("TotalExpenses = %v, want 1000", got.Summary.TotalExpenses)
		}
	})
}

func TestAddExpense(t *testing.T) {
	client, _ := setupTestServer(t)
	h := createHousehold(t, client)

	resp := addExpense(t, client, h.ID, api.ExpenseInput{Category: "Rent", Amount: 1000, PaidBy: "Alice", PaidFor: "Common"})

	assertPair(t, "shares", [2]float64{resp.Expense.FirstPersonShare, resp.Expense.SecondPersonShare}, [2]float64{750, 250})
	assertPair(t, "contribution", resp.Expense.Contribution, [2]float64{1000, 0})

	s := resp.Household.Summary
	if s.TotalExpenses != 1000 {
		t.Errorf("TotalExpenses = %v, want 1000", s.TotalExpenses)
	}
	assertPair(t, "totalPaid", s.TotalPaid, [2]float64{1000, 0})
	assertPair(t, "expected", s.ExpectedContributions, [2]float64{750, 250})
	assertPair(t, "balances", s.Balances, [2]float64{250, -250})
	if resp.Household.Settlement != "Bob owes Alice 250.00€" {
		t.Errorf("Settlement = %q", resp.Household.Settlement)
	}

	t.Run("Both with explicit contribution", func(t *testing.T) {
		resp := addExpense(t, client, h.ID, api.ExpenseInput{
			Category: "Gym", Amount: 200, PaidBy: "Both", PaidFor: "Bob",
			Contribution: &[2]float64{150, 50},
		})
		assertPair(t, "contribution", resp.Expense.Contribution, [2]float64{150, 50})
		assertPair(t, "shares", [2]float64{resp.Expense.FirstPersonShare, resp.Expense.SecondPersonShare}, [2]float64{0, 200})
	})

	tests := []struct {
		name string
		in   api.ExpenseInput
	}{
		{name: "unknown payer", in: api.ExpenseInput{Amount: 10, PaidBy: "Carol", PaidFor: "Common"}},
		{name: "missing payer", in: api.ExpenseInput{Amount: 10, PaidFor: "Common"}},
		{name: "negative amount", in: api.ExpenseInput{Amount: -5, PaidBy: "Alice", PaidFor: "Common"}},
		{name: "contribution mismatch", in: api.ExpenseInput{Amount: 100, PaidBy: "Both", PaidFor: "Common", Contribution: &[2]float64{10, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
				HouseholdID: h.ID,
				Expense:     tt.in,
			}))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}

	got, err := client.GetHousehold(context.Background(), connect.NewRequest(&api.GetHouseholdRequest{HouseholdID: h.ID}))
	if err != nil {
		t.Fatalf("GetHousehold failed: %v", err)
	}
	if n := len(got.Msg.Household.Expenses); n != 2 {
		t.Errorf("rejected expenses must not be stored: got %d expenses, want 2", n)
	}
}

func TestPreviewExpense(t *testing.T) {
	client, _ := setupTestServer(t)
	h := createHousehold(t, client)

	resp, err := client.PreviewExpense(context.Background(), connect.NewRequest(&api.PreviewExpenseRequest{
		HouseholdID: h.ID,
		Expense:     api.ExpenseInput{Category: "Groceries", Amount: 90, PaidBy: "Both", PaidFor: "Common"},
	}))
	if err != nil {
		t.Fatalf("PreviewExpense failed: %v", err)
	}
	assertPair(t, "contribution", resp.Msg.Expense.Contribution, [2]float64{67.5, 22.5})

	got, err := client.GetHousehold(context.Background(), connect.NewRequest(&api.GetHouseholdRequest{HouseholdID: h.ID}))
	if err != nil {
		t.Fatalf("GetHousehold failed: %v", err)
	}
	if len(got.Msg.Household.Expenses) != 0 {
		t.Error("PreviewExpense must not change the ledger")
	}
}

func TestRemoveExpense(t *testing.T) {
	client, _ := setupTestServer(t)
	h := createHousehold(t, client)
	ctx := context.Background()

	addExpense(t, client, h.ID, api.ExpenseInput{Category: "Rent", Amount: 1000, PaidBy: "Alice", PaidFor: "Common"})
	addExpense(t, client, h.ID, api.ExpenseInput{Category: "Food", Amount: 100, PaidBy: "Bob", PaidFor: "Bob"})

	resp, err := client.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{HouseholdID: h.ID, Index: 0}))
	if err != nil {
		t.Fatalf("RemoveExpense failed: %v", err)
	}
	if resp.Msg.Removed.Category != "Rent" {
		t.Errorf("Removed = %+v, want Rent", resp.Msg.Removed)
	}
	out := resp.Msg.Household
	if len(out.Expenses) != 1 || out.Expenses[0].Category != "Food" {
		t.Fatalf("Expenses = %+v", out.Expenses)
	}
	assertPair(t, "balances", out.Summary.Balances, [2]float64{0, 0})

	t.Run("out of range", func(t *testing.T) {
		_, err := client.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{HouseholdID: h.ID, Index: 5}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestUpdateRoster(t *testing.T) {
	client, _ := setupTestServer(t)
	h := createHousehold(t, client)
	ctx := context.Background()

	addExpense(t, client, h.ID, api.ExpenseInput{Category: "Groceries", Amount: 90, PaidBy: "Both", PaidFor: "Common"})

	resp, err := client.UpdateRoster(ctx, connect.NewRequest(&api.UpdateRosterRequest{
		HouseholdID:  h.ID,
		Participants: [2]api.Participant{{Name: "Alice", Income: 1000}, {Name: "Bob", Income: 1000}},
	}))
	if err != nil {
		t.Fatalf("UpdateRoster failed: %v", err)
	}

	e := resp.Msg.Household.Expenses[0]
	assertPair(t, "shares", [2]float64{e.FirstPersonShare, e.SecondPersonShare}, [2]float64{45, 45})
	// Contributions stay as derived when the expense was added.
	assertPair(t, "contribution", e.Contribution, [2]float64{67.5, 22.5})
	assertPair(t, "balances", resp.Msg.Household.Summary.Balances, [2]float64{22.5, -22.5})
}

func TestSetIncomeMode(t *testing.T) {
	client, _ := setupTestServer(t)
	h := createHousehold(t, client)
	ctx := context.Background()

	addExpense(t, client, h.ID, api.ExpenseInput{Category: "Groceries", Amount: 90, PaidBy: "Alice", PaidFor: "Common"})

	resp, err := client.SetIncomeMode(ctx, connect.NewRequest(&api.SetIncomeModeRequest{
		HouseholdID:     h.ID,
		Mode:            api.IncomeModeLeftover,
		SalaryRemaining: &[2]float64{1000, 0},
	}))
	if err != nil {
		t.Fatalf("SetIncomeMode failed: %v", err)
	}
	out := resp.Msg.Household
	if out.IncomeMode != api.IncomeModeLeftover {
		t.Errorf("IncomeMode = %q, want leftover", out.IncomeMode)
	}
	if out.Participants[0].Income != 2000 {
		t.Errorf("Alice income = %v, want 2000", out.Participants[0].Income)
	}
	e := out.Expenses[0]
	assertPair(t, "leftover shares", [2]float64{e.FirstPersonShare, e.SecondPersonShare}, [2]float64{60, 30})

	t.Run("roster update keeps leftover mode", func(t *testing.T) {
		resp, err := client.UpdateRoster(ctx, connect.NewRequest(&api.UpdateRosterRequest{
			HouseholdID:  h.ID,
			Participants: [2]api.Participant{{Name: "Alice", Income: 4000}, {Name: "Bob", Income: 1000}},
		}))
		if err != nil {
			t.Fatalf("UpdateRoster failed: %v", err)
		}
		p := resp.Msg.Household.Participants
		if resp.Msg.Household.IncomeMode != api.IncomeModeLeftover || p[0].Income != 3000 {
			t.Errorf("participants = %+v, want leftover with Alice income 3000", p)
		}
	})

	t.Run("back to gross", func(t *testing.T) {
		resp, err := client.SetIncomeMode(ctx, connect.NewRequest(&api.SetIncomeModeRequest{
			HouseholdID: h.ID,
			Mode:        api.IncomeModeGross,
		}))
		if err != nil {
			t.Fatalf("SetIncomeMode failed: %v", err)
		}
		out := resp.Msg.Household
		if out.Participants[0].Income != 4000 || out.Participants[0].SalaryRemaining != nil {
			t.Errorf("Alice = %+v, want gross income 4000", out.Participants[0])
		}
		e := out.Expenses[0]
		assertPair(t, "gross shares", [2]float64{e.FirstPersonShare, e.SecondPersonShare}, [2]float64{72, 18})
	})

	t.Run("invalid requests", func(t *testing.T) {
		for _, req := range []*api.SetIncomeModeRequest{
			{HouseholdID: h.ID, Mode: "net"},
			{HouseholdID: h.ID, Mode: api.IncomeModeLeftover},
			{HouseholdID: h.ID, Mode: api.IncomeModeLeftover, SalaryRemaining: &[2]float64{5000, 0}},
		} {
			_, err := client.SetIncomeMode(ctx, connect.NewRequest(req))
			assertCode(t, err, connect.CodeInvalidArgument)
		}
	})
}

func TestGetReport(t *testing.T) {
	client, _ := setupTestServer(t)
	h := createHousehold(t, client)
	ctx := context.Background()
	addExpense(t, client, h.ID, api.ExpenseInput{Category: "Rent", Amount: 1000, PaidBy: "Alice", PaidFor: "Common"})

	t.Run("text", func(t *testing.T) {
		resp, err := client.GetReport(ctx, connect.NewRequest(&api.GetReportRequest{HouseholdID: h.ID}))
		if err != nil {
			t.Fatalf("GetReport failed: %v", err)
		}
		if !strings.HasPrefix(resp.Msg.ContentType, "text/plain") {
			t.Errorf("ContentType = %q", resp.Msg.ContentType)
		}
		for _, want := range []string{"Alice & Bob", "Total Household Expenses: 1000.00€", "Bob owes Alice 250.00€"} {
			if !strings.Contains(resp.Msg.Content, want) {
				t.Errorf("report missing %q:\n%s", want, resp.Msg.Content)
			}
		}
	})

	t.Run("csv", func(t *testing.T) {
		resp, err := client.GetReport(ctx, connect.NewRequest(&api.GetReportRequest{HouseholdID: h.ID, Format: api.ReportFormatCSV}))
		if err != nil {
			t.Fatalf("GetReport failed: %v", err)
		}
		if !strings.Contains(resp.Msg.Content, "Rent,1000.00,Alice,Common,1000.00,0.00,750.00,250.00") {
			t.Errorf("csv missing expense row:\n%s", resp.Msg.Content)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := client.GetReport(ctx, connect.NewRequest(&api.GetReportRequest{HouseholdID: h.ID, Format: "pdf"}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestExportImportState(t *testing.T) {
	client, _ := setupTestServer(t)
	ctx := context.Background()

	src := createHousehold(t, client)
	addExpense(t, client, src.ID, api.ExpenseInput{Category: "Groceries", Amount: 90, PaidBy: "Both", PaidFor: "Common"})

	exported, err := client.ExportState(ctx, connect.NewRequest(&api.ExportStateRequest{HouseholdID: src.ID}))
	if err != nil {
		t.Fatalf("ExportState failed: %v", err)
	}
	st := exported.Msg.State
	if len(st.Expenses) != 1 || st.Participants[0].Name != "Alice" {
		t.Fatalf("exported state = %+v", st)
	}

	// Import into a fresh household with equal incomes.
	dst, err := client.CreateHousehold(ctx, connect.NewRequest(&api.CreateHouseholdRequest{}))
	if err != nil {
		t.Fatalf("CreateHousehold failed: %v", err)
	}
	st.Participants[1].Income = 3000

	imported, err := client.ImportState(ctx, connect.NewRequest(&api.ImportStateRequest{
		HouseholdID: dst.Msg.Household.ID,
		State:       st,
	}))
	if err != nil {
		t.Fatalf("ImportState failed: %v", err)
	}
	e := imported.Msg.Household.Expenses[0]
	assertPair(t, "re-derived shares", [2]float64{e.FirstPersonShare, e.SecondPersonShare}, [2]float64{45, 45})
	assertPair(t, "kept contribution", e.Contribution, [2]float64{67.5, 22.5})

	t.Run("rejects negative amounts", func(t *testing.T) {
		bad := st
		bad.Expenses = []api.Expense{{Amount: -1, PaidBy: "Alice", PaidFor: "Common"}}
		_, err := client.ImportState(ctx, connect.NewRequest(&api.ImportStateRequest{HouseholdID: src.ID, State: bad}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestListHouseholds(t *testing.T) {
	client, _ := setupTestServer(t)
	h := createHousehold(t, client)
	addExpense(t, client, h.ID, api.ExpenseInput{Category: "Rent", Amount: 1000, PaidBy: "Alice", PaidFor: "Common"})
	createHousehold(t, client)

	resp, err := client.ListHouseholds(context.Background(), connect.NewRequest(&api.ListHouseholdsRequest{}))
	if err != nil {
		t.Fatalf("ListHouseholds failed: %v", err)
	}
	if len(resp.Msg.Households) != 2 {
		t.Fatalf("Expected 2 households, got %d", len(resp.Msg.Households))
	}
	var found bool
	for _, info := range resp.Msg.Households {
		if info.ID == h.ID {
			found = true
			if info.ExpenseCount != 1 || info.TotalExpenses != 1000 {
				t.Errorf("info = %+v", info)
			}
		}
	}
	if !found {
		t.Error("created household missing from list")
	}
}

func TestStatePersistsAcrossServices(t *testing.T) {
	store := memory.New()
	first := newTestClient(t, NewHouseholdService(store))
	h := createHousehold(t, first)
	addExpense(t, first, h.ID, api.ExpenseInput{Category: "Rent", Amount: 1000, PaidBy: "Alice", PaidFor: "Common"})

	second := newTestClient(t, NewHouseholdService(store))
	resp, err := second.GetHousehold(context.Background(), connect.NewRequest(&api.GetHouseholdRequest{HouseholdID: h.ID}))
	if err != nil {
		t.Fatalf("GetHousehold failed: %v", err)
	}
	assertPair(t, "balances", resp.Msg.Household.Summary.Balances, [2]float64{250, -250})
}

func TestFailedSaveRollsBack(t *testing.T) {
	store := &failingStore{Store: memory.New()}
	client := newTestClient(t, NewHouseholdService(store))
	h := createHousehold(t, client)
	ctx := context.Background()

	store.failSave = true
	_, err := client.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
		HouseholdID: h.ID,
		Expense:     api.ExpenseInput{Category: "Rent", Amount: 1000, PaidBy: "Alice", PaidFor: "Common"},
	}))
	assertCode(t, err, connect.CodeInternal)

	store.failSave = false
	resp, err := client.GetHousehold(ctx, connect.NewRequest(&api.GetHouseholdRequest{HouseholdID: h.ID}))
	if err != nil {
		t.Fatalf("GetHousehold failed: %v", err)
	}
	if n := len(resp.Msg.Household.Expenses); n != 0 {
		t.Errorf("Expected rollback to 0 expenses, got %d", n)
	}
}

func TestEventsAndMetrics(t *testing.T) {
	pub := &recordingPublisher{}
	m := metrics.New()
	client := newTestClient(t, NewHouseholdService(memory.New(), WithPublisher(pub), WithMetrics(m)))
	ctx := context.Background()

	h := createHousehold(t, client)
	addExpense(t, client, h.ID, api.ExpenseInput{Category: "Rent", Amount: 1000, PaidBy: "Alice", PaidFor: "Common"})
	if _, err := client.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{HouseholdID: h.ID, Index: 0})); err != nil {
		t.Fatalf("RemoveExpense failed: %v", err)
	}
	// Rejected mutations publish nothing.
	_, _ = client.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{HouseholdID: h.ID, Index: 0}))

	ops := pub.operations()
	want := []string{opAddExpense, opRemoveExpense}
	if len(ops) != len(want) || ops[0] != want[0] || ops[1] != want[1] {
		t.Errorf("operations = %v, want %v", ops, want)
	}
	if pub.events[0].Settlement != "Bob owes Alice 250.00€" {
		t.Errorf("event settlement = %q", pub.events[0].Settlement)
	}

	if got := testutil.ToFloat64(m.LedgerMutations.WithLabelValues(opAddExpense)); got != 1 {
		t.Errorf("add_expense mutations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SummaryRecomputes); got != 2 {
		t.Errorf("summary recomputes = %v, want 2", got)
	}
}

func TestConcurrentAddExpense(t *testing.T) {
	client := newTestClient(t, NewHouseholdService(memory.New()))
	h := createHousehold(t, client)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
				HouseholdID: h.ID,
				Expense:     api.ExpenseInput{Category: "Coffee", Amount: 1.5, PaidBy: "Bob", PaidFor: "Common"},
			}))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
	}

	resp, err := client.GetHousehold(context.Background(), connect.NewRequest(&api.GetHouseholdRequest{HouseholdID: h.ID}))
	if err != nil {
		t.Fatalf("GetHousehold failed: %v", err)
	}
	if got := len(resp.Msg.Household.Expenses); got != n {
		t.Errorf("Expected %d expenses, got %d", n, got)
	}
	if got := resp.Msg.Household.Summary.TotalExpenses; got != 30 {
		t.Errorf("TotalExpenses = %v, want 30", got)
	}
}

func TestHouseholdService_SlowPublishDoesNotBlockHousehold(t *testing.T) {
	pub := &blockingPublisher{started: make(chan struct{}, 1), release: make(chan struct{})}
	client := newTestClient(t, NewHouseholdService(memory.New(), WithPublisher(pub)))
	h := createHousehold(t, client)

	done := make(chan error, 1)
	go func() {
		_, err := client.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
			HouseholdID: h.ID,
			Expense:     api.ExpenseInput{Category: "Rent", Amount: 1000, PaidBy: "Alice", PaidFor: "Common"},
		}))
		done <- err
	}()

	select {
	case <-pub.started:
	case <-time.After(5 * time.Second):
		t.Fatal("publish never started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := client.GetHousehold(ctx, connect.NewRequest(&api.GetHouseholdRequest{HouseholdID: h.ID}))
	if err != nil {
		t.Fatalf("GetHousehold while publish is pending failed: %v", err)
	}
	if got := len(resp.Msg.Household.Expenses); got != 1 {
		t.Errorf("expenses = %d, want 1", got)
	}

	close(pub.release)
	if err := <-done; err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
}
