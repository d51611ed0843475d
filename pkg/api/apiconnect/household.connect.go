// Package apiconnect wires fairshare.v1.HouseholdService to connect-go
// handlers and clients using the JSON codec.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/fairshare/pkg/api"
)

// HouseholdServiceName is the fully-qualified name of the HouseholdService service.
const HouseholdServiceName = "fairshare.v1.HouseholdService"

// These constants are the fully-qualified names of the RPCs defined in
// HouseholdService. They match the URL paths the handler serves.
const (
	HouseholdServiceCreateHouseholdProcedure = "/fairshare.v1.HouseholdService/CreateHousehold"
	HouseholdServiceGetHouseholdProcedure    = "/fairshare.v1.HouseholdService/GetHousehold"
	HouseholdServiceListHouseholdsProcedure  = "/fairshare.v1.HouseholdService/ListHouseholds"
	HouseholdServiceUpdateRosterProcedure    = "/fairshare.v1.HouseholdService/UpdateRoster"
	HouseholdServiceSetIncomeModeProcedure   = "/fairshare.v1.HouseholdService/SetIncomeMode"
	HouseholdServicePreviewExpenseProcedure  = "/fairshare.v1.HouseholdService/PreviewExpense"
	HouseholdServiceAddExpenseProcedure      = "/fairshare.v1.HouseholdService/AddExpense"
	HouseholdServiceRemoveExpenseProcedure   = "/fairshare.v1.HouseholdService/RemoveExpense"
	HouseholdServiceGetReportProcedure       = "/fairshare.v1.HouseholdService/GetReport"
	HouseholdServiceExportStateProcedure     = "/fairshare.v1.HouseholdService/ExportState"
	HouseholdServiceImportStateProcedure     = "/fairshare.v1.HouseholdService/ImportState"
)

// HouseholdServiceClient is a client for the fairshare.v1.HouseholdService service.
type HouseholdServiceClient interface {
	// Creates a household with two participants and an empty ledger.
	CreateHousehold(context.Context, *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error)
	// Returns a household with its ledger and summary.
	GetHousehold(context.Context, *connect.Request[api.GetHouseholdRequest]) (*connect.Response[api.GetHouseholdResponse], error)
	// Lists stored households, most recently updated first.
	ListHouseholds(context.Context, *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error)
	// Replaces names and incomes and re-derives every expense's shares.
	UpdateRoster(context.Context, *connect.Request[api.UpdateRosterRequest]) (*connect.Response[api.UpdateRosterResponse], error)
	// Switches between gross and leftover income accounting.
	SetIncomeMode(context.Context, *connect.Request[api.SetIncomeModeRequest]) (*connect.Response[api.SetIncomeModeResponse], error)
	// Returns the shares and contributions AddExpense would store.
	PreviewExpense(context.Context, *connect.Request[api.PreviewExpenseRequest]) (*connect.Response[api.PreviewExpenseResponse], error)
	// Appends an expense to the ledger.
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	// Removes the expense at an index.
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	// Renders the household report as text or CSV.
	GetReport(context.Context, *connect.Request[api.GetReportRequest]) (*connect.Response[api.GetReportResponse], error)
	// Returns the persistable roster and ledger.
	ExportState(context.Context, *connect.Request[api.ExportStateRequest]) (*connect.Response[api.ExportStateResponse], error)
	// Replaces the roster and ledger from an exported state.
	ImportState(context.Context, *connect.Request[api.ImportStateRequest]) (*connect.Response[api.ImportStateResponse], error)
}

// NewHouseholdServiceClient constructs a client for the
// fairshare.v1.HouseholdService service. Requests use the Connect protocol
// with JSON bodies unless opts say otherwise.
func NewHouseholdServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) HouseholdServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &householdServiceClient{
		createHousehold: connect.NewClient[api.CreateHouseholdRequest, api.CreateHouseholdResponse](
			httpClient,
			baseURL+HouseholdServiceCreateHouseholdProcedure,
			opts...,
		),
		getHousehold: connect.NewClient[api.GetHouseholdRequest, api.GetHouseholdResponse](
			httpClient,
			baseURL+HouseholdServiceGetHouseholdProcedure,
			opts...,
		),
		listHouseholds: connect.NewClient[api.ListHouseholdsRequest, api.ListHouseholdsResponse](
			httpClient,
			baseURL+HouseholdServiceListHouseholdsProcedure,
			opts...,
		),
		updateRoster: connect.NewClient[api.UpdateRosterRequest, api.UpdateRosterResponse](
			httpClient,
			baseURL+HouseholdServiceUpdateRosterProcedure,
			opts...,
		),
		setIncomeMode: connect.NewClient[api.SetIncomeModeRequest, api.SetIncomeModeResponse](
			httpClient,
			baseURL+HouseholdServiceSetIncomeModeProcedure,
			opts...,
		),
		previewExpense: connect.NewClient[api.PreviewExpenseRequest, api.PreviewExpenseResponse](
			httpClient,
			baseURL+HouseholdServicePreviewExpenseProcedure,
			opts...,
		),
		addExpense: connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](
			httpClient,
			baseURL+HouseholdServiceAddExpenseProcedure,
			opts...,
		),
		removeExpense: connect.NewClient[api.RemoveExpenseRequest, api.RemoveExpenseResponse](
			httpClient,
			baseURL+HouseholdServiceRemoveExpenseProcedure,
			opts...,
		),
		getReport: connect.NewClient[api.GetReportRequest, api.GetReportResponse](
			httpClient,
			baseURL+HouseholdServiceGetReportProcedure,
			opts...,
		),
		exportState: connect.NewClient[api.ExportStateRequest, api.ExportStateResponse](
			httpClient,
			baseURL+HouseholdServiceExportStateProcedure,
			opts...,
		),
		importState: connect.NewClient[api.ImportStateRequest, api.ImportStateResponse](
			httpClient,
			baseURL+HouseholdServiceImportStateProcedure,
			opts...,
		),
	}
}

type householdServiceClient struct {
	createHousehold *connect.Client[api.CreateHouseholdRequest, api.CreateHouseholdResponse]
	getHousehold    *connect.Client[api.GetHouseholdRequest, api.GetHouseholdResponse]
	listHouseholds  *connect.Client[api.ListHouseholdsRequest, api.ListHouseholdsResponse]
	updateRoster    *connect.Client[api.UpdateRosterRequest, api.UpdateRosterResponse]
	setIncomeMode   *connect.Client[api.SetIncomeModeRequest, api.SetIncomeModeResponse]
	previewExpense  *connect.Client[api.PreviewExpenseRequest, api.PreviewExpenseResponse]
	addExpense      *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	removeExpense   *connect.Client[api.RemoveExpenseRequest, api.RemoveExpenseResponse]
	getReport       *connect.Client[api.GetReportRequest, api.GetReportResponse]
	exportState     *connect.Client[api.ExportStateRequest, api.ExportStateResponse]
	importState     *connect.Client[api.ImportStateRequest, api.ImportStateResponse]
}

func (c *householdServiceClient) CreateHousehold(ctx context.Context, req *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error) {
	return c.createHousehold.CallUnary(ctx, req)
}

func (c *householdServiceClient) GetHousehold(ctx context.Context, req *connect.Request[api.GetHouseholdRequest]) (*connect.Response[api.GetHouseholdResponse], error) {
	return c.getHousehold.CallUnary(ctx, req)
}

func (c *householdServiceClient) ListHouseholds(ctx context.Context, req *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error) {
	return c.listHouseholds.CallUnary(ctx, req)
}

func (c *householdServiceClient) UpdateRoster(ctx context.Context, req *connect.Request[api.UpdateRosterRequest]) (*connect.Response[api.UpdateRosterResponse], error) {
	return c.updateRoster.CallUnary(ctx, req)
}

func (c *householdServiceClient) SetIncomeMode(ctx context.Context, req *connect.Request[api.SetIncomeModeRequest]) (*connect.Response[api.SetIncomeModeResponse], error) {
	return c.setIncomeMode.CallUnary(ctx, req)
}

func (c *householdServiceClient) PreviewExpense(ctx context.Context, req *connect.Request[api.PreviewExpenseRequest]) (*connect.Response[api.PreviewExpenseResponse], error) {
	return c.previewExpense.CallUnary(ctx, req)
}

func (c *householdServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *householdServiceClient) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return c.removeExpense.CallUnary(ctx, req)
}

func (c *householdServiceClient) GetReport(ctx context.Context, req *connect.Request[api.GetReportRequest]) (*connect.Response[api.GetReportResponse], error) {
	return c.getReport.CallUnary(ctx, req)
}

func (c *householdServiceClient) ExportState(ctx context.Context, req *connect.Request[api.ExportStateRequest]) (*connect.Response[api.ExportStateResponse], error) {
	return c.exportState.CallUnary(ctx, req)
}

func (c *householdServiceClient) ImportState(ctx context.Context, req *connect.Request[api.ImportStateRequest]) (*connect.Response[api.ImportStateResponse], error) {
	return c.importState.CallUnary(ctx, req)
}

// HouseholdServiceHandler is implemented by the fairshare.v1.HouseholdService service.
type HouseholdServiceHandler interface {
	CreateHousehold(context.Context, *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error)
	GetHousehold(context.Context, *connect.Request[api.GetHouseholdRequest]) (*connect.Response[api.GetHouseholdResponse], error)
	ListHouseholds(context.Context, *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error)
	UpdateRoster(context.Context, *connect.Request[api.UpdateRosterRequest]) (*connect.Response[api.UpdateRosterResponse], error)
	SetIncomeMode(context.Context, *connect.Request[api.SetIncomeModeRequest]) (*connect.Response[api.SetIncomeModeResponse], error)
	PreviewExpense(context.Context, *connect.Request[api.PreviewExpenseRequest]) (*connect.Response[api.PreviewExpenseResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	GetReport(context.Context, *connect.Request[api.GetReportRequest]) (*connect.Response[api.GetReportResponse], error)
	ExportState(context.Context, *connect.Request[api.ExportStateRequest]) (*connect.Response[api.ExportStateResponse], error)
	ImportState(context.Context, *connect.Request[api.ImportStateRequest]) (*connect.Response[api.ImportStateResponse], error)
}

// NewHouseholdServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and
// the handler itself.
func NewHouseholdServiceHandler(svc HouseholdServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	createHouseholdHandler := connect.NewUnaryHandler(
		HouseholdServiceCreateHouseholdProcedure,
		svc.CreateHousehold,
		opts...,
	)
	getHouseholdHandler := connect.NewUnaryHandler(
		HouseholdServiceGetHouseholdProcedure,
		svc.GetHousehold,
		opts...,
	)
	listHouseholdsHandler := connect.NewUnaryHandler(
		HouseholdServiceListHouseholdsProcedure,
		svc.ListHouseholds,
		opts...,
	)
	updateRosterHandler := connect.NewUnaryHandler(
		HouseholdServiceUpdateRosterProcedure,
		svc.UpdateRoster,
		opts...,
	)
	setIncomeModeHandler := connect.NewUnaryHandler(
		HouseholdServiceSetIncomeModeProcedure,
		svc.SetIncomeMode,
		opts...,
	)
	previewExpenseHandler := connect.NewUnaryHandler(
		HouseholdServicePreviewExpenseProcedure,
		svc.PreviewExpense,
		opts...,
	)
	addExpenseHandler := connect.NewUnaryHandler(
		HouseholdServiceAddExpenseProcedure,
		svc.AddExpense,
		opts...,
	)
	removeExpenseHandler := connect.NewUnaryHandler(
		HouseholdServiceRemoveExpenseProcedure,
		svc.RemoveExpense,
		opts...,
	)
	getReportHandler := connect.NewUnaryHandler(
		HouseholdServiceGetReportProcedure,
		svc.GetReport,
		opts...,
	)
	exportStateHandler := connect.NewUnaryHandler(
		HouseholdServiceExportStateProcedure,
		svc.ExportState,
		opts...,
	)
	importStateHandler := connect.NewUnaryHandler(
		HouseholdServiceImportStateProcedure,
		svc.ImportState,
		opts...,
	)
	return "/fairshare.v1.HouseholdService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case HouseholdServiceCreateHouseholdProcedure:
			createHouseholdHandler.ServeHTTP(w, r)
		case HouseholdServiceGetHouseholdProcedure:
			getHouseholdHandler.ServeHTTP(w, r)
		case HouseholdServiceListHouseholdsProcedure:
			listHouseholdsHandler.ServeHTTP(w, r)
		case HouseholdServiceUpdateRosterProcedure:
			updateRosterHandler.ServeHTTP(w, r)
		case HouseholdServiceSetIncomeModeProcedure:
			setIncomeModeHandler.ServeHTTP(w, r)
		case HouseholdServicePreviewExpenseProcedure:
			previewExpenseHandler.ServeHTTP(w, r)
		case HouseholdServiceAddExpenseProcedure:
			addExpenseHandler.ServeHTTP(w, r)
		case HouseholdServiceRemoveExpenseProcedure:
			removeExpenseHandler.ServeHTTP(w, r)
		case HouseholdServiceGetReportProcedure:
			getReportHandler.ServeHTTP(w, r)
		case HouseholdServiceExportStateProcedure:
			exportStateHandler.ServeHTTP(w, r)
		case HouseholdServiceImportStateProcedure:
			importStateHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedHouseholdServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedHouseholdServiceHandler struct{}

func (UnimplementedHouseholdServiceHandler) CreateHousehold(context.Context, *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("fairshare.v1.HouseholdService.CreateHousehold is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) GetHousehold(context.Context, *connect.Request[api.GetHouseholdRequest]) (*connect.Response[api.GetHouseholdResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("fairshare.v1.HouseholdService.GetHousehold is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) ListHouseholds(context.Context, *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("fairshare.v1.HouseholdService.ListHouseholds is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) UpdateRoster(context.Context, *connect.Request[api.UpdateRosterRequest]) (*connect.Response[api.UpdateRosterResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("fairshare.v1.HouseholdService.UpdateRoster is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) SetIncomeMode(context.Context, *connect.Request[api.SetIncomeModeRequest]) (*connect.Response[api.SetIncomeModeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("fairshare.v1.HouseholdService.SetIncomeMode is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) PreviewExpense(context.Context, *connect.Request[api.PreviewExpenseRequest]) (*connect.Response[api.PreviewExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("fairshare.v1.HouseholdService.PreviewExpense is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("fairshare.v1.HouseholdService.AddExpense is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("fairshare.v1.HouseholdService.RemoveExpense is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) GetReport(context.Context, *connect.Request[api.GetReportRequest]) (*connect.Response[api.GetReportResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("fairshare.v1.HouseholdService.GetReport is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) ExportState(context.Context, *connect.Request[api.ExportStateRequest]) (*connect.Response[api.ExportStateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("fairshare.v1.HouseholdService.ExportState is not implemented"))
}

func (UnimplementedHouseholdServiceHandler) ImportState(context.Context, *connect.Request[api.ImportStateRequest]) (*connect.Response[api.ImportStateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("fairshare.v1.HouseholdService.ImportState is not implemented"))
}
