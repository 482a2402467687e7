package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch-service/internal/model"
	"dispatch-service/internal/repository"
)

type stubDispatchSearcher struct {
	searchCalls   int
	lastFilter    repository.DispatchSearchFilter
	lastHistory   bool
	rows          []model.Dispatch
	numsByInvoice []int64
	numsByPO      []int64
}

func (s *stubDispatchSearcher) Search(ctx context.Context, companyID string, history bool, filter repository.DispatchSearchFilter) ([]model.Dispatch, error) {
	s.searchCalls++
	s.lastFilter = filter
	s.lastHistory = history
	return s.rows, nil
}

func (s *stubDispatchSearcher) DispatchNumsByInvoiceNum(ctx context.Context, companyID string, history bool, invoiceNum string) ([]int64, error) {
	return s.numsByInvoice, nil
}

func (s *stubDispatchSearcher) DispatchNumsByPONum(ctx context.Context, companyID string, history bool, poNum string) ([]int64, error) {
	return s.numsByPO, nil
}

type stubAssignmentLookup struct {
	numsByTowTag []int64
	numsByDriver []int64
}

func (s *stubAssignmentLookup) DispatchNumsByTowTag(ctx context.Context, companyID, towTagNum string) ([]int64, error) {
	return s.numsByTowTag, nil
}

func (s *stubAssignmentLookup) DispatchNumsByDriver(ctx context.Context, companyID, driverNum string) ([]int64, error) {
	return s.numsByDriver, nil
}

type stubInvoiceLookup struct {
	numsByInvoice []int64
	numsByPO      []int64
	failFor       int64
}

func (s *stubInvoiceLookup) ListByDispatch(ctx context.Context, companyID string, dispatchNum int64) ([]model.Invoice, error) {
	if s.failFor != 0 && s.failFor == dispatchNum {
		return nil, errors.New("store unavailable")
	}
	return []model.Invoice{{CompanyID: companyID, DispatchNum: dispatchNum, InvoiceNum: fmt.Sprintf("INV-%d", dispatchNum)}}, nil
}

func (s *stubInvoiceLookup) ListItemsByDispatch(ctx context.Context, companyID string, dispatchNum int64) ([]model.LineItem, error) {
	if dispatchNum%2 == 0 {
		return nil, nil
	}
	return []model.LineItem{{CompanyID: companyID, DispatchNum: dispatchNum, Description: "TOW"}}, nil
}

func (s *stubInvoiceLookup) DispatchNumsByInvoiceNum(ctx context.Context, companyID, invoiceNum string) ([]int64, error) {
	return s.numsByInvoice, nil
}

func (s *stubInvoiceLookup) DispatchNumsByPONum(ctx context.Context, companyID, poNum string) ([]int64, error) {
	return s.numsByPO, nil
}

func newTestSearchService(dispatches *stubDispatchSearcher, assignments *stubAssignmentLookup, invoices *stubInvoiceLookup) *SearchService {
	return &SearchService{
		dispatches:  dispatches,
		assignments: assignments,
		invoices:    invoices,
		log:         zerolog.Nop(),
	}
}

func testPrincipal() model.Principal {
	return model.Principal{CompanyID: "acme-towing", Role: model.RoleDispatcher}
}

func dispatchRows(nums ...int64) []model.Dispatch {
	rows := make([]model.Dispatch, len(nums))
	for i, n := range nums {
		rows[i] = model.Dispatch{DispatchNum: n, CompanyID: "acme-towing"}
	}
	return rows
}

func TestSearchRejectsEmptyCriteria(t *testing.T) {
	dispatches := &stubDispatchSearcher{}
	svc := newTestSearchService(dispatches, &stubAssignmentLookup{}, &stubInvoiceLookup{})

	results, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{})

	require.ErrorIs(t, err, ErrEmptyCriteria)
	assert.Empty(t, results)
	assert.Zero(t, dispatches.searchCalls, "no primary query on empty criteria")
}

func TestSearchDefaultStateStillEmpty(t *testing.T) {
	dispatches := &stubDispatchSearcher{}
	svc := newTestSearchService(dispatches, &stubAssignmentLookup{}, &stubInvoiceLookup{})

	_, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{LicenseState: DefaultLicenseState})

	require.ErrorIs(t, err, ErrEmptyCriteria)
	assert.Zero(t, dispatches.searchCalls)
}

func TestSearchRadioAloneIsEnough(t *testing.T) {
	dispatches := &stubDispatchSearcher{rows: dispatchRows(1)}
	svc := newTestSearchService(dispatches, &stubAssignmentLookup{}, &stubInvoiceLookup{})

	results, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{TransportOnly: true})

	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.True(t, dispatches.lastFilter.TransportOnly)
}

func TestSearchDispatchNumberOnly(t *testing.T) {
	dispatches := &stubDispatchSearcher{rows: dispatchRows(123456)}
	svc := newTestSearchService(dispatches, &stubAssignmentLookup{}, &stubInvoiceLookup{})

	results, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{DispatchNum: "123456"})

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, dispatches.lastFilter.DispatchNum)
	assert.Equal(t, int64(123456), *dispatches.lastFilter.DispatchNum)
	assert.False(t, dispatches.lastHistory)

	// Nothing else narrowed the query.
	assert.Empty(t, dispatches.lastFilter.VIN)
	assert.Empty(t, dispatches.lastFilter.LicenseNum)
	assert.Nil(t, dispatches.lastFilter.TowDate)
	assert.Nil(t, dispatches.lastFilter.DispatchNums)
}

func TestSearchCheckHistorySelectsArchiveTable(t *testing.T) {
	dispatches := &stubDispatchSearcher{}
	svc := newTestSearchService(dispatches, &stubAssignmentLookup{}, &stubInvoiceLookup{})

	_, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{CheckHistory: true, VIN: "1HGCM"})

	require.NoError(t, err)
	assert.True(t, dispatches.lastHistory)
}

func TestSearchEmptyTowTagLookupForcesEmpty(t *testing.T) {
	dispatches := &stubDispatchSearcher{rows: dispatchRows(1, 2, 3)}
	svc := newTestSearchService(dispatches, &stubAssignmentLookup{numsByTowTag: nil}, &stubInvoiceLookup{})

	results, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{TowTagNum: "T-900"})

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, dispatches.searchCalls, "forced-empty must not run the primary query")
}

func TestSearchIndirectFiltersIntersect(t *testing.T) {
	dispatches := &stubDispatchSearcher{}
	assignments := &stubAssignmentLookup{
		numsByTowTag: []int64{10, 20, 30},
		numsByDriver: []int64{20, 30, 40},
	}
	svc := newTestSearchService(dispatches, assignments, &stubInvoiceLookup{})

	_, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{TowTagNum: "T-1", DriverNum: "7"})

	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{20, 30}, dispatches.lastFilter.DispatchNums)
}

func TestSearchInvoiceNumberUnionsBothSources(t *testing.T) {
	dispatches := &stubDispatchSearcher{numsByInvoice: []int64{11}}
	invoices := &stubInvoiceLookup{numsByInvoice: []int64{22}}
	svc := newTestSearchService(dispatches, &stubAssignmentLookup{}, invoices)

	_, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{InvoiceNum: "8841"})

	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{11, 22}, dispatches.lastFilter.DispatchNums)
}

func TestSearchUnknownPowerFieldRejected(t *testing.T) {
	dispatches := &stubDispatchSearcher{}
	svc := newTestSearchService(dispatches, &stubAssignmentLookup{}, &stubInvoiceLookup{})

	_, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{
		PowerField: "Secret Column",
		PowerValue: "smith",
	})

	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, dispatches.searchCalls)
}

func TestSearchPowerFieldMapsToColumn(t *testing.T) {
	dispatches := &stubDispatchSearcher{}
	svc := newTestSearchService(dispatches, &stubAssignmentLookup{}, &stubInvoiceLookup{})

	_, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{
		PowerField: "Who Called",
		PowerValue: "smith",
	})

	require.NoError(t, err)
	assert.Equal(t, "who_called", dispatches.lastFilter.PowerColumn)
	assert.Equal(t, "smith", dispatches.lastFilter.PowerValue)
}

func TestSearchEnrichmentStraddlesBatches(t *testing.T) {
	for _, n := range []int{1, 50, 51, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			nums := make([]int64, n)
			for i := range nums {
				nums[i] = int64(i + 1)
			}
			dispatches := &stubDispatchSearcher{rows: dispatchRows(nums...)}
			svc := newTestSearchService(dispatches, &stubAssignmentLookup{}, &stubInvoiceLookup{})

			results, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{VIN: "1HG"})

			require.NoError(t, err)
			require.Len(t, results, n)
			for i, result := range results {
				assert.Equal(t, nums[i], result.DispatchNum, "row order preserved across batches")
				require.NotNil(t, result.Invoices)
				require.NotNil(t, result.Transactions)
				require.Len(t, result.Invoices, 1)
				assert.Equal(t, fmt.Sprintf("INV-%d", result.DispatchNum), result.Invoices[0].InvoiceNum)
				if result.DispatchNum%2 == 0 {
					assert.Empty(t, result.Transactions)
				} else {
					assert.Len(t, result.Transactions, 1)
				}
			}
		})
	}
}

func TestSearchEnrichmentFailureFailsWholeSearch(t *testing.T) {
	dispatches := &stubDispatchSearcher{rows: dispatchRows(1, 2, 3)}
	invoices := &stubInvoiceLookup{failFor: 2}
	svc := newTestSearchService(dispatches, &stubAssignmentLookup{}, invoices)

	results, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{VIN: "1HG"})

	require.Error(t, err)
	assert.Nil(t, results)
}

func TestSearchStateOnlyAppliesWithPlate(t *testing.T) {
	dispatches := &stubDispatchSearcher{}
	svc := newTestSearchService(dispatches, &stubAssignmentLookup{}, &stubInvoiceLookup{})

	_, err := svc.Search(context.Background(), testPrincipal(), SearchCriteria{
		LicenseNum:   "ABC123",
		LicenseState: "nv",
	})

	require.NoError(t, err)
	assert.Equal(t, "ABC123", dispatches.lastFilter.LicenseNum)
	assert.Equal(t, "NV", dispatches.lastFilter.LicenseState)
}

func TestBuildFilterTowDate(t *testing.T) {
	candidates := &candidateSet{}

	filter, err := buildFilter(SearchCriteria{TowDate: "3/5/26"}, candidates)
	require.NoError(t, err)
	require.NotNil(t, filter.TowDate)
	assert.Equal(t, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.Local), *filter.TowDate)

	// No separator means the field is not a date filter.
	filter, err = buildFilter(SearchCriteria{TowDate: "030526", VIN: "x"}, candidates)
	require.NoError(t, err)
	assert.Nil(t, filter.TowDate)

	_, err = buildFilter(SearchCriteria{TowDate: "13/45/26"}, candidates)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCandidateSetForceEmptyVsUnrestricted(t *testing.T) {
	unrestricted := &candidateSet{}
	assert.False(t, unrestricted.forcesEmpty())
	assert.Nil(t, unrestricted.list())

	restricted := &candidateSet{}
	restricted.restrict(nil)
	assert.True(t, restricted.forcesEmpty())

	refined := &candidateSet{}
	refined.restrict([]int64{1, 2})
	refined.restrict([]int64{2, 3})
	assert.False(t, refined.forcesEmpty())
	assert.ElementsMatch(t, []int64{2}, refined.list())
}
