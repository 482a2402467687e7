package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"dispatch-service/internal/model"
	"dispatch-service/internal/repository"
)

// ErrEmptyCriteria rejects an all-blank search before any query runs;
// without it a blank form would be a full table scan.
var ErrEmptyCriteria = errors.New("enter at least one search criteria")

// DefaultLicenseState pre-fills the state combo; a criteria set is still
// "empty" when the state holds this default and nothing else is set.
const DefaultLicenseState = "CA"

// Enrichment runs over the result set in fixed batches so a 500-row hit
// does not issue a thousand simultaneous secondary queries.
const enrichBatchSize = 50

type dispatchSearcher interface {
	Search(ctx context.Context, companyID string, history bool, filter repository.DispatchSearchFilter) ([]model.Dispatch, error)
	DispatchNumsByInvoiceNum(ctx context.Context, companyID string, history bool, invoiceNum string) ([]int64, error)
	DispatchNumsByPONum(ctx context.Context, companyID string, history bool, poNum string) ([]int64, error)
}

type assignmentLookup interface {
	DispatchNumsByTowTag(ctx context.Context, companyID, towTagNum string) ([]int64, error)
	DispatchNumsByDriver(ctx context.Context, companyID, driverNum string) ([]int64, error)
}

type invoiceLookup interface {
	ListByDispatch(ctx context.Context, companyID string, dispatchNum int64) ([]model.Invoice, error)
	ListItemsByDispatch(ctx context.Context, companyID string, dispatchNum int64) ([]model.LineItem, error)
	DispatchNumsByInvoiceNum(ctx context.Context, companyID, invoiceNum string) ([]int64, error)
	DispatchNumsByPONum(ctx context.Context, companyID, poNum string) ([]int64, error)
}

type SearchService struct {
	dispatches  dispatchSearcher
	assignments assignmentLookup
	invoices    invoiceLookup
	log         zerolog.Logger
}

func NewSearchService(
	dispatchRepo *repository.DispatchRepository,
	assignmentRepo *repository.AssignmentRepository,
	invoiceRepo *repository.InvoiceRepository,
	log zerolog.Logger,
) *SearchService {
	return &SearchService{
		dispatches:  dispatchRepo,
		assignments: assignmentRepo,
		invoices:    invoiceRepo,
		log:         log,
	}
}

// SearchCriteria is the extended-search form: every field optional, the
// three radio flags mutually exclusive.
type SearchCriteria struct {
	DispatchNum  string
	LicenseNum   string
	LicenseState string
	VIN          string
	TowDate      string
	TowTagNum    string
	ReferenceNum string
	InvoiceNum   string
	PONum        string
	DriverNum    string
	StockNum     string
	AuctionNum   string
	ReleaseLic   string
	TowedFrom    string
	VehicleYear  string
	Make         string
	Model        string
	Color        string

	TransportOnly  bool
	StoredCarsOnly bool
	CheckHistory   bool

	PowerField string
	PowerValue string
}

func (c SearchCriteria) isEmpty() bool {
	state := strings.TrimSpace(c.LicenseState)
	if state != "" && !strings.EqualFold(state, DefaultLicenseState) {
		return false
	}
	for _, field := range []string{
		c.DispatchNum, c.LicenseNum, c.VIN, c.TowDate, c.TowTagNum,
		c.ReferenceNum, c.InvoiceNum, c.PONum, c.DriverNum, c.StockNum,
		c.AuctionNum, c.ReleaseLic, c.TowedFrom, c.VehicleYear, c.Make,
		c.Model, c.Color, c.PowerValue,
	} {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return !c.TransportOnly && !c.StoredCarsOnly && !c.CheckHistory
}

// powerSearchColumns maps the power-search field labels to their towmast
// columns. Unknown labels are rejected rather than silently matching
// nothing.
var powerSearchColumns = map[string]string{
	"Billing Screen Name": "billing_name",
	"Notes":               "notes",
	"Who Called":          "who_called",
	"License":             "license_num",
	"Vin":                 "vin",
	"Member#":             "member_num",
	"Towedfrom":           "towed_from",
	"Towedto":             "towed_to",
}

// SearchResult is one dispatch (live or historical) with its related
// billing rows attached.
type SearchResult struct {
	model.Dispatch
	Invoices     []model.Invoice  `json:"invoices"`
	Transactions []model.LineItem `json:"transactions"`
}

// Search translates the criteria form into one bounded query plus
// per-result billing enrichment. Indirect filters resolve to candidate
// dispatch-number sets first; a lookup that matches nothing forces an
// empty result instead of dropping the filter.
func (s *SearchService) Search(ctx context.Context, principal model.Principal, criteria SearchCriteria) ([]SearchResult, error) {
	if criteria.isEmpty() {
		return []SearchResult{}, ErrEmptyCriteria
	}

	candidates, err := s.resolveCandidates(ctx, principal.CompanyID, criteria)
	if err != nil {
		return nil, err
	}
	if candidates.forcesEmpty() {
		return []SearchResult{}, nil
	}

	filter, err := buildFilter(criteria, candidates)
	if err != nil {
		return nil, err
	}

	rows, err := s.dispatches.Search(ctx, principal.CompanyID, criteria.CheckHistory, filter)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []SearchResult{}, nil
	}

	return s.enrich(ctx, principal.CompanyID, rows)
}

// candidateSet accumulates the dispatch numbers allowed by the indirect
// filters. Once restricted, an empty set means "nothing can match" and is
// never confused with "no restriction".
type candidateSet struct {
	restricted bool
	nums       map[int64]struct{}
}

func (c *candidateSet) restrict(nums []int64) {
	if !c.restricted {
		c.restricted = true
		c.nums = make(map[int64]struct{}, len(nums))
		for _, n := range nums {
			c.nums[n] = struct{}{}
		}
		return
	}
	kept := make(map[int64]struct{}, len(nums))
	for _, n := range nums {
		if _, ok := c.nums[n]; ok {
			kept[n] = struct{}{}
		}
	}
	c.nums = kept
}

func (c *candidateSet) forcesEmpty() bool {
	return c.restricted && len(c.nums) == 0
}

func (c *candidateSet) list() []int64 {
	if !c.restricted {
		return nil
	}
	nums := make([]int64, 0, len(c.nums))
	for n := range c.nums {
		nums = append(nums, n)
	}
	return nums
}

func (s *SearchService) resolveCandidates(ctx context.Context, companyID string, criteria SearchCriteria) (*candidateSet, error) {
	candidates := &candidateSet{}

	if tag := strings.TrimSpace(criteria.TowTagNum); tag != "" {
		nums, err := s.assignments.DispatchNumsByTowTag(ctx, companyID, tag)
		if err != nil {
			return nil, err
		}
		candidates.restrict(nums)
	}
	if driver := strings.TrimSpace(criteria.DriverNum); driver != "" {
		nums, err := s.assignments.DispatchNumsByDriver(ctx, companyID, driver)
		if err != nil {
			return nil, err
		}
		candidates.restrict(nums)
	}
	if invoiceNum := strings.TrimSpace(criteria.InvoiceNum); invoiceNum != "" {
		own, err := s.dispatches.DispatchNumsByInvoiceNum(ctx, companyID, criteria.CheckHistory, invoiceNum)
		if err != nil {
			return nil, err
		}
		related, err := s.invoices.DispatchNumsByInvoiceNum(ctx, companyID, invoiceNum)
		if err != nil {
			return nil, err
		}
		candidates.restrict(append(own, related...))
	}
	if poNum := strings.TrimSpace(criteria.PONum); poNum != "" {
		own, err := s.dispatches.DispatchNumsByPONum(ctx, companyID, criteria.CheckHistory, poNum)
		if err != nil {
			return nil, err
		}
		related, err := s.invoices.DispatchNumsByPONum(ctx, companyID, poNum)
		if err != nil {
			return nil, err
		}
		candidates.restrict(append(own, related...))
	}

	return candidates, nil
}

func buildFilter(criteria SearchCriteria, candidates *candidateSet) (repository.DispatchSearchFilter, error) {
	filter := repository.DispatchSearchFilter{
		LicenseNum:     strings.TrimSpace(criteria.LicenseNum),
		VIN:            strings.TrimSpace(criteria.VIN),
		ReferenceNum:   strings.TrimSpace(criteria.ReferenceNum),
		StockNum:       strings.TrimSpace(criteria.StockNum),
		AuctionNum:     strings.TrimSpace(criteria.AuctionNum),
		ReleaseLic:     strings.TrimSpace(criteria.ReleaseLic),
		TowedFrom:      strings.TrimSpace(criteria.TowedFrom),
		VehicleYear:    strings.TrimSpace(criteria.VehicleYear),
		Make:           strings.TrimSpace(criteria.Make),
		Model:          strings.TrimSpace(criteria.Model),
		Color:          strings.TrimSpace(criteria.Color),
		TransportOnly:  criteria.TransportOnly,
		StoredCarsOnly: criteria.StoredCarsOnly,
	}

	// The pre-filled state only narrows the search when a plate was
	// actually entered alongside it.
	if state := strings.TrimSpace(criteria.LicenseState); state != "" && filter.LicenseNum != "" {
		filter.LicenseState = strings.ToUpper(state)
	}

	if raw := strings.TrimSpace(criteria.DispatchNum); raw != "" {
		num, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, ErrInvalidInput
		}
		filter.DispatchNum = &num
	}

	// A date without a separator is treated as not-a-date, not an error.
	if raw := strings.TrimSpace(criteria.TowDate); strings.Contains(raw, "/") {
		parsed, err := ParseTowDate(raw)
		if err != nil {
			return filter, ErrInvalidInput
		}
		filter.TowDate = &parsed
	}

	if value := strings.TrimSpace(criteria.PowerValue); value != "" {
		column, ok := powerSearchColumns[strings.TrimSpace(criteria.PowerField)]
		if !ok {
			return filter, ErrInvalidInput
		}
		filter.PowerColumn = column
		filter.PowerValue = value
	}

	if candidates.restricted {
		filter.DispatchNums = candidates.list()
	}

	return filter, nil
}

// enrich attaches each result's invoice and transaction rows. Batches run
// sequentially; the fetches inside a batch run concurrently.
func (s *SearchService) enrich(ctx context.Context, companyID string, rows []model.Dispatch) ([]SearchResult, error) {
	results := make([]SearchResult, len(rows))

	for start := 0; start < len(rows); start += enrichBatchSize {
		end := start + enrichBatchSize
		if end > len(rows) {
			end = len(rows)
		}

		var wg sync.WaitGroup
		errs := make([]error, end-start)
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				dispatch := rows[i]

				invoices, err := s.invoices.ListByDispatch(ctx, companyID, dispatch.DispatchNum)
				if err != nil {
					errs[i-start] = err
					return
				}
				transactions, err := s.invoices.ListItemsByDispatch(ctx, companyID, dispatch.DispatchNum)
				if err != nil {
					errs[i-start] = err
					return
				}

				if invoices == nil {
					invoices = []model.Invoice{}
				}
				if transactions == nil {
					transactions = []model.LineItem{}
				}
				results[i] = SearchResult{
					Dispatch:     dispatch,
					Invoices:     invoices,
					Transactions: transactions,
				}
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	return results, nil
}
