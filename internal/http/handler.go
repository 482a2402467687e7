package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"dispatch-service/internal/http/middleware"
	"dispatch-service/internal/service"
)

type Handler struct {
	dispatchService   *service.DispatchService
	assignmentService *service.AssignmentService
	invoiceService    *service.InvoiceService
	searchService     *service.SearchService
	kitService        *service.KitService
	lookupService     *service.LookupService
	log               zerolog.Logger
}

func NewHandler(
	dispatchService *service.DispatchService,
	assignmentService *service.AssignmentService,
	invoiceService *service.InvoiceService,
	searchService *service.SearchService,
	kitService *service.KitService,
	lookupService *service.LookupService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		dispatchService:   dispatchService,
		assignmentService: assignmentService,
		invoiceService:    invoiceService,
		searchService:     searchService,
		kitService:        kitService,
		lookupService:     lookupService,
		log:               log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/")
	protected.Use(authMiddleware)

	dispatches := protected.Group("/dispatches")
	{
		dispatches.GET("", h.listDispatches)
		dispatches.POST("", h.createQuickCall)
		dispatches.GET("/:num", h.getDispatch)
		dispatches.PATCH("/:num", h.patchDispatch)
		dispatches.POST("/:num/archive", h.archiveDispatch)
		dispatches.GET("/:num/assignments", h.listAssignments)
		dispatches.PUT("/:num/assignment/times", h.updateMilestones)
		dispatches.PUT("/:num/assignment/clear", h.clearAssignment)
		dispatches.GET("/:num/invoice", h.getInvoice)
		dispatches.PUT("/:num/invoice", h.saveInvoice)
	}

	protected.DELETE("/invoice-items/:id", h.deleteInvoiceItem)

	protected.POST("/search", h.search)

	// Lookup tables behind the form combos.
	protected.GET("/drivers", h.listDrivers)
	protected.GET("/trucks", h.listTrucks)
	protected.GET("/customers", h.listCustomers)
	protected.GET("/carmakes", h.listCarMakes)
	protected.GET("/carmakes/:make/models", h.listCarModels)

	kits := protected.Group("/kits")
	{
		kits.GET("", h.listKits)
		kits.POST("", h.createKit)
		kits.GET("/:id", h.getKit)
		kits.PUT("/:id", h.updateKit)
		kits.DELETE("/:id", h.deleteKit)
	}
}

type quickCallRequest struct {
	DispatchNum  int64  `json:"dispatch_num"`
	VehicleYear  string `json:"vehicle_year"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Color        string `json:"color"`
	VIN          string `json:"vin"`
	LicenseNum   string `json:"license_num"`
	LicenseState string `json:"license_state"`
	TowedFrom    string `json:"towed_from" binding:"required"`
	TowedTo      string `json:"towed_to"`
	WhoCalled    string `json:"who_called"`
	Phone        string `json:"phone"`
	Reason       string `json:"reason"`
	Priority     string `json:"priority"`
	BillingName  string `json:"billing_name"`
	MemberNum    string `json:"member_num"`
	Notes        string `json:"notes"`
	ReferenceNum string `json:"reference_num"`
	TowDate      string `json:"tow_date"`
	Transport    bool   `json:"transport"`
	DriverNum    string `json:"driver_num"`
	TruckNum     string `json:"truck_num"`
	TowTagNum    string `json:"tow_tag_num"`
}

func (h *Handler) createQuickCall(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req quickCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	dispatch, err := h.dispatchService.CreateQuickCall(c.Request.Context(), principal, service.QuickCallInput{
		DispatchNum:  req.DispatchNum,
		VehicleYear:  req.VehicleYear,
		Make:         req.Make,
		Model:        req.Model,
		Color:        req.Color,
		VIN:          req.VIN,
		LicenseNum:   req.LicenseNum,
		LicenseState: req.LicenseState,
		TowedFrom:    req.TowedFrom,
		TowedTo:      req.TowedTo,
		WhoCalled:    req.WhoCalled,
		Phone:        req.Phone,
		Reason:       req.Reason,
		Priority:     req.Priority,
		BillingName:  req.BillingName,
		MemberNum:    req.MemberNum,
		Notes:        req.Notes,
		ReferenceNum: req.ReferenceNum,
		TowDate:      req.TowDate,
		Transport:    req.Transport,
		DriverNum:    req.DriverNum,
		TruckNum:     req.TruckNum,
		TowTagNum:    req.TowTagNum,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusCreated
	if req.DispatchNum > 0 {
		status = http.StatusOK
	}
	c.JSON(status, successResponse(dispatch))
}

func (h *Handler) listDispatches(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	dispatches, err := h.dispatchService.ListActive(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(dispatches))
}

func (h *Handler) getDispatch(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	num, ok := h.dispatchNumParam(c)
	if !ok {
		return
	}

	dispatch, err := h.dispatchService.Get(c.Request.Context(), principal, num)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(dispatch))
}

func (h *Handler) patchDispatch(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	num, ok := h.dispatchNumParam(c)
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	dispatch, err := h.dispatchService.Patch(c.Request.Context(), principal, num, fields)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(dispatch))
}

func (h *Handler) archiveDispatch(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	num, ok := h.dispatchNumParam(c)
	if !ok {
		return
	}

	if err := h.dispatchService.Archive(c.Request.Context(), principal, num); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"archived": num}))
}

func (h *Handler) listAssignments(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	num, ok := h.dispatchNumParam(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListByDispatch(c.Request.Context(), principal, num)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(assignments))
}

type milestoneRequest struct {
	TimeReceived string `json:"time_received"`
	TimeEnroute  string `json:"time_enroute"`
	TimeArrived  string `json:"time_arrived"`
	TimeInTow    string `json:"time_intow"`
	TimeCleared  string `json:"time_cleared"`
	DriverNum    string `json:"driver_num"`
	TruckNum     string `json:"truck_num"`
}

func (h *Handler) updateMilestones(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	num, ok := h.dispatchNumParam(c)
	if !ok {
		return
	}

	var req milestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	assignment, err := h.assignmentService.UpdateMilestones(c.Request.Context(), principal, num, service.MilestoneInput{
		TimeReceived: req.TimeReceived,
		TimeEnroute:  req.TimeEnroute,
		TimeArrived:  req.TimeArrived,
		TimeInTow:    req.TimeInTow,
		TimeCleared:  req.TimeCleared,
		DriverNum:    req.DriverNum,
		TruckNum:     req.TruckNum,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(assignment))
}

func (h *Handler) clearAssignment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	num, ok := h.dispatchNumParam(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.Clear(c.Request.Context(), principal, num)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(assignment))
}

func (h *Handler) getInvoice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	num, ok := h.dispatchNumParam(c)
	if !ok {
		return
	}

	details, err := h.invoiceService.GetByDispatch(c.Request.Context(), principal, num)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(details))
}

type lineItemRequest struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Discount    bool    `json:"discount"`
}

type saveInvoiceRequest struct {
	InvoiceNum     string            `json:"invoice_num"`
	PONum          string            `json:"po_num"`
	BillingName    string            `json:"billing_name"`
	BillingAddress string            `json:"billing_address"`
	AccountNum     string            `json:"account_num"`
	Items          []lineItemRequest `json:"items"`
}

func (h *Handler) saveInvoice(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	num, ok := h.dispatchNumParam(c)
	if !ok {
		return
	}

	var req saveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.SaveInvoiceInput{
		InvoiceNum:     req.InvoiceNum,
		PONum:          req.PONum,
		BillingName:    req.BillingName,
		BillingAddress: req.BillingAddress,
		AccountNum:     req.AccountNum,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.LineItemInput{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Discount:    item.Discount,
		})
	}

	details, err := h.invoiceService.Save(c.Request.Context(), principal, num, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(details))
}

func (h *Handler) deleteInvoiceItem(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	if err := h.invoiceService.DeleteItem(c.Request.Context(), principal, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"deleted": c.Param("id")}))
}

type searchRequest struct {
	DispatchNum  string `json:"dispatch_num"`
	LicenseNum   string `json:"license_num"`
	LicenseState string `json:"license_state"`
	VIN          string `json:"vin"`
	TowDate      string `json:"tow_date"`
	TowTagNum    string `json:"tow_tag_num"`
	ReferenceNum string `json:"reference_num"`
	InvoiceNum   string `json:"invoice_num"`
	PONum        string `json:"po_num"`
	DriverNum    string `json:"driver_num"`
	StockNum     string `json:"stock_num"`
	AuctionNum   string `json:"auction_num"`
	ReleaseLic   string `json:"release_lic"`
	TowedFrom    string `json:"towed_from"`
	VehicleYear  string `json:"vehicle_year"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Color        string `json:"color"`

	TransportOnly  bool `json:"transport_only"`
	StoredCarsOnly bool `json:"stored_cars_only"`
	CheckHistory   bool `json:"check_history"`

	PowerField string `json:"power_field"`
	PowerValue string `json:"power_value"`
}

func (h *Handler) search(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	// The form renders these as one radio group.
	radios := 0
	for _, set := range []bool{req.TransportOnly, req.StoredCarsOnly, req.CheckHistory} {
		if set {
			radios++
		}
	}
	if radios > 1 {
		c.JSON(http.StatusBadRequest, errorResponse("choose at most one search filter"))
		return
	}

	results, err := h.searchService.Search(c.Request.Context(), principal, service.SearchCriteria{
		DispatchNum:    req.DispatchNum,
		LicenseNum:     req.LicenseNum,
		LicenseState:   req.LicenseState,
		VIN:            req.VIN,
		TowDate:        req.TowDate,
		TowTagNum:      req.TowTagNum,
		ReferenceNum:   req.ReferenceNum,
		InvoiceNum:     req.InvoiceNum,
		PONum:          req.PONum,
		DriverNum:      req.DriverNum,
		StockNum:       req.StockNum,
		AuctionNum:     req.AuctionNum,
		ReleaseLic:     req.ReleaseLic,
		TowedFrom:      req.TowedFrom,
		VehicleYear:    req.VehicleYear,
		Make:           req.Make,
		Model:          req.Model,
		Color:          req.Color,
		TransportOnly:  req.TransportOnly,
		StoredCarsOnly: req.StoredCarsOnly,
		CheckHistory:   req.CheckHistory,
		PowerField:     req.PowerField,
		PowerValue:     req.PowerValue,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyCriteria) || errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		h.log.Error().Err(err).Msg("search failed")
		c.JSON(http.StatusInternalServerError, errorResponse("search failed, check criteria and retry"))
		return
	}

	c.JSON(http.StatusOK, successResponse(results))
}

func (h *Handler) listDrivers(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	drivers, err := h.lookupService.Drivers(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(drivers))
}

func (h *Handler) listTrucks(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	trucks, err := h.lookupService.Trucks(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(trucks))
}

func (h *Handler) listCustomers(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	customers, err := h.lookupService.Customers(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(customers))
}

func (h *Handler) listCarMakes(c *gin.Context) {
	makes, err := h.lookupService.CarMakes(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(makes))
}

func (h *Handler) listCarModels(c *gin.Context) {
	carMake := strings.TrimSpace(c.Param("make"))
	if carMake == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid make"))
		return
	}

	models, err := h.lookupService.CarModels(c.Request.Context(), carMake)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(models))
}

type kitRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

func (h *Handler) listKits(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	kits, err := h.kitService.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(kits))
}

func (h *Handler) createKit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req kitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	kit, err := h.kitService.Create(c.Request.Context(), principal, service.KitInput{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(kit))
}

func (h *Handler) getKit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	kit, err := h.kitService.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(kit))
}

func (h *Handler) updateKit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req kitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	kit, err := h.kitService.Update(c.Request.Context(), principal, c.Param("id"), service.KitInput{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(kit))
}

func (h *Handler) deleteKit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	if err := h.kitService.Delete(c.Request.Context(), principal, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"deleted": c.Param("id")}))
}

func (h *Handler) dispatchNumParam(c *gin.Context) (int64, bool) {
	num, err := strconv.ParseInt(strings.TrimSpace(c.Param("num")), 10, 64)
	if err != nil || num <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse("invalid dispatch number"))
		return 0, false
	}
	return num, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
