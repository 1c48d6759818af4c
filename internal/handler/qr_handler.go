package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fleettrack/internal/middleware"
	"fleettrack/internal/model"
	"fleettrack/internal/repository"
	"fleettrack/internal/service"
	"fleettrack/pkg/pagination"
	"fleettrack/pkg/response"
)

// QRHandler covers the field workflow: QR/vehicle association, trip
// lifecycle and per-stage data capture.
type QRHandler struct {
	associations service.AssociationService
	trips        service.TripService
	options      service.OptionService
	auth         *middleware.Auth
}

func NewQRHandler(associations service.AssociationService, trips service.TripService, options service.OptionService, auth *middleware.Auth) *QRHandler {
	return &QRHandler{associations: associations, trips: trips, options: options, auth: auth}
}

func (h *QRHandler) RegisterRoutes(router *gin.RouterGroup) {
	qr := router.Group("/qr", h.auth.RequireUser())
	{
		qr.POST("/check", h.CheckQR)
		qr.GET("/check-vehicle/:vehicleNumber", h.CheckVehicle)
		qr.POST("/associate", h.Associate)
		qr.POST("/associate-vehicle", h.AssociateQRToVehicle)
		qr.POST("/assign-transporter", h.AssignTransporter)

		qr.POST("/start-trip", h.StartTrip)
		qr.GET("/active-trip", h.ActiveTrip)
		qr.POST("/end-trip", h.EndTrip)
		qr.POST("/cancel-trip", h.CancelTrip)
		qr.GET("/trips", h.TripHistory)
		qr.GET("/check-vehicle-trip/:vehicleNumber", h.CheckVehicleTrip)
		qr.GET("/active-trip-by-vehicle/:vehicleNumber", h.ActiveTripByVehicle)

		qr.POST("/way-bridge-data", h.SaveWayBridgeData)
		qr.GET("/way-bridge-data", h.WayBridgeHistory)
		qr.POST("/loading-point-data", h.SaveLoadingPointData)
		qr.GET("/loading-point-data", h.LoadingPointHistory)
		qr.POST("/unloading-point-data", h.SaveUnloadingPointData)
		qr.GET("/unloading-point-data", h.UnloadingPointHistory)

		qr.POST("/missing-loading-point", h.LogMissingLoadingPoint)
		qr.GET("/missing-loading-point", h.auth.RequireAdmin(), h.MissingLoadingEntries)

		qr.GET("/projects", h.listOptions("project"))
		qr.GET("/transporters", h.listOptions("transporter"))
		qr.GET("/loading-points", h.listOptions("loading_point"))
		qr.GET("/unloading-points", h.listOptions("unloading_point"))
		qr.GET("/way-bridges", h.listOptions("way_bridge"))
	}
}

// CheckQR resolves a scanned QR code to its vehicle. An unknown code is a
// normal outcome and still answers 200.
// @Summary      Check QR code
// @Tags         qr
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      object{qr_code=string}  true  "QR Payload"
// @Success      200      {object}  response.Response{data=service.CheckQRResult}
// @Router       /qr/check [post]
func (h *QRHandler) CheckQR(c *gin.Context) {
	var req struct {
		QRCode string `json:"qr_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.associations.CheckQR(c.Request.Context(), req.QRCode)
	if err != nil {
		respondError(c, err)
		return
	}
	message := "No vehicle associated with this QR code"
	if result.HasVehicle {
		message = "Vehicle found"
	}
	c.JSON(http.StatusOK, response.Success(message, result))
}

func (h *QRHandler) CheckVehicle(c *gin.Context) {
	result, err := h.associations.CheckVehicle(c.Request.Context(), c.Param("vehicleNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	message := "No transporter assigned to this vehicle"
	if result.HasTransporter {
		message = "Transporter found"
	}
	c.JSON(http.StatusOK, response.Success(message, result))
}

// Associate links a QR code to a vehicle number
// @Summary      Associate QR to vehicle
// @Tags         qr
// @Security     BearerAuth
// @Param        payload  body      service.AssociateVehicleRequest  true  "Association Payload"
// @Success      201      {object}  response.Response{data=service.QRVehicleResponse}
// @Router       /qr/associate [post]
func (h *QRHandler) Associate(c *gin.Context) {
	var req service.AssociateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.associations.Associate(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("QR code associated with vehicle", result))
}

func (h *QRHandler) AssociateQRToVehicle(c *gin.Context) {
	var req service.AssociateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.associations.AssociateQRToVehicle(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("QR code associated with vehicle", result))
}

func (h *QRHandler) AssignTransporter(c *gin.Context) {
	var req service.AssignTransporterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.associations.AssignTransporter(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Transporter assigned", result))
}

// StartTrip opens a new trip for the authenticated user
// @Summary      Start trip
// @Tags         trips
// @Security     BearerAuth
// @Param        payload  body      service.StartTripRequest  true  "Trip Payload"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /qr/start-trip [post]
func (h *QRHandler) StartTrip(c *gin.Context) {
	var req service.StartTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	trip, err := h.trips.StartTrip(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("Trip started successfully", trip))
}

// ActiveTrip answers 200 whether or not a trip is in flight; an idle user
// gets a null trip, not an error.
func (h *QRHandler) ActiveTrip(c *gin.Context) {
	trip, err := h.trips.GetActiveTrip(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if trip == nil {
		c.JSON(http.StatusOK, response.Success("No active trip", nil))
		return
	}
	c.JSON(http.StatusOK, response.Success("Active trip retrieved", trip))
}

func (h *QRHandler) EndTrip(c *gin.Context) {
	var req struct {
		TripID    string   `json:"trip_id" binding:"required"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Notes     string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		respondError(c, service.ErrTripNotFound)
		return
	}

	trip, err := h.trips.EndTrip(c.Request.Context(), middleware.CurrentUserID(c), tripID, service.EndTripRequest{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Trip completed successfully", trip))
}

func (h *QRHandler) CancelTrip(c *gin.Context) {
	var req struct {
		TripID string `json:"trip_id" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		respondError(c, service.ErrTripNotFound)
		return
	}

	trip, err := h.trips.CancelTrip(c.Request.Context(), middleware.CurrentUserID(c), tripID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Trip cancelled", trip))
}

// TripHistory lists the user's trips, newest first
// @Summary      Trip history
// @Tags         trips
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        limit   query     int     false  "Page size"
// @Param        skip    query     int     false  "Offset"
// @Success      200     {object}  response.Response
// @Router       /qr/trips [get]
func (h *QRHandler) TripHistory(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.TripListFilter{
		Status: tripStatusFilter(c.Query("status")),
		Limit:  p.Limit,
		Skip:   p.Skip,
	}

	trips, total, err := h.trips.GetTripHistory(c.Request.Context(), middleware.CurrentUserID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated("Trip history retrieved", trips, pagination.Build(total, p, len(trips))))
}

func (h *QRHandler) CheckVehicleTrip(c *gin.Context) {
	status, err := h.trips.CheckVehicleActiveTrip(c.Request.Context(), c.Param("vehicleNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	message := "No active trip found"
	if status.HasActiveTrip {
		message = "Active trip found for vehicle"
	}
	c.JSON(http.StatusOK, response.Success(message, status))
}

func (h *QRHandler) ActiveTripByVehicle(c *gin.Context) {
	result, err := h.trips.GetActiveTripByVehicle(c.Request.Context(), c.Param("vehicleNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success("Active trip found", result))
}

// SaveWayBridgeData records a weighbridge reading and starts a trip
// @Summary      Save way bridge data
// @Description  Cancels any active trip for the vehicle (reason required), then opens a new trip with the weighbridge record attached
// @Tags         stages
// @Security     BearerAuth
// @Param        payload  body      service.SaveWayBridgeRequest  true  "Stage Payload"
// @Success      201      {object}  response.Response{data=service.StageResult}
// @Failure      400      {object}  response.Response
// @Router       /qr/way-bridge-data [post]
func (h *QRHandler) SaveWayBridgeData(c *gin.Context) {
	var req service.SaveWayBridgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.trips.SaveWayBridgeData(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Way bridge data saved and trip started successfully"
	if result.EndedPreviousTrip != nil {
		message = "Previous trip ended and new way bridge data saved successfully"
	}
	c.JSON(http.StatusCreated, response.Success(message, result))
}

func (h *QRHandler) WayBridgeHistory(c *gin.Context) {
	p := pagination.Parse(c)
	data, total, err := h.trips.WayBridgeHistory(c.Request.Context(), middleware.CurrentUserID(c), p.Limit, p.Skip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated("Way bridge data history retrieved", data, pagination.Build(total, p, len(data))))
}

func (h *QRHandler) SaveLoadingPointData(c *gin.Context) {
	var req service.SaveLoadingPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.trips.SaveLoadingPointData(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Loading point data saved and trip started successfully"
	if result.EndedPreviousTrip != nil {
		message = "Previous trip ended and new loading point data saved successfully"
	}
	c.JSON(http.StatusCreated, response.Success(message, result))
}

func (h *QRHandler) LoadingPointHistory(c *gin.Context) {
	p := pagination.Parse(c)
	data, total, err := h.trips.LoadingPointHistory(c.Request.Context(), middleware.CurrentUserID(c), p.Limit, p.Skip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated("Loading point data history retrieved", data, pagination.Build(total, p, len(data))))
}

// SaveUnloadingPointData records delivery and completes the trip
// @Summary      Save unloading point data
// @Tags         stages
// @Security     BearerAuth
// @Param        payload  body      service.SaveUnloadingPointRequest  true  "Stage Payload"
// @Success      201      {object}  response.Response{data=service.UnloadingResult}
// @Failure      400      {object}  response.Response
// @Router       /qr/unloading-point-data [post]
func (h *QRHandler) SaveUnloadingPointData(c *gin.Context) {
	var req service.SaveUnloadingPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.trips.SaveUnloadingPointData(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("Unloading point data saved and trip completed successfully", result))
}

func (h *QRHandler) UnloadingPointHistory(c *gin.Context) {
	p := pagination.Parse(c)
	data, total, err := h.trips.UnloadingPointHistory(c.Request.Context(), middleware.CurrentUserID(c), p.Limit, p.Skip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated("Unloading point data history retrieved", data, pagination.Build(total, p, len(data))))
}

func (h *QRHandler) LogMissingLoadingPoint(c *gin.Context) {
	var req service.LogMissingLoadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	entry, err := h.trips.LogMissingLoadingPoint(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success("Missing loading point entry logged", entry))
}

func (h *QRHandler) MissingLoadingEntries(c *gin.Context) {
	p := pagination.ParseWithDefaults(c, 50, 100)
	entries, total, err := h.trips.MissingLoadingEntries(c.Request.Context(), p.Limit, p.Skip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated("Missing loading point entries retrieved", entries, pagination.Build(total, p, len(entries))))
}

func (h *QRHandler) listOptions(optType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		options, err := h.options.ListByType(c.Request.Context(), optType)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success("Options retrieved", options))
	}
}

// tripStatusFilter maps a query value to a status filter, treating unknown
// values as "no filter".
func tripStatusFilter(raw string) model.TripStatus {
	switch model.TripStatus(raw) {
	case model.TripActive, model.TripCompleted, model.TripCancelled:
		return model.TripStatus(raw)
	default:
		return ""
	}
}
