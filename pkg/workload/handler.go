package workload

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/guswawan/weekload/internal/rest"
	"github.com/guswawan/weekload/internal/utils"
	log "github.com/sirupsen/logrus"
)

type WeekRecordDTO struct {
	WeekNumber int    `json:"weekNumber"`
	Status     Status `json:"status"`
	Notes      string `json:"notes,omitempty"`
}

type YearViewDTO struct {
	Year  int             `json:"year"`
	Weeks []WeekRecordDTO `json:"weeks"`
}

type CurrentWeekDTO struct {
	Year        int `json:"year"`
	WeekNumber  int `json:"weekNumber"`
	WeeksInYear int `json:"weeksInYear"`
}

type StatusDTO struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
}

type Handler struct {
	service  Service
	renderer CsvRenderer
	clock    utils.Clock
}

func NewHandler(service Service, renderer CsvRenderer, clock utils.Clock) *Handler {
	return &Handler{
		service:  service,
		renderer: renderer,
		clock:    clock,
	}
}

// GetYear godoc
// @Summary Get a year of workload weeks
// @Description Retrieve all weeks of the given year for the current user. Anonymous requests get an all-undefined view.
// @Tags Workload
// @Produce json
// @Param year path int true "Calendar year"
// @Success 200 {object} YearViewDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid year"
// @Router /api/workload/{year} [get]
// @Security BearerToken
func (h *Handler) GetYear(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	year, ok := h.yearFromPath(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetYearView(r.Context(), year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(yearViewToDTO(view)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// SetWeekStatus godoc
// @Summary Set the status of one week
// @Description Store a workload status for a week of the given year. Existing notes of the week are preserved.
// @Tags Workload
// @Accept json
// @Param year path int true "Calendar year"
// @Param week path int true "ISO week number"
// @Param body body object{status=string} true "New status"
// @Success 204
// @Failure 400 {object} rest.ErrorResponse "Invalid year, week, or status"
// @Failure 401 {string} string "Not authenticated"
// @Router /api/workload/{year}/week/{week}/status [put]
// @Security BearerToken
func (h *Handler) SetWeekStatus(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearFromPath(w, r)
	if !ok {
		return
	}
	weekNumber, ok := h.weekFromPath(w, r)
	if !ok {
		return
	}

	var body struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	err := h.service.SetStatus(r.Context(), year, weekNumber, body.Status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetWeekNotes godoc
// @Summary Set the notes of one week
// @Description Store free-form notes for a week of the given year. The currently displayed status must be sent along and is preserved.
// @Tags Workload
// @Accept json
// @Param year path int true "Calendar year"
// @Param week path int true "ISO week number"
// @Param body body object{notes=string,currentStatus=string} true "New notes and the week's current status"
// @Success 204
// @Failure 400 {object} rest.ErrorResponse "Invalid year, week, or status"
// @Failure 401 {string} string "Not authenticated"
// @Router /api/workload/{year}/week/{week}/notes [put]
// @Security BearerToken
func (h *Handler) SetWeekNotes(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearFromPath(w, r)
	if !ok {
		return
	}
	weekNumber, ok := h.weekFromPath(w, r)
	if !ok {
		return
	}

	var body struct {
		Notes         string `json:"notes"`
		CurrentStatus Status `json:"currentStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}
	if body.CurrentStatus == "" {
		body.CurrentStatus = StatusUndefined
	}

	err := h.service.SetNotes(r.Context(), year, weekNumber, body.Notes, body.CurrentStatus)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportYear godoc
// @Summary Export a year as CSV
// @Description Render all weeks of the given year as a CSV document.
// @Tags Workload
// @Produce text/csv
// @Param year path int true "Calendar year"
// @Success 200 {string} string
// @Failure 400 {object} rest.ErrorResponse "Invalid year"
// @Router /api/workload/{year}/export [get]
// @Security BearerToken
func (h *Handler) ExportYear(w http.ResponseWriter, r *http.Request) {
	year, ok := h.yearFromPath(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetYearView(r.Context(), year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	csvContent, err := h.renderer.RenderYear(view)
	if err != nil {
		log.Errorf("failed to render year %d as CSV: %v", year, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\"workload-"+strconv.Itoa(year)+".csv\"")
	if _, err := w.Write([]byte(csvContent)); err != nil {
		log.Errorf("failed to write CSV response: %v", err)
	}
}

// CurrentWeek godoc
// @Summary Get the current ISO week
// @Description Return the ISO year and week number of today, and the number of ISO weeks in that year.
// @Tags Workload
// @Produce json
// @Success 200 {object} CurrentWeekDTO
// @Router /api/workload/week/current [get]
func (h *Handler) CurrentWeek(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// The ISO year, not the calendar year: around New Year the current week
	// can belong to the neighboring year, and the tuple must stay consistent.
	now := h.clock.Now()
	year := ISOYear(now)
	dto := CurrentWeekDTO{
		Year:        year,
		WeekNumber:  WeekOfYear(now),
		WeeksInYear: WeeksInYear(year),
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ListStatuses godoc
// @Summary List workload statuses
// @Description Return the status catalog with human-readable labels, in legend order.
// @Tags Workload
// @Produce json
// @Success 200 {array} StatusDTO
// @Router /api/workload/statuses [get]
func (h *Handler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	statuses := make([]StatusDTO, 0, len(AllStatuses))
	for _, status := range AllStatuses {
		statuses = append(statuses, StatusDTO{Status: status, Label: status.Label()})
	}
	if err := json.NewEncoder(w).Encode(statuses); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) yearFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil || year < 1 {
		writeBadRequest(w, "Invalid year format", "Parameter year must be a positive number")
		return 0, false
	}
	return year, true
}

func (h *Handler) weekFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	weekNumber, err := strconv.Atoi(vars["week"])
	if err != nil {
		writeBadRequest(w, "Invalid week format", "Parameter week must be a number")
		return 0, false
	}
	return weekNumber, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidWeek), errors.Is(err, ErrInvalidStatus):
		writeBadRequest(w, err.Error(), "")
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeBadRequest(w http.ResponseWriter, message string, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}

func yearViewToDTO(view YearView) YearViewDTO {
	weeks := make([]WeekRecordDTO, 0, len(view.Weeks))
	for _, record := range view.Weeks {
		weeks = append(weeks, WeekRecordDTO{
			WeekNumber: record.WeekNumber,
			Status:     record.Status,
			Notes:      record.Notes,
		})
	}
	return YearViewDTO{Year: view.Year, Weeks: weeks}
}
