package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kovazenko1977/sanatory/internal/app"
	"github.com/kovazenko1977/sanatory/internal/domain"
	"github.com/kovazenko1977/sanatory/internal/logger"
	"github.com/kovazenko1977/sanatory/internal/models"
	"github.com/kovazenko1977/sanatory/internal/service"
)

// APIHandler exposes the managers over a thin JSON surface. It only decodes
// requests, calls into the core and renders results; all rules live in the
// services.
type APIHandler struct {
	app    *app.App
	logger *logger.Logger
}

func NewAPIHandler(application *app.App, log *logger.Logger) *APIHandler {
	return &APIHandler{
		app:    application,
		logger: log,
	}
}

// Routes registers every endpoint on a fresh mux.
func (h *APIHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/bookings", h.listBookings)
	mux.HandleFunc("POST /api/bookings", h.createBooking)
	mux.HandleFunc("GET /api/bookings/today", h.todayBookings)
	mux.HandleFunc("PATCH /api/bookings/{id}", h.updateBooking)
	mux.HandleFunc("POST /api/bookings/{id}/status", h.changeBookingStatus)
	mux.HandleFunc("POST /api/bookings/{id}/payments", h.addPayment)
	mux.HandleFunc("POST /api/bookings/{id}/checkin", h.checkIn)
	mux.HandleFunc("POST /api/bookings/{id}/checkout", h.checkOut)
	mux.HandleFunc("POST /api/bookings/{id}/cancel", h.cancelBooking)

	mux.HandleFunc("GET /api/room-classes", h.listRoomClasses)
	mux.HandleFunc("POST /api/room-classes", h.createRoomClass)
	mux.HandleFunc("PATCH /api/room-classes/{id}", h.updateRoomClass)
	mux.HandleFunc("DELETE /api/room-classes/{id}", h.deleteRoomClass)
	mux.HandleFunc("GET /api/rooms", h.listRoomInstances)
	mux.HandleFunc("POST /api/rooms", h.createRoomInstance)
	mux.HandleFunc("PATCH /api/rooms/{id}", h.updateRoomInstance)
	mux.HandleFunc("DELETE /api/rooms/{id}", h.deleteRoomInstance)
	mux.HandleFunc("GET /api/rooms/available", h.availableRooms)
	mux.HandleFunc("POST /api/rooms/{id}/block", h.blockRoom)
	mux.HandleFunc("POST /api/rooms/{id}/unblock", h.unblockRoom)

	mux.HandleFunc("GET /api/guests", h.listGuests)
	mux.HandleFunc("POST /api/guests", h.createGuest)
	mux.HandleFunc("PATCH /api/guests/{id}", h.updateGuest)
	mux.HandleFunc("DELETE /api/guests/{id}", h.deleteGuest)
	mux.HandleFunc("GET /api/guests/{id}/history", h.guestHistory)
	mux.HandleFunc("POST /api/guests/{id}/blacklist", h.blacklistGuest)
	mux.HandleFunc("DELETE /api/guests/{id}/blacklist", h.unblacklistGuest)
	mux.HandleFunc("POST /api/guests/{id}/documents", h.addGuestDocument)
	mux.HandleFunc("DELETE /api/guests/{id}/documents/{filename}", h.removeGuestDocument)
	mux.HandleFunc("POST /api/guests/{id}/loyalty", h.recomputeLoyalty)

	mux.HandleFunc("GET /api/services", h.listServices)
	mux.HandleFunc("POST /api/services", h.createService)
	mux.HandleFunc("PATCH /api/services/{id}", h.updateService)
	mux.HandleFunc("DELETE /api/services/{id}", h.deleteService)
	mux.HandleFunc("GET /api/promocodes", h.listPromocodes)
	mux.HandleFunc("POST /api/promocodes", h.createPromocode)
	mux.HandleFunc("PATCH /api/promocodes/{id}", h.updatePromocode)
	mux.HandleFunc("DELETE /api/promocodes/{id}", h.deletePromocode)
	mux.HandleFunc("GET /api/taxes", h.listTaxes)
	mux.HandleFunc("POST /api/taxes", h.createTax)
	mux.HandleFunc("PATCH /api/taxes/{id}", h.updateTax)
	mux.HandleFunc("DELETE /api/taxes/{id}", h.deleteTax)

	mux.HandleFunc("GET /api/stats", h.stats)
	mux.HandleFunc("GET /api/settings", h.getSettings)
	mux.HandleFunc("PATCH /api/settings", h.updateSettings)

	return mux
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding JSON", logger.Error(err))
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrState), errors.Is(err, domain.ErrReferential):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", logger.Error(err))
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *APIHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer func() {
		_ = r.Body.Close()
	}()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

func (h *APIHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.BookingFilter{
		Status:   models.BookingStatus(q.Get("status")),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}
	filter.GuestID, _ = strconv.Atoi(q.Get("guest_id"))
	filter.RoomInstanceID, _ = strconv.Atoi(q.Get("room_instance_id"))

	views, err := h.app.Bookings.GetAll(filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *APIHandler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GuestID        int    `json:"guest_id"`
		RoomInstanceID int    `json:"room_instance_id"`
		CheckIn        string `json:"check_in"`
		CheckOut       string `json:"check_out"`
		GuestsCount    int    `json:"guests_count"`
		ServiceIDs     []int  `json:"services"`
		Promocode      string `json:"promocode"`
		Notes          string `json:"notes"`
		Source         string `json:"source"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	booking, err := h.app.Bookings.Create(service.CreateBookingInput{
		GuestID:        req.GuestID,
		RoomInstanceID: req.RoomInstanceID,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		GuestsCount:    req.GuestsCount,
		ServiceIDs:     req.ServiceIDs,
		Promocode:      req.Promocode,
		Notes:          req.Notes,
		Source:         req.Source,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, booking)
}

func (h *APIHandler) todayBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.app.Bookings.GetToday()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bookings)
}

func (h *APIHandler) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	var req service.UpdateBookingInput
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Bookings.Update(id, req); err != nil {
		h.writeError(w, err)
		return
	}
	booking, err := h.app.Bookings.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, booking)
}

func (h *APIHandler) changeBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	var req struct {
		Status models.BookingStatus `json:"status"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Bookings.ChangeStatus(id, req.Status); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) addPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	var req struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	booking, err := h.app.Bookings.AddPayment(id, req.Amount, req.Method)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, booking)
}

func (h *APIHandler) checkIn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	if err := h.app.Bookings.CheckIn(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) checkOut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	if err := h.app.Bookings.CheckOut(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Bookings.Cancel(id, req.Reason); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) listRoomClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.app.Rooms.RoomClasses()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, classes)
}

func (h *APIHandler) createRoomClass(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRoomClassInput
	if !h.decode(w, r, &req) {
		return
	}
	class, err := h.app.Rooms.CreateRoomClass(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, class)
}

func (h *APIHandler) updateRoomClass(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid room class id", http.StatusBadRequest)
		return
	}
	var req service.UpdateRoomClassInput
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Rooms.UpdateRoomClass(id, req); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) deleteRoomClass(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid room class id", http.StatusBadRequest)
		return
	}
	if err := h.app.Rooms.DeleteRoomClass(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) listRoomInstances(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.app.Rooms.RoomInstances()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rooms)
}

func (h *APIHandler) createRoomInstance(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRoomInstanceInput
	if !h.decode(w, r, &req) {
		return
	}
	room, err := h.app.Rooms.CreateRoomInstance(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, room)
}

func (h *APIHandler) updateRoomInstance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid room id", http.StatusBadRequest)
		return
	}
	var req service.UpdateRoomInstanceInput
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Rooms.UpdateRoomInstance(id, req); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) deleteRoomInstance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid room id", http.StatusBadRequest)
		return
	}
	if err := h.app.Rooms.DeleteRoomInstance(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) availableRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rooms, err := h.app.Rooms.AvailableRooms(q.Get("check_in"), q.Get("check_out"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rooms)
}

func (h *APIHandler) blockRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid room id", http.StatusBadRequest)
		return
	}
	var req struct {
		Reason string `json:"reason"`
		From   string `json:"from"`
		To     string `json:"to"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Rooms.Block(id, req.Reason, req.From, req.To); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) unblockRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid room id", http.StatusBadRequest)
		return
	}
	if err := h.app.Rooms.Unblock(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) listGuests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.GuestFilter{Search: q.Get("search")}
	if v := q.Get("blacklisted"); v != "" {
		blacklisted := v == "true"
		filter.Blacklisted = &blacklisted
	}
	guests, err := h.app.Guests.GetAll(filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, guests)
}

func (h *APIHandler) createGuest(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGuestInput
	if !h.decode(w, r, &req) {
		return
	}
	guest, err := h.app.Guests.Create(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, guest)
}

func (h *APIHandler) updateGuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid guest id", http.StatusBadRequest)
		return
	}
	var req service.UpdateGuestInput
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Guests.Update(id, req); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) deleteGuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid guest id", http.StatusBadRequest)
		return
	}
	if err := h.app.Guests.Delete(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) guestHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid guest id", http.StatusBadRequest)
		return
	}
	bookings, err := h.app.Bookings.History(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bookings)
}

func (h *APIHandler) blacklistGuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid guest id", http.StatusBadRequest)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Guests.AddToBlacklist(id, req.Reason); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) unblacklistGuest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid guest id", http.StatusBadRequest)
		return
	}
	if err := h.app.Guests.RemoveFromBlacklist(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) addGuestDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid guest id", http.StatusBadRequest)
		return
	}
	var req struct {
		Type         string `json:"type"`
		OriginalName string `json:"original_name"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	filename, err := h.app.Guests.AddDocument(id, req.Type, req.OriginalName)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"filename": filename})
}

func (h *APIHandler) removeGuestDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid guest id", http.StatusBadRequest)
		return
	}
	if err := h.app.Guests.RemoveDocument(id, r.PathValue("filename")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) recomputeLoyalty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid guest id", http.StatusBadRequest)
		return
	}
	if err := h.app.Guests.RecomputeStats(id); err != nil {
		h.writeError(w, err)
		return
	}
	guest, err := h.app.Guests.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, guest)
}

func (h *APIHandler) stats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.app.Stats.Summary()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *APIHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.app.Settings.Get()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}

func (h *APIHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateSettingsInput
	if !h.decode(w, r, &req) {
		return
	}
	settings, err := h.app.Settings.Update(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, settings)
}
