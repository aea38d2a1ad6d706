package handler

import (
	"net/http"

	"github.com/kovazenko1977/sanatory/internal/service"
)

func (h *APIHandler) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.app.Catalog.Services()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, services)
}

func (h *APIHandler) createService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	svc, err := h.app.Catalog.CreateService(req.Name, req.Category, req.Price, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, svc)
}

func (h *APIHandler) updateService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid service id", http.StatusBadRequest)
		return
	}
	var req service.UpdateServiceInput
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Catalog.UpdateService(id, req); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) deleteService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid service id", http.StatusBadRequest)
		return
	}
	if err := h.app.Catalog.DeleteService(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) listPromocodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.app.Catalog.Promocodes()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, codes)
}

func (h *APIHandler) createPromocode(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePromocodeInput
	if !h.decode(w, r, &req) {
		return
	}
	promo, err := h.app.Catalog.CreatePromocode(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, promo)
}

func (h *APIHandler) updatePromocode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid promocode id", http.StatusBadRequest)
		return
	}
	var req service.UpdatePromocodeInput
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Catalog.UpdatePromocode(id, req); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) deletePromocode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid promocode id", http.StatusBadRequest)
		return
	}
	if err := h.app.Catalog.DeletePromocode(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) listTaxes(w http.ResponseWriter, r *http.Request) {
	taxes, err := h.app.Catalog.Taxes()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, taxes)
}

func (h *APIHandler) createTax(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string  `json:"name"`
		Rate float64 `json:"rate"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	tax, err := h.app.Catalog.CreateTax(req.Name, req.Rate)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, tax)
}

func (h *APIHandler) updateTax(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid tax id", http.StatusBadRequest)
		return
	}
	var req service.UpdateTaxInput
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.Catalog.UpdateTax(id, req); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) deleteTax(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid tax id", http.StatusBadRequest)
		return
	}
	if err := h.app.Catalog.DeleteTax(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
