package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"payu-relay/internal/apperrors"
	"payu-relay/internal/models"
	"payu-relay/internal/services"
	"payu-relay/internal/web"
)

type PaymentHandler struct {
	service *services.PaymentService
}

func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// PayPage renders the payment form.
func (h *PaymentHandler) PayPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Templates.ExecuteTemplate(w, "pay.html", nil); err != nil {
		log.Printf("Failed to render pay page: %v", err)
	}
}

// Pay runs the initiate flow and replies with an auto-submitting form
// targeting the gateway. The initiated record is persisted before this
// response is written.
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, apperrors.New(apperrors.ValidationError, "invalid form body"))
		return
	}

	payload, err := h.service.Initiate(r.Context(),
		r.PostFormValue("amount"),
		r.PostFormValue("firstname"),
		r.PostFormValue("email"),
	)
	if err != nil {
		log.Printf("Failed to initiate payment: %v", err)
		writeError(w, err)
		return
	}

	data := struct {
		GatewayURL string
		Fields     map[string]string
	}{payload.GatewayURL, payload.FormFields()}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Templates.ExecuteTemplate(w, "redirect.html", data); err != nil {
		log.Printf("Failed to render redirect form: %v", err)
	}
}

// SuccessPage and FailurePage are courtesy redirect targets for the browser.
// They carry no trustworthy payload and persist nothing.
func (h *PaymentHandler) SuccessPage(w http.ResponseWriter, r *http.Request) {
	h.renderResult(w, r, models.StatusSuccess)
}

func (h *PaymentHandler) FailurePage(w http.ResponseWriter, r *http.Request) {
	h.renderResult(w, r, models.StatusFailure)
}

func (h *PaymentHandler) renderResult(w http.ResponseWriter, r *http.Request, status models.TransactionStatus) {
	data := struct {
		Status string
		TxnID  string
	}{string(status), r.URL.Query().Get("txnid")}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Templates.ExecuteTemplate(w, "result.html", data); err != nil {
		log.Printf("Failed to render result page: %v", err)
	}
}

// SuccessCallback ingests the gateway's server-to-server success
// confirmation. This is the authoritative channel.
func (h *PaymentHandler) SuccessCallback(w http.ResponseWriter, r *http.Request) {
	h.handleCallback(w, r, models.StatusSuccess)
}

func (h *PaymentHandler) FailureCallback(w http.ResponseWriter, r *http.Request) {
	h.handleCallback(w, r, models.StatusFailure)
}

func (h *PaymentHandler) handleCallback(w http.ResponseWriter, r *http.Request, status models.TransactionStatus) {
	if err := r.ParseForm(); err != nil {
		writeError(w, apperrors.New(apperrors.ValidationError, "invalid form body"))
		return
	}

	fields := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}

	rec, err := h.service.RecordCallback(r.Context(), models.ChannelGatewayConfirmation, status, fields)
	if err != nil {
		log.Printf("Failed to record %s callback: %v", status, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  rec.Status,
		"details": fields,
	})
}

// GetPayments dumps the full ledger. Guarded by RequireToken in the router.
func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.ListPayments(r.Context())
	if err != nil {
		log.Printf("Failed to fetch payments: %v", err)
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []models.TransactionRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// GetPayment returns the reconciled view of one logical transaction.
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	txnid := mux.Vars(r)["txnid"]
	resolved, err := h.service.Resolve(r.Context(), txnid)
	if err != nil {
		log.Printf("Failed to resolve txnid %s: %v", txnid, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}
