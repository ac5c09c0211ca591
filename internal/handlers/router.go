package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the full HTTP surface. Dispatch is keyed on (path, method):
// the GET halves of /success and /failure are browser courtesy pages, the
// POST halves are the gateway confirmation channel.
func NewRouter(payment *PaymentHandler, auth *AuthHandler, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware(logger))

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")

	router.HandleFunc("/pay", payment.PayPage).Methods("GET")
	router.HandleFunc("/pay", payment.Pay).Methods("POST")

	router.HandleFunc("/success", payment.SuccessPage).Methods("GET")
	router.HandleFunc("/success", payment.SuccessCallback).Methods("POST")
	router.HandleFunc("/failure", payment.FailurePage).Methods("GET")
	router.HandleFunc("/failure", payment.FailureCallback).Methods("POST")

	router.HandleFunc("/login", auth.Login).Methods("POST")
	router.HandleFunc("/payments", auth.RequireToken(payment.GetPayments)).Methods("GET")
	router.HandleFunc("/payments/{txnid}", auth.RequireToken(payment.GetPayment)).Methods("GET")

	return router
}
