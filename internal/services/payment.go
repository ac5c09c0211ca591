package services

import (
	"context"
	"encoding/hex"
	"log"
	"strings"

	"github.com/google/uuid"

	"payu-relay/internal/apperrors"
	"payu-relay/internal/models"
	"payu-relay/internal/store"
)

// txnIDLength is the gateway's transaction id limit.
const txnIDLength = 20

// schemaFields are the callback keys that map onto TransactionRecord fields;
// everything else a callback carries goes into Extra.
var schemaFields = map[string]bool{
	"txnid":       true,
	"status":      true,
	"amount":      true,
	"productinfo": true,
	"firstname":   true,
	"email":       true,
	"phone":       true,
	"hash":        true,
}

// PaymentService drives a transaction through its initiated → success/failure
// lifecycle. All state lives in the ledger; the service itself holds none.
type PaymentService struct {
	store   store.TransactionStore
	signer  *HashSigner
	adapter *PayUAdapter
	strict  bool
}

func NewPaymentService(st store.TransactionStore, signer *HashSigner, adapter *PayUAdapter, strict bool) *PaymentService {
	return &PaymentService{
		store:   st,
		signer:  signer,
		adapter: adapter,
		strict:  strict,
	}
}

func newTxnID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:txnIDLength]
}

// Initiate validates the submitted fields, signs the payment and persists an
// "initiated" record. The redirect payload is only returned once that record
// is durably stored; a client reaching the gateway without one would have
// nothing to reconcile against.
func (s *PaymentService) Initiate(ctx context.Context, amount, firstname, email string) (*RedirectPayload, error) {
	firstname = strings.TrimSpace(firstname)
	email = strings.TrimSpace(email)
	if firstname == "" {
		return nil, apperrors.New(apperrors.ValidationError, "firstname is required")
	}
	if email == "" {
		return nil, apperrors.New(apperrors.ValidationError, "email is required")
	}

	fixed, err := FormatAmount(amount)
	if err != nil {
		return nil, err
	}

	txnid := newTxnID()
	hash := s.signer.Sign(txnid, fixed, defaultProductInfo, firstname, email)
	payload := s.adapter.BuildRedirect(txnid, fixed, defaultProductInfo, firstname, email, hash)

	rec := &models.TransactionRecord{
		TxnID:       txnid,
		Status:      models.StatusInitiated,
		Amount:      fixed,
		ProductInfo: defaultProductInfo,
		FirstName:   firstname,
		Email:       email,
		Phone:       payload.Phone,
		Hash:        hash,
	}
	if _, err := s.store.Append(ctx, rec); err != nil {
		log.Printf("Failed to persist initiated record for txnid %s: %v", txnid, err)
		return nil, err
	}

	log.Printf("Payment initiated: txnid=%s amount=%s", txnid, fixed)
	return payload, nil
}

// RecordCallback appends a ledger entry for an inbound gateway callback. The
// derived status comes from which endpoint the callback arrived on, not from
// the payload. Callbacks are untrusted, at-least-once and unordered:
// duplicates and callbacks for ids we never initiated are persisted as-is in
// the default mode. Strict mode rejects unknown ids instead.
func (s *PaymentService) RecordCallback(ctx context.Context, channel models.CallbackChannel, status models.TransactionStatus, fields map[string]string) (*models.TransactionRecord, error) {
	txnid := fields["txnid"]

	if s.strict {
		prior, err := s.store.FindAll(ctx, store.Filter{TxnID: txnid, Status: models.StatusInitiated})
		if err != nil {
			return nil, err
		}
		if len(prior) == 0 {
			return nil, apperrors.Newf(apperrors.UnknownTransaction, "no initiated record for txnid %q", txnid)
		}
	}

	verified := true
	if err := s.signer.VerifyResponse(fields); err != nil {
		verified = false
		log.Printf("Suspicious callback on %s channel: %v", channel, err)
	}

	rec := &models.TransactionRecord{
		TxnID:       txnid,
		Status:      status,
		Channel:     channel,
		Amount:      fields["amount"],
		ProductInfo: fields["productinfo"],
		FirstName:   fields["firstname"],
		Email:       fields["email"],
		Phone:       fields["phone"],
		Hash:        fields["hash"],
		Extra:       map[string]string{},
	}
	for k, v := range fields {
		if !schemaFields[k] {
			rec.Extra[k] = v
		}
	}
	if !verified {
		rec.Extra["hash_verified"] = "false"
	}
	if len(rec.Extra) == 0 {
		rec.Extra = nil
	}

	if _, err := s.store.Append(ctx, rec); err != nil {
		log.Printf("Failed to persist %s callback for txnid %s: %v", status, txnid, err)
		return nil, err
	}

	log.Printf("Callback recorded: txnid=%s status=%s channel=%s", txnid, status, channel)
	return rec, nil
}

// ListPayments returns the entire ledger.
func (s *PaymentService) ListPayments(ctx context.Context) ([]models.TransactionRecord, error) {
	return s.store.FindAll(ctx, store.Filter{})
}

// ResolvedTransaction is the read-side view of one logical transaction: its
// full ledger history plus the status a consumer should act on.
type ResolvedTransaction struct {
	TxnID       string                     `json:"txnid"`
	FinalStatus models.TransactionStatus   `json:"final_status"`
	Records     []models.TransactionRecord `json:"records"`
}

// Resolve derives a final status from the ledger without mutating it. Only
// gateway-confirmation records are authoritative; a success confirmation wins
// over a failure one, and a transaction with no confirmations stays
// "initiated" — abandonment is not an error.
func (s *PaymentService) Resolve(ctx context.Context, txnid string) (*ResolvedTransaction, error) {
	recs, err := s.store.FindAll(ctx, store.Filter{TxnID: txnid})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, apperrors.Newf(apperrors.UnknownTransaction, "no records for txnid %q", txnid)
	}

	final := models.StatusInitiated
	for _, r := range recs {
		if r.Channel != models.ChannelGatewayConfirmation {
			continue
		}
		switch r.Status {
		case models.StatusSuccess:
			final = models.StatusSuccess
		case models.StatusFailure:
			if final != models.StatusSuccess {
				final = models.StatusFailure
			}
		}
	}

	return &ResolvedTransaction{
		TxnID:       txnid,
		FinalStatus: final,
		Records:     recs,
	}, nil
}
