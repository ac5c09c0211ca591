package services

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"

	"payu-relay/internal/apperrors"
)

// emptyFields is the gateway's fixed run of unused udf and reserved
// positions. The hash is matched positionally on the gateway side, so this
// run must stay exactly eleven pipes.
const emptyFields = "|||||||||||"

// HashSigner computes the PayU integrity digest for outbound requests and
// verifies the digest carried by inbound callbacks.
type HashSigner struct {
	key  string
	salt string
}

func NewHashSigner(key, salt string) *HashSigner {
	return &HashSigner{key: key, salt: salt}
}

// FormatAmount fixes an amount to exactly two decimal digits. The formatted
// string is what gets signed, stored and forwarded; the raw input is never
// used past this point.
func FormatAmount(amount string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return "", apperrors.Newf(apperrors.ValidationError, "invalid amount %q", amount)
	}
	if d.Sign() <= 0 {
		return "", apperrors.New(apperrors.ValidationError, "amount must be positive")
	}
	return d.StringFixed(2), nil
}

// Sign builds the outbound digest over
// key|txnid|amount|productinfo|firstname|email followed by the empty-field
// run and the salt. Amount must already be two-decimal formatted.
func (s *HashSigner) Sign(txnid, amount, productinfo, firstname, email string) string {
	seq := s.key + "|" + txnid + "|" + amount + "|" + productinfo + "|" + firstname + "|" + email + emptyFields + s.salt
	return hexDigest(seq)
}

// VerifyResponse recomputes the digest from a callback's own fields using the
// gateway's reverse field order and compares it to the hash the callback
// carries.
func (s *HashSigner) VerifyResponse(fields map[string]string) error {
	got := strings.ToLower(fields["hash"])
	if got == "" {
		return apperrors.New(apperrors.IntegrityError, "callback carries no hash")
	}

	seq := s.salt + "|" + fields["status"] + emptyFields +
		fields["email"] + "|" + fields["firstname"] + "|" + fields["productinfo"] + "|" +
		fields["amount"] + "|" + fields["txnid"] + "|" + s.key
	want := hexDigest(seq)

	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return apperrors.Newf(apperrors.IntegrityError, "hash mismatch for txnid %q", fields["txnid"])
	}
	return nil
}

func hexDigest(seq string) string {
	sum := sha512.Sum512([]byte(seq))
	return strings.ToLower(hex.EncodeToString(sum[:]))
}
