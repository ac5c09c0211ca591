package services

import "strings"

const (
	// defaultProductInfo matches what the pay form sells; the form does not
	// collect a product field.
	defaultProductInfo = "Test Product"
	// placeholderPhone is sent when no phone is collected. PayU requires the
	// field to be present.
	placeholderPhone = "9999999999"
)

// RedirectPayload is the exact form-field set a gateway-compliant POST
// submission must contain. The adapter does not perform the redirect; the
// handler renders this into an auto-submitting form.
type RedirectPayload struct {
	GatewayURL  string `json:"gateway_url"`
	Key         string `json:"key"`
	TxnID       string `json:"txnid"`
	Amount      string `json:"amount"`
	ProductInfo string `json:"productinfo"`
	FirstName   string `json:"firstname"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	SuccessURL  string `json:"surl"`
	FailureURL  string `json:"furl"`
	Hash        string `json:"hash"`
}

// FormFields returns the payload as the form fields PayU expects, keyed by
// their wire names.
func (p *RedirectPayload) FormFields() map[string]string {
	return map[string]string{
		"key":         p.Key,
		"txnid":       p.TxnID,
		"amount":      p.Amount,
		"productinfo": p.ProductInfo,
		"firstname":   p.FirstName,
		"email":       p.Email,
		"phone":       p.Phone,
		"surl":        p.SuccessURL,
		"furl":        p.FailureURL,
		"hash":        p.Hash,
	}
}

// PayUAdapter builds the outbound redirect payload for the gateway. The
// public base URL varies per deployment (tunnel or ingress), so it is
// injected rather than discovered.
type PayUAdapter struct {
	key        string
	gatewayURL string
	publicURL  string
}

func NewPayUAdapter(key, gatewayURL, publicBaseURL string) *PayUAdapter {
	return &PayUAdapter{
		key:        key,
		gatewayURL: gatewayURL,
		publicURL:  strings.TrimRight(publicBaseURL, "/"),
	}
}

func (a *PayUAdapter) BuildRedirect(txnid, amount, productinfo, firstname, email, hash string) *RedirectPayload {
	return &RedirectPayload{
		GatewayURL:  a.gatewayURL,
		Key:         a.key,
		TxnID:       txnid,
		Amount:      amount,
		ProductInfo: productinfo,
		FirstName:   firstname,
		Email:       email,
		Phone:       placeholderPhone,
		SuccessURL:  a.publicURL + "/success",
		FailureURL:  a.publicURL + "/failure",
		Hash:        hash,
	}
}
