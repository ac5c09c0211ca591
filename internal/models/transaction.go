package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionStatus string

const (
	StatusInitiated TransactionStatus = "initiated"
	StatusSuccess   TransactionStatus = "success"
	StatusFailure   TransactionStatus = "failure"
)

// CallbackChannel identifies which of the two independent callback paths
// produced a ledger record.
type CallbackChannel string

const (
	ChannelUserRedirect        CallbackChannel = "user-redirect"
	ChannelGatewayConfirmation CallbackChannel = "gateway-confirmation"
)

// TransactionRecord is one entry in the append-only payment ledger. A logical
// transaction is the set of records sharing a txnid: one "initiated" entry
// written before the client is forwarded to the gateway, plus one entry per
// callback received. Records are never updated in place.
//
// The gateway sends back more fields than we define; anything outside the
// schema lands in Extra so the full callback payload survives for audit.
type TransactionRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TxnID       string             `bson:"txnid" json:"txnid"`
	Status      TransactionStatus  `bson:"status" json:"status"`
	Channel     CallbackChannel    `bson:"channel,omitempty" json:"channel,omitempty"`
	Amount      string             `bson:"amount" json:"amount"`
	ProductInfo string             `bson:"productinfo" json:"productinfo"`
	FirstName   string             `bson:"firstname" json:"firstname"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone" json:"phone"`
	Hash        string             `bson:"hash" json:"hash"`
	Extra       map[string]string  `bson:"extra,omitempty" json:"extra,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
