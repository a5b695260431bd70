package payment

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"suarec/models"
)

func signedEvent(secret string) models.GatewayEvent {
	ev := models.GatewayEvent{
		Event:     "transaction.updated",
		Timestamp: 1756300000,
	}
	ev.Data.Transaction = models.GatewayTransaction{
		ID:            "tx-1",
		Status:        "APPROVED",
		AmountInCents: 11900000,
		Reference:     "suarec-c1",
	}
	ev.Signature.Properties = []string{
		"transaction.id",
		"transaction.status",
		"transaction.amount_in_cents",
	}

	var b strings.Builder
	b.WriteString(ev.Data.Transaction.ID)
	b.WriteString(ev.Data.Transaction.Status)
	b.WriteString(strconv.FormatInt(ev.Data.Transaction.AmountInCents, 10))
	b.WriteString(strconv.FormatInt(ev.Timestamp, 10))
	b.WriteString(secret)
	sum := sha256.Sum256([]byte(b.String()))
	ev.Signature.Checksum = hex.EncodeToString(sum[:])
	return ev
}

func TestVerifyEventChecksum(t *testing.T) {
	const secret = "test_events_secret"
	ev := signedEvent(secret)

	if !VerifyEventChecksum(ev, secret) {
		t.Fatal("valid checksum rejected")
	}

	// Uppercase checksums are accepted too.
	ev.Signature.Checksum = strings.ToUpper(ev.Signature.Checksum)
	if !VerifyEventChecksum(ev, secret) {
		t.Fatal("uppercase checksum rejected")
	}
}

func TestVerifyEventChecksumRejectsTampering(t *testing.T) {
	const secret = "test_events_secret"

	ev := signedEvent(secret)
	ev.Data.Transaction.AmountInCents = 1
	if VerifyEventChecksum(ev, secret) {
		t.Error("tampered amount accepted")
	}

	ev = signedEvent(secret)
	if VerifyEventChecksum(ev, "wrong_secret") {
		t.Error("wrong secret accepted")
	}

	ev = signedEvent(secret)
	ev.Signature.Checksum = ""
	if VerifyEventChecksum(ev, secret) {
		t.Error("empty checksum accepted")
	}
}
