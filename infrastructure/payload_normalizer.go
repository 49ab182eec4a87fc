package infrastructure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

var ErrMalformedPayload = errors.New("malformed affiliate payload")

// PayloadNormalizer extracts (username, wagered) pairs from platform-specific JSON.
// Each field is a gjson path, so {"affiliates":[{"username","wagered_amount"}]} and
// {"data":[{"username","weightedWagered"}]} are handled by configuration alone.
type PayloadNormalizer struct {
	listPath      string
	usernameField string
	wageredField  string
}

// NewPayloadNormalizer creates a normalizer for the given gjson paths
func NewPayloadNormalizer(listPath, usernameField, wageredField string) *PayloadNormalizer {
	return &PayloadNormalizer{
		listPath:      listPath,
		usernameField: usernameField,
		wageredField:  wageredField,
	}
}

// Normalize parses body. A body that is not JSON or lacks the entry list is malformed;
// individual rows with an unusable username or amount are skipped.
func (n *PayloadNormalizer) Normalize(body []byte) ([]entities.WagerEntry, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedPayload)
	}

	list := gjson.GetBytes(body, n.listPath)
	if !list.Exists() || !list.IsArray() {
		return nil, fmt.Errorf("%w: %q is not a list", ErrMalformedPayload, n.listPath)
	}

	rows := list.Array()
	entries := make([]entities.WagerEntry, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		username := strings.TrimSpace(row.Get(n.usernameField).String())
		amount, ok := parseAmount(row.Get(n.wageredField))
		if username == "" || !ok {
			skipped++
			continue
		}
		entries = append(entries, entities.WagerEntry{Username: username, Wagered: amount})
	}

	if skipped > 0 {
		log.WithFields(log.Fields{
			"skipped": skipped,
			"kept":    len(entries),
		}).Warn("Skipped affiliate rows without a username or amount")
	}
	return entries, nil
}

func parseAmount(value gjson.Result) (decimal.Decimal, bool) {
	switch value.Type {
	case gjson.Number:
		amount, err := decimal.NewFromString(value.Raw)
		return amount, err == nil
	case gjson.String:
		amount, err := decimal.NewFromString(strings.TrimSpace(value.Str))
		return amount, err == nil
	default:
		return decimal.Zero, false
	}
}
