// Package transfer implements the card import/export file format: a JSON
// document carrying a format version and the full card collection.
package transfer

import (
	"encoding/json"

	"github.com/allisson/cardbook/internal/card/domain"
	apperrors "github.com/allisson/cardbook/internal/errors"
)

// FormatVersion is the current document version. Readers accept only this
// version; there is no migration path from hypothetical older formats.
const FormatVersion = 1

// Document is the on-disk shape of an exported collection.
type Document struct {
	Version int           `json:"version"`
	Cards   []domain.Card `json:"cards"`
}

// ErrMalformedDocument is returned for documents that parse as JSON but do
// not carry a cards array. The import is all-or-nothing at the parse stage.
var ErrMalformedDocument = apperrors.Wrap(apperrors.ErrInvalidInput, "import document has no cards array")

// Export serializes the collection into a versioned document.
func Export(cards []domain.Card) ([]byte, error) {
	doc := Document{Version: FormatVersion, Cards: cards}
	if doc.Cards == nil {
		doc.Cards = []domain.Card{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode export document")
	}
	return data, nil
}

// Import parses a document and returns its cards. Documents that are not
// valid JSON, carry an unsupported version, or lack a cards array are
// rejected whole; there is no partial import at this stage.
func Import(data []byte) ([]domain.Card, error) {
	var raw struct {
		Version int              `json:"version"`
		Cards   *json.RawMessage `json:"cards"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "import document is not valid JSON: %v", err)
	}
	if raw.Cards == nil {
		return nil, ErrMalformedDocument
	}
	if raw.Version != FormatVersion {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported import document version %d", raw.Version)
	}

	var cards []domain.Card
	if err := json.Unmarshal(*raw.Cards, &cards); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "import document cards are malformed: %v", err)
	}
	return cards, nil
}
