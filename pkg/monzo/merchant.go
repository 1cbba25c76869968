package monzo

import (
	"bytes"
	"encoding/json"
)

// Merchant is the merchant a transaction was made at. Listing endpoints
// return only the id unless the merchant is expanded, in which case every
// descriptive field may be present.
type Merchant struct {
	ID              string            `json:"id"`
	Address         *MerchantAddress  `json:"address,omitempty"`
	Created         *Timestamp        `json:"created,omitempty"`
	GroupID         string            `json:"group_id,omitempty"`
	Logo            string            `json:"logo,omitempty"`
	Emoji           string            `json:"emoji,omitempty"`
	Name            string            `json:"name,omitempty"`
	Category        string            `json:"category,omitempty"`
	Atm             *bool             `json:"atm,omitempty"`
	Online          *bool             `json:"online,omitempty"`
	DisableFeedback bool              `json:"disable_feedback,omitempty"`
	Metadata        *MerchantMetadata `json:"metadata,omitempty"`
}

// IsEmpty reports whether the merchant is a bare reference: the id is set
// and no descriptive field is. A merchant without an id is never empty.
func (m *Merchant) IsEmpty() bool {
	return m.ID != "" &&
		m.Address == nil &&
		m.Created == nil &&
		m.GroupID == "" &&
		m.Logo == "" &&
		m.Emoji == "" &&
		m.Name == "" &&
		m.Category == "" &&
		m.Atm == nil &&
		m.Online == nil
}

// MerchantAddress is the location of a merchant.
type MerchantAddress struct {
	Address        string  `json:"address"`
	City           string  `json:"city"`
	Country        string  `json:"country"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Postcode       string  `json:"postcode"`
	Region         string  `json:"region"`
	Formatted      string  `json:"formatted,omitempty"`
	ShortFormatted string  `json:"short_formatted,omitempty"`
	ZoomLevel      string  `json:"zoom_level,omitempty"`
	Approximate    *bool   `json:"approximate,omitempty"`
}

// MerchantMetadata carries third-party enrichment for a merchant.
type MerchantMetadata struct {
	CreatedForTransaction  string `json:"created_for_transaction,omitempty"`
	EnrichedFromSettlement string `json:"enriched_from_settlement,omitempty"`
	FoursquareCategory     string `json:"foursquare_category,omitempty"`
	FoursquareCategoryIcon string `json:"foursquare_category_icon,omitempty"`
	FoursquareID           string `json:"foursquare_id,omitempty"`
	FoursquareWebsite      string `json:"foursquare_website,omitempty"`
	GooglePlacesIcon       string `json:"google_places_icon,omitempty"`
	GooglePlacesID         string `json:"google_places_id,omitempty"`
	GooglePlacesName       string `json:"google_places_name,omitempty"`
	SuggestedName          string `json:"suggested_name,omitempty"`
	SuggestedTags          string `json:"suggested_tags,omitempty"`
	TwitterID              string `json:"twitter_id,omitempty"`
	Website                string `json:"website,omitempty"`
}

// decodeMerchant resolves the polymorphic merchant field:
//
//	missing / null        -> nil
//	"merch_123"           -> &Merchant{ID: "merch_123"}
//	{"id": ..., ...}      -> fully decoded Merchant
//	number, bool, array   -> nil, no error
//
// Encoding is not symmetric: a Merchant is always written back as an object.
func decodeMerchant(raw json.RawMessage) (*Merchant, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, err
		}
		return &Merchant{ID: id}, nil
	case '{':
		var m Merchant
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		return &m, nil
	default:
		return nil, nil
	}
}
