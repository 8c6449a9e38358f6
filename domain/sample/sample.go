package sample

import (
	"fmt"
	"strings"

	"samplewms/domain/core"
)

// Sample is one inventory item tracked for live-commerce selection
type Sample struct {
	ID        core.SampleID `json:"id"`
	Name      string        `json:"name"`
	BrandName string        `json:"brand_name"`
	ImageURL  string        `json:"image_url"`
	Category  Category      `json:"category"`
	EntryDate Date          `json:"entry_date"`

	// Warehouse
	LocationCode   string `json:"location_code"` // shelf-row-bin, e.g. A-01-02
	StockQuantity  int    `json:"stock_quantity"`
	TrackingNumber string `json:"tracking_number,omitempty"`

	// Live stream
	Price          float64    `json:"price"`
	CommissionRate float64    `json:"commission_rate"` // 20 means 20%
	Mechanism      string     `json:"mechanism"`
	Platforms      []Platform `json:"platform"`
	SelectionCount int        `json:"selection_count"`
	Specs          string     `json:"specs"`

	// Business and merchant
	BusinessContact    string   `json:"business_contact"`
	MerchantContact    string   `json:"merchant_contact"`
	MerchantPhone      string   `json:"merchant_phone"`
	ProcurementPrice   *float64 `json:"procurement_price,omitempty"`
	IncludeShippingFee bool     `json:"include_shipping_fee"`
	IsFreeShipping     bool     `json:"is_free_shipping"`
	AssistantAnchor    string   `json:"assistant_anchor"`

	Remarks      string   `json:"remarks,omitempty"`
	RemarkImages []string `json:"remark_images,omitempty"`
}

// Validate applies the acceptance rule shared by the form and the importer
func (s *Sample) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(s.LocationCode) == "" {
		return fmt.Errorf("location code is required")
	}
	return nil
}

// Normalize folds out-of-enumeration values onto their defaults
func (s *Sample) Normalize() {
	if !s.Category.Valid() {
		s.Category = CategoryOther
	}
	kept := s.Platforms[:0:0]
	seen := make(map[Platform]bool, len(s.Platforms))
	for _, p := range s.Platforms {
		if p.Valid() && !seen[p] {
			kept = append(kept, p)
			seen[p] = true
		}
	}
	if len(kept) == 0 {
		kept = []Platform{PlatformOther}
	}
	s.Platforms = kept
	if s.StockQuantity < 0 {
		s.StockQuantity = 0
	}
	if s.SelectionCount < 0 {
		s.SelectionCount = 0
	}
}

// Clone returns a deep copy
func (s Sample) Clone() Sample {
	out := s
	if s.Platforms != nil {
		out.Platforms = append([]Platform(nil), s.Platforms...)
	}
	if s.RemarkImages != nil {
		out.RemarkImages = append([]string(nil), s.RemarkImages...)
	}
	if s.ProcurementPrice != nil {
		v := *s.ProcurementPrice
		out.ProcurementPrice = &v
	}
	return out
}

// HasPlatform reports whether p is in the sample's platform set
func (s *Sample) HasPlatform(p Platform) bool {
	for _, sp := range s.Platforms {
		if sp == p {
			return true
		}
	}
	return false
}
