package models

import "time"

// Product is a deliverable item. Fiscal fields mirror the Brazilian invoice
// requirements and are optional.
type Product struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Unit      string    `json:"unit"` // "KG" or "UN"
	CostPrice float64   `json:"cost_price"`
	NCM       string    `json:"ncm"`
	CSOSNCST  string    `json:"csosn_cst"`
	CFOP      string    `json:"cfop"`
	ICMSRate  float64   `json:"icms_rate"`
	IPIRate   float64   `json:"ipi_rate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
