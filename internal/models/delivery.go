package models

// LineItemRow is a delivery item joined with its delivery and lookup names,
// as consumed by the aggregator. unit_price is the value snapshotted at
// delivery time: a later change to a client's price list never rewrites
// history.
type LineItemRow struct {
	ClientID      int
	ProductID     int
	ProductName   string
	Quantity      float64
	UnitPrice     float64
	DeliveryID    int
	DeliveryDate  string // "YYYY-MM-DD"
	DelivererName string
}

// DeliveryProductInput is one product line in a delivery request.
type DeliveryProductInput struct {
	ProductID int     `json:"id"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
}

// ClientDeliveryInput groups the products delivered to one client.
type ClientDeliveryInput struct {
	ClientID int                    `json:"client_id"`
	Products []DeliveryProductInput `json:"products"`
}

// SaveDeliveryRequest creates or replaces a delivery's line items.
type SaveDeliveryRequest struct {
	DelivererID int                   `json:"deliverer_id"`
	Clients     []ClientDeliveryInput `json:"clients"`
}

// DeliveryClientGroup is a delivery's line items grouped per client for the
// delivery detail view.
type DeliveryClientGroup struct {
	ClientID   int                   `json:"client_id"`
	ClientName string                `json:"client_name"`
	Products   []DeliveryProductView `json:"products"`
}

// DeliveryProductView is one line of the delivery detail view.
type DeliveryProductView struct {
	ProductID int     `json:"id"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
}

// DeliveryDetails is one delivery with its items grouped by client.
type DeliveryDetails struct {
	ID         int                   `json:"id"`
	Date       string                `json:"date"`
	Deliveries []DeliveryClientGroup `json:"deliveries"`
}

// MonthTotal is one month's delivered total for a client.
type MonthTotal struct {
	Month string  `json:"month"` // "YYYY-MM"
	Total float64 `json:"total"`
}

// RecentDelivery is one row of the paginated recent-deliveries list.
type RecentDelivery struct {
	ID        int     `json:"id"`
	Date      string  `json:"date"` // "DD/MM/YYYY"
	Deliverer string  `json:"deliverer"`
	Total     float64 `json:"total"`
}

// RecentDeliveriesPage is a page of recent deliveries.
type RecentDeliveriesPage struct {
	Deliveries []RecentDelivery `json:"deliveries"`
	HasMore    bool             `json:"has_more"`
}
