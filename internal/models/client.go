package models

import "time"

// Client types follow the Brazilian taxpayer classification.
const (
	ClientTypeIndividual   = "PF" // pessoa física (11-digit CPF)
	ClientTypeOrganization = "PJ" // pessoa jurídica (14-digit CNPJ)
)

// Client is a billed delivery customer.
type Client struct {
	ID              int       `json:"id"`
	Type            string    `json:"type"`
	Name            string    `json:"name"`
	RazaoSocial     string    `json:"razao_social"`
	Document        string    `json:"document"` // CPF or CNPJ
	IE              string    `json:"ie"`
	Email           string    `json:"email"`
	Whatsapp        string    `json:"whatsapp"`
	AddressZip      string    `json:"address_zip"`
	AddressStreet   string    `json:"address_street"`
	AddressNumber   string    `json:"address_number"`
	AddressDistrict string    `json:"address_district"`
	AddressCity     string    `json:"address_city"`
	AddressState    string    `json:"address_state"`
	DueDay          *int      `json:"due_day"`
	AsaasCustomerID string    `json:"asaas_customer_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DisplayName prefers the trade name, falling back to the legal name.
func (c *Client) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.RazaoSocial
}

// ClientProductPrice is one row of a client's negotiated price list.
type ClientProductPrice struct {
	ClientID  int     `json:"client_id"`
	ProductID int     `json:"product_id"`
	Price     float64 `json:"price"`
}

// ScheduleEntry is one recurring weekly delivery slot for a client.
type ScheduleEntry struct {
	ClientID  int     `json:"client_id"`
	DayOfWeek int     `json:"day_of_week"` // 0 = Sunday
	ProductID int     `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// SaveClientRequest carries the client fields plus the replace-all price list
// and weekly schedule.
type SaveClientRequest struct {
	Type            string               `json:"type"`
	Name            string               `json:"name"`
	RazaoSocial     string               `json:"razao_social"`
	Document        string               `json:"document"`
	IE              string               `json:"ie"`
	Email           string               `json:"email"`
	Whatsapp        string               `json:"whatsapp"`
	AddressZip      string               `json:"address_zip"`
	AddressStreet   string               `json:"address_street"`
	AddressNumber   string               `json:"address_number"`
	AddressDistrict string               `json:"address_district"`
	AddressCity     string               `json:"address_city"`
	AddressState    string               `json:"address_state"`
	DueDay          *int                 `json:"due_day"`
	Products        []ClientProductPrice `json:"products"`
	Schedule        []ScheduleEntry      `json:"schedule"`
}

// ClientWithPricing is the client detail view.
type ClientWithPricing struct {
	Client
	Products []ClientProductPrice `json:"products"`
	Schedule []ScheduleEntry      `json:"schedule"`
}
