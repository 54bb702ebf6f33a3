// Package asaas is a minimal client for the Asaas billing API, covering
// customer lookup/creation and charge management.
package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Billing types accepted by the payments endpoint.
const (
	BillingTypePix    = "PIX"
	BillingTypeBoleto = "BOLETO"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Keys start with "$"; shells and .env files tend to eat it.
		apiKey: strings.TrimSpace(apiKey),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Customer is an Asaas billing customer.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CpfCnpj string `json:"cpfCnpj"`
}

// CustomerRequest creates a billing customer.
type CustomerRequest struct {
	Name              string `json:"name"`
	CpfCnpj           string `json:"cpfCnpj"`
	Email             string `json:"email,omitempty"`
	MobilePhone       string `json:"mobilePhone,omitempty"`
	PostalCode        string `json:"postalCode,omitempty"`
	Address           string `json:"address,omitempty"`
	AddressNumber     string `json:"addressNumber,omitempty"`
	Province          string `json:"province,omitempty"`
	ExternalReference string `json:"externalReference,omitempty"`
}

// PaymentRequest creates a charge.
type PaymentRequest struct {
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"` // "YYYY-MM-DD"
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
}

// Payment is a charge as returned by the API.
type Payment struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	BillingType string  `json:"billingType"`
	Value       float64 `json:"value"`
	DueDate     string  `json:"dueDate"`
	InvoiceURL  string  `json:"invoiceUrl"`
	BankSlipURL string  `json:"bankSlipUrl"`
}

type apiError struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// FindCustomerByDocument looks up a customer by CPF/CNPJ. Returns nil when
// no customer matches.
func (c *Client) FindCustomerByDocument(ctx context.Context, document string) (*Customer, error) {
	var result struct {
		Data []Customer `json:"data"`
	}
	path := "/customers?cpfCnpj=" + url.QueryEscape(document)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}

func (c *Client) CreateCustomer(ctx context.Context, req *CustomerRequest) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodPost, "/customers", req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) CreatePayment(ctx context.Context, req *PaymentRequest) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodPost, "/payments", req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(id), nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("asaas request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read asaas response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("asaas %s %s: %s (%s)",
				method, path, apiErr.Errors[0].Description, apiErr.Errors[0].Code)
		}
		return fmt.Errorf("asaas %s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode asaas response: %w", err)
		}
	}
	return nil
}
