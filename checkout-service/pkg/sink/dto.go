package sink

// Envelope wraps every api-gateway response body.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// MessageRequest is a contact or order message. Date and Time default to the
// server clock when empty.
type MessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Message string `json:"message"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
}

type MessageRecord struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Status  string `json:"status"`
	Read    bool   `json:"read"`
}

type LineItem struct {
	UnitAmountMinorUnits int64  `json:"unitAmountMinorUnits"`
	ProductName          string `json:"productName"`
	ProductDescription   string `json:"productDescription,omitempty"`
	Quantity             int64  `json:"quantity"`
}

type CheckoutSessionRequest struct {
	LineItems     []LineItem `json:"lineItems"`
	CustomerEmail string     `json:"customerEmail"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	Message       string     `json:"message"`
}

type CheckoutSessionResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
	SessionID      string `json:"sessionId"`
	PublishableKey string `json:"publishableKey"`
	URL            string `json:"url,omitempty"`
}

type StripeConfig struct {
	PublishableKey string `json:"publishableKey"`
}

// IdempotencyKeyHeader carries one key per checkout submission.
const IdempotencyKeyHeader = "Idempotency-Key"
