package responses

type CheckoutSession struct {
	SessionURL string  `json:"sessionUrl"`
	Total      float64 `json:"total"`
	Tax        float64 `json:"tax"`
}

// WebhookAck is returned verbatim to the ledger.
type WebhookAck struct {
	Received bool        `json:"received"`
	Data     interface{} `json:"data,omitempty"`
}

type HealthCheck struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}
