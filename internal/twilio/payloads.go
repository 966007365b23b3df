package twilio

// Account is the subset of account metadata the platform reads.
type Account struct {
	SID          string
	FriendlyName string
	Status       string
	Type         string
}

// IncomingPhoneNumber is one provisioned number on an account.
type IncomingPhoneNumber struct {
	SID          string
	PhoneNumber  string
	FriendlyName string
}

// SendMessageRequest carries one outbound submission. Addresses arrive
// already tagged with the whatsapp: scheme; the client never rewrites them.
type SendMessageRequest struct {
	From     string
	To       string
	Body     string
	MediaURL string
}

// Message is the created message resource.
type Message struct {
	SID    string
	Status string
	From   string
	To     string
}

type accountPayload struct {
	SID          string `json:"sid"`
	FriendlyName string `json:"friendly_name"`
	Status       string `json:"status"`
	Type         string `json:"type"`
}

type incomingPhoneNumberPayload struct {
	SID          string `json:"sid"`
	PhoneNumber  string `json:"phone_number"`
	FriendlyName string `json:"friendly_name"`
}

type incomingPhoneNumbersPayload struct {
	IncomingPhoneNumbers []incomingPhoneNumberPayload `json:"incoming_phone_numbers"`
}

type messagePayload struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	From   string `json:"from"`
	To     string `json:"to"`
}
