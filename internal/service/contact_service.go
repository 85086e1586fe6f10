package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	ErrContactWebhookMissing = errors.New("contact webhook url is not configured")
	ErrContactRelayRejected  = errors.New("contact relay rejected the submission")
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ContactInput carries the four fields of the public contact form.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

type contactPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ContactService validates contact submissions and relays them to the
// spreadsheet webhook. Submissions are never stored locally.
type ContactService struct {
	webhookURL string
	http       httpDoer
	now        func() time.Time
}

// NewContactService creates a ContactService targeting the given webhook.
func NewContactService(webhookURL string) *ContactService {
	return &ContactService{
		webhookURL: strings.TrimSpace(webhookURL),
		http:       &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
}

// SetHTTPClient swaps the transport, mainly for tests.
func (s *ContactService) SetHTTPClient(client httpDoer) {
	if client == nil {
		s.http = &http.Client{Timeout: 15 * time.Second}
		return
	}
	s.http = client
}

// Validate checks the submission before any network call. It returns one
// message per offending field, keyed by field name; an empty map means the
// input is valid.
func (s *ContactService) Validate(input ContactInput) map[string]string {
	fieldErrors := make(map[string]string)

	if strings.TrimSpace(input.Name) == "" {
		fieldErrors["name"] = "Por favor, preencha seu nome."
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		fieldErrors["email"] = "Por favor, preencha seu e-mail."
	} else if !validEmail(email) {
		fieldErrors["email"] = "Por favor, insira um e-mail válido."
	}

	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		fieldErrors["phone"] = "Por favor, preencha seu telefone."
	} else if countDigits(phone) < 10 {
		fieldErrors["phone"] = "Por favor, insira um telefone válido."
	}

	if strings.TrimSpace(input.Message) == "" {
		fieldErrors["message"] = "Por favor, escreva sua mensagem."
	}

	return fieldErrors
}

// Send relays a validated submission to the webhook. A non-2xx response is
// reported as ErrContactRelayRejected so the caller can distinguish
// "dispatched" from "confirmed".
func (s *ContactService) Send(ctx context.Context, input ContactInput) error {
	if s.webhookURL == "" {
		return ErrContactWebhookMissing
	}

	payload := contactPayload{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Message:   strings.TrimSpace(input.Message),
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrContactRelayRejected, resp.StatusCode)
	}

	return nil
}

// validEmail requires a single "@" with a dot somewhere in the domain part.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}

	return !strings.ContainsAny(email, " \t")
}

func countDigits(value string) int {
	count := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}
