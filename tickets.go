package storekeep

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/storekeep/storekeep-go/routes"
)

// TicketStatus encodes the lifecycle of a support ticket.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusAnswered TicketStatus = "answered"
	TicketStatusClosed   TicketStatus = "closed"
)

// Ticket is a customer support thread summary.
type Ticket struct {
	ID        string       `json:"id"`
	Subject   string       `json:"subject"`
	Customer  string       `json:"customer"`
	Status    TicketStatus `json:"status"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// TicketMessage is one entry in a ticket thread.
type TicketMessage struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	FromStaff bool      `json:"fromStaff"`
	SentAt    time.Time `json:"sentAt"`
}

type ticketListResponse struct {
	Tickets []Ticket `json:"tickets"`
}

type ticketThreadResponse struct {
	Ticket   Ticket          `json:"ticket"`
	Messages []TicketMessage `json:"messages"`
}

// TicketsClient provides methods to read and answer support tickets.
type TicketsClient struct {
	client *Client
}

// List returns tickets, optionally filtered by status.
func (c *TicketsClient) List(ctx context.Context, status TicketStatus) ([]Ticket, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("storekeep: tickets client not initialized")
	}
	path := routes.Tickets
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return nil, err
	}
	var payload ticketListResponse
	if err := decodeInto(resp, &payload); err != nil {
		return nil, err
	}
	return payload.Tickets, nil
}

// Thread retrieves a ticket with its message history.
func (c *TicketsClient) Thread(ctx context.Context, ticketID string) (Ticket, []TicketMessage, error) {
	if c == nil || c.client == nil {
		return Ticket{}, nil, fmt.Errorf("storekeep: tickets client not initialized")
	}
	if strings.TrimSpace(ticketID) == "" {
		return Ticket{}, nil, fmt.Errorf("storekeep: ticket id required")
	}
	req, err := c.client.newJSONRequest(ctx, http.MethodGet, routes.Tickets+"/"+url.PathEscape(ticketID), nil)
	if err != nil {
		return Ticket{}, nil, err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return Ticket{}, nil, err
	}
	var payload ticketThreadResponse
	if err := decodeInto(resp, &payload); err != nil {
		return Ticket{}, nil, err
	}
	return payload.Ticket, payload.Messages, nil
}

// Reply posts a staff reply to a ticket thread.
func (c *TicketsClient) Reply(ctx context.Context, ticketID, body string) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("storekeep: tickets client not initialized")
	}
	if strings.TrimSpace(ticketID) == "" {
		return fmt.Errorf("storekeep: ticket id required")
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("storekeep: reply body required")
	}
	payload := struct {
		Body string `json:"body"`
	}{Body: body}
	req, err := c.client.newJSONRequest(ctx, http.MethodPost, routes.Tickets+"/"+url.PathEscape(ticketID)+"/replies", payload)
	if err != nil {
		return err
	}
	resp, err := c.client.send(req)
	if err != nil {
		return err
	}
	return decodeInto(resp, nil)
}
