// Package sms sends text messages through the Netgsm XML API.
package sms

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultEndpoint = "https://api.netgsm.com.tr/sms/send/xml"

var ErrNotConfigured = errors.New("sms sender is not configured")

type Service interface {
	Send(ctx context.Context, phone string, message string) error
}

type Config struct {
	Endpoint  string
	UserCode  string
	Password  string
	MsgHeader string
	Timeout   time.Duration
}

type netgsmClient struct {
	cfg    Config
	client *http.Client
}

func NewNetgsmService(cfg Config) Service {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &netgsmClient{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type cdata struct {
	Value string `xml:",cdata"`
}

type request struct {
	XMLName xml.Name `xml:"mainbody"`
	Header  struct {
		Company   string `xml:"company"`
		UserCode  string `xml:"usercode"`
		Password  string `xml:"password"`
		Type      string `xml:"type"`
		MsgHeader string `xml:"msgheader"`
	} `xml:"header"`
	Body struct {
		Msg cdata  `xml:"msg"`
		No  string `xml:"no"`
	} `xml:"body"`
}

type response struct {
	XMLName xml.Name `xml:"mainbody"`
	Code    string   `xml:"code"`
	JobID   string   `xml:"jobID"`
}

// NormalizePhone strips formatting and the Turkish country or trunk prefix,
// leaving the 5xxxxxxxxx form the API expects.
func NormalizePhone(phone string) string {
	phone = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, phone)
	if strings.HasPrefix(phone, "+90") {
		return phone[3:]
	}
	return strings.TrimPrefix(phone, "0")
}

func (c *netgsmClient) Send(ctx context.Context, phone string, message string) error {
	if c.cfg.UserCode == "" || c.cfg.Password == "" {
		return ErrNotConfigured
	}

	var req request
	req.Header.Company = "Netgsm"
	req.Header.UserCode = c.cfg.UserCode
	req.Header.Password = c.cfg.Password
	req.Header.Type = "1:n"
	req.Header.MsgHeader = c.cfg.MsgHeader
	req.Body.Msg = cdata{Value: message}
	req.Body.No = NormalizePhone(phone)

	payload, err := xml.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode sms request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "text/xml")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read sms response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	code := responseCode(body)
	if !accepted(code) {
		return fmt.Errorf("sms gateway rejected message: code %q", code)
	}
	return nil
}

// responseCode reads the result code from an XML reply, or the first token
// of a plain text one ("00 123456789").
func responseCode(body []byte) string {
	var r response
	if err := xml.Unmarshal(body, &r); err == nil && r.Code != "" {
		return strings.TrimSpace(r.Code)
	}
	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func accepted(code string) bool {
	switch code {
	case "00", "01", "02":
		return true
	}
	return false
}
