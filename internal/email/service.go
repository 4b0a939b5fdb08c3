package email

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/shopspring/decimal"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service handles email sending via SMTP
type Service struct {
	host     string
	port     string
	from     string
	sendMail sendFunc
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host:     host,
		port:     port,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

// SendOrderConfirmation sends the order confirmation email
func (s *Service) SendOrderConfirmation(to, name string, orderID int64, total decimal.Decimal, items []OrderItem) error {
	body, err := BuildOrderConfirmationBody(OrderConfirmation{
		Name:    name,
		OrderID: orderID,
		Items:   items,
		Total:   total,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Your Finstinct order #%d", orderID)
	return s.send(to, subject, body)
}

// SendPaymentReceipt sends the receipt for a verified payment
func (s *Service) SendPaymentReceipt(to, name string, orderID int64, sessionID string) error {
	body, err := BuildPaymentReceiptBody(PaymentReceipt{
		Name:      name,
		OrderID:   orderID,
		SessionID: sessionID,
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Payment received for order #%d", orderID)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return s.sendMail(addr, nil, s.from, []string{to}, msg.Bytes())
}
