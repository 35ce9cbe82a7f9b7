package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// LineSummary is one order line as shown in the confirmation mail
type LineSummary struct {
	PizzaName string
	SizeName  string
	Quantity  int
	Subtotal  decimal.Decimal
}

// OrderConfirmation is the payload of an order-confirmation message
type OrderConfirmation struct {
	To              string
	CustomerName    string
	OrderID         uint
	Lines           []LineSummary
	Total           decimal.Decimal
	DeliveryAddress string
}

// InvoiceDelivery is the payload of an invoice-delivery message with the
// rendered document attached
type InvoiceDelivery struct {
	To            string
	CustomerName  string
	InvoiceNumber string
	OrderID       uint
	Total         decimal.Decimal
	PDF           []byte
}

// Sender delivers composed notification messages
type Sender interface {
	// SendOrderConfirmation sends the order-confirmation mail
	SendOrderConfirmation(msg OrderConfirmation) error
	// SendInvoice sends the invoice mail with the PDF attached
	SendInvoice(msg InvoiceDelivery) error
}

// SMTPMailer sends notification mail over SMTP
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer for the given SMTP server
func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendOrderConfirmation(msg OrderConfirmation) error {
	var body strings.Builder
	fmt.Fprintf(&body, "Hola %s,\n\n", msg.CustomerName)
	fmt.Fprintf(&body, "Hemos recibido tu pedido #%d:\n\n", msg.OrderID)
	for _, line := range msg.Lines {
		fmt.Fprintf(&body, "  %dx %s (%s) - %s\n", line.Quantity, line.PizzaName, line.SizeName, line.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(&body, "\nTotal: %s\n", msg.Total.StringFixed(2))
	if msg.DeliveryAddress != "" {
		fmt.Fprintf(&body, "Entrega en: %s\n", msg.DeliveryAddress)
	}
	fmt.Fprintf(&body, "\nGracias por tu compra,\nPizza Delicia")

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", fmt.Sprintf("Confirmación de pedido #%d", msg.OrderID))
	mail.SetBody("text/plain", body.String())

	return m.dialer.DialAndSend(mail)
}

func (m *SMTPMailer) SendInvoice(msg InvoiceDelivery) error {
	var body strings.Builder
	fmt.Fprintf(&body, "Hola %s,\n\n", msg.CustomerName)
	fmt.Fprintf(&body, "Adjuntamos la factura %s de tu pedido #%d por un total de %s.\n",
		msg.InvoiceNumber, msg.OrderID, msg.Total.StringFixed(2))
	fmt.Fprintf(&body, "\nGracias por tu compra,\nPizza Delicia")

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", fmt.Sprintf("Factura %s", msg.InvoiceNumber))
	mail.SetBody("text/plain", body.String())
	mail.Attach(fmt.Sprintf("%s.pdf", msg.InvoiceNumber),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(msg.PDF)
			return err
		}))

	return m.dialer.DialAndSend(mail)
}
