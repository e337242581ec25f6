// Package mail sends transactional email. Delivery is best-effort and
// asynchronous; nothing in the request path blocks on the provider.
package mail

type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
}

type Mailer interface {
	Send(msg Message)
}
