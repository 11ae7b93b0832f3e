package entity

// Submission is a custom tea request as filled in on the website form.
type Submission struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	DreamTea      string
	Quantity      string
	Lang          string
	Honeypot      string
}

// Spam reports whether the hidden honeypot field was filled in.
func (s Submission) Spam() bool {
	return s.Honeypot != ""
}

// Message is the localized email composed from a Submission.
type Message struct {
	// Lang is the resolved locale code.
	Lang    string
	Subject string
	Text    string
	// ReplyTo is the customer address replies go to.
	ReplyTo string
}
