package models

type EmailMessage struct {
	To          string
	CC          []string
	Subject     string
	Content     string
	HTMLContent string
}
