package email

import (
	"fmt"
	"strings"
)

type Message struct {
	Subject string
	Body    string
	// From overrides the configured sender address when set.
	From string
}

type SwapOfferDetails struct {
	Division       string
	RequestingTeam string
	OfferingTeam   string
	Date           string
	TimeRange      string
	FieldKey       string
	Note           string
}

type SwapResolvedDetails struct {
	Division       string
	RequestingTeam string
	OfferingTeam   string
	Date           string
	TimeRange      string
	FieldKey       string
	Accepted       bool
}

type SwapReminderDetails struct {
	Division       string
	RequestingTeam string
	Date           string
	TimeRange      string
	FieldKey       string
	PendingHours   int
}

// BuildSwapOfferEmail notifies the offering team that another team wants
// their open slot.
func BuildSwapOfferEmail(details SwapOfferDetails) Message {
	requesting := orTBD(details.RequestingTeam)
	subject := fmt.Sprintf("Field Time Request from %s", requesting)
	if division := strings.TrimSpace(details.Division); division != "" {
		subject = fmt.Sprintf("%s - %s", subject, division)
	}

	lines := []string{
		fmt.Sprintf("%s has asked to take your open field time.", requesting),
		"",
		fmt.Sprintf("Division: %s", orTBD(details.Division)),
		fmt.Sprintf("Date: %s", orTBD(details.Date)),
		fmt.Sprintf("Time: %s", orTBD(details.TimeRange)),
		fmt.Sprintf("Field: %s", orTBD(details.FieldKey)),
	}
	if note := strings.TrimSpace(details.Note); note != "" {
		lines = append(lines, fmt.Sprintf("Note: %s", note))
	}
	lines = append(lines, "", "Accept or decline the request from the league schedule page.")

	return Message{
		Subject: subject,
		Body:    strings.Join(lines, "\n"),
	}
}

// BuildSwapResolvedEmail notifies the requesting team of the outcome.
func BuildSwapResolvedEmail(details SwapResolvedDetails) Message {
	outcome := "Declined"
	opening := fmt.Sprintf("%s has declined your field time request.", orTBD(details.OfferingTeam))
	if details.Accepted {
		outcome = "Accepted"
		opening = fmt.Sprintf("%s has accepted your field time request.", orTBD(details.OfferingTeam))
	}

	subject := fmt.Sprintf("Field Time Request %s", outcome)
	if division := strings.TrimSpace(details.Division); division != "" {
		subject = fmt.Sprintf("%s - %s", subject, division)
	}

	lines := []string{
		opening,
		"",
		fmt.Sprintf("Division: %s", orTBD(details.Division)),
		fmt.Sprintf("Date: %s", orTBD(details.Date)),
		fmt.Sprintf("Time: %s", orTBD(details.TimeRange)),
		fmt.Sprintf("Field: %s", orTBD(details.FieldKey)),
	}

	return Message{
		Subject: subject,
		Body:    strings.Join(lines, "\n"),
	}
}

// BuildSwapReminderEmail nudges the offering team about a request that has
// been sitting unanswered.
func BuildSwapReminderEmail(details SwapReminderDetails) Message {
	subject := "Pending Field Time Request"
	if division := strings.TrimSpace(details.Division); division != "" {
		subject = fmt.Sprintf("%s - %s", subject, division)
	}

	lines := []string{
		fmt.Sprintf("A field time request from %s is still waiting for your answer.", orTBD(details.RequestingTeam)),
		"",
		fmt.Sprintf("Division: %s", orTBD(details.Division)),
		fmt.Sprintf("Date: %s", orTBD(details.Date)),
		fmt.Sprintf("Time: %s", orTBD(details.TimeRange)),
		fmt.Sprintf("Field: %s", orTBD(details.FieldKey)),
	}
	if details.PendingHours > 0 {
		lines = append(lines, fmt.Sprintf("Pending for: %d hours", details.PendingHours))
	}
	lines = append(lines, "", "Unanswered requests expire before the game date.")

	return Message{
		Subject: subject,
		Body:    strings.Join(lines, "\n"),
	}
}

func orTBD(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "TBD"
	}
	return value
}
