package templates

import "fmt"

// RenderInvitationExpiredEmail notifies a sender that their pending proposal
// aged out and was auto-declined
func RenderInvitationExpiredEmail(recipientName, counterpartyName string, ttlDays int) string {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour proposal to %s has been open for %d days without a response, so we have closed it on your behalf.\n\nYou are welcome to reach out again with a new proposal at any time.\n\nThe CollabStay Team",
		recipientName, counterpartyName, ttlDays,
	)
	return RenderGenericEmail("Your proposal has expired", body)
}
