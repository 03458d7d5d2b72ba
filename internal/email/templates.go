package email

import "fmt"

// Subject lines and bodies for billing lifecycle notifications. Kept as plain
// formatted strings; a template engine is overkill for three messages.

func PaymentFailedSubject() string {
	return "Action required: payment failed"
}

func PaymentFailedBody(orgName string) string {
	return fmt.Sprintf(
		"<p>Hi,</p><p>The latest payment for <strong>%s</strong> failed. "+
			"Please update your payment method to keep your workspace active.</p>",
		orgName)
}

func SubscriptionCanceledSubject() string {
	return "Your subscription has been canceled"
}

func SubscriptionCanceledBody(orgName string) string {
	return fmt.Sprintf(
		"<p>Hi,</p><p>The subscription for <strong>%s</strong> has ended. "+
			"Your content is preserved and you can resubscribe at any time.</p>",
		orgName)
}

func SubscriptionActiveSubject() string {
	return "Your subscription is active"
}

func SubscriptionActiveBody(orgName string) string {
	return fmt.Sprintf(
		"<p>Hi,</p><p>The subscription for <strong>%s</strong> is now active. "+
			"Welcome aboard!</p>",
		orgName)
}
