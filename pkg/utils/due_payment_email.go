package utils

import (
	"fmt"
)

// SendDuePaymentReminderEmail notifies a user about a planned payment
// coming due. amount is the formatted display amount.
func SendDuePaymentReminderEmail(to, firstName, description, amount, dueDate string) error {
	subject := fmt.Sprintf("Upcoming payment: %s due %s", description, dueDate)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Payment Reminder</title>
	</head>
	<body style="font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; color: #333;">
		<div style="max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; border-top: 5px solid #2a7de1; padding: 24px;">
			<h2 style="margin-top: 0;">Hi %s,</h2>
			<p>Your planned payment <strong>%s</strong> of <strong>%s</strong> is due on <strong>%s</strong>.</p>
			<p>If it is set to auto-debit, it will be recorded automatically on the due date. Otherwise, remember to execute or cancel it.</p>
			<p style="color: #888; font-size: 12px;">You are receiving this because the payment is still planned.</p>
		</div>
	</body>
	</html>`, firstName, description, amount, dueDate)

	return SendEmail(to, subject, body)
}
