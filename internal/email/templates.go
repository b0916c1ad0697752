package email

import "fmt"

// Message bodies for the side-channel flows. The OTP value travels only
// through these, never through an API response.

func OTPBody(name, code string) (subject, body string) {
	subject = "Your verification code"
	body = fmt.Sprintf(
		"Hi %s,\n\nYour one-time verification code is %s. It expires in 10 minutes.\n\nIf you did not request this, you can ignore this email.",
		name, code,
	)
	return subject, body
}

func PasswordResetBody(name, code string) (subject, body string) {
	subject = "Password reset code"
	body = fmt.Sprintf(
		"Hi %s,\n\nUse code %s to reset your password. It expires in 10 minutes.",
		name, code,
	)
	return subject, body
}

func ApprovalBody(name string, approved bool) (subject, body string) {
	if approved {
		subject = "Your account has been approved"
		body = fmt.Sprintf("Hi %s,\n\nYour employer account has been approved. You can now post jobs.", name)
	} else {
		subject = "Your account application"
		body = fmt.Sprintf("Hi %s,\n\nUnfortunately your employer account application was rejected. Contact support for details.", name)
	}
	return subject, body
}
