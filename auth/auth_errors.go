package auth

// Messages reported in Result.Error when the backend did not provide one
const (
	LoginFailedMsg        = "Login failed"
	SignupFailedMsg       = "Signup failed"
	LogoutFailedMsg       = "Logout failed"
	ForgotPasswordMsg     = "Failed to send reset email"
	ResetPasswordMsg      = "Failed to reset password"
	VerifyEmailFailedMsg  = "Email verification failed"
	ResendFailedMsg       = "Failed to resend verification"
	ChangePasswordMsg     = "Failed to change password"
	NoUserEmailMsg        = "No user email found"
	NoUserMsg             = "No user logged in"
	IncompleteResponseMsg = "Incomplete response from server"
)
