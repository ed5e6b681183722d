package auth

type LoginFormData struct {
	Error string
	// Locked disables the form while the client is locked out.
	Locked bool
}
