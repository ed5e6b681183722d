package registration

// FormData backs the public registration form. Errors are keyed by input
// name.
type FormData struct {
	Name           string
	Mobile         string
	TournamentCode string
	Errors         map[string]string
	FormError      string
	MaxUploadMB    int64
}

func (d FormData) FieldError(field string) string {
	if d.Errors == nil {
		return ""
	}
	return d.Errors[field]
}

type SuccessData struct {
	Name     string
	ImageURL string
}

type OwnerData struct {
	Open        bool
	PlayerCount int64
	Deadline    string
}
