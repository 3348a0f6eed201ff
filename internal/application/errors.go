package application

import "errors"

// Messages match what clients of the clinic API already display.
var (
	ErrDoctorNotFound  = errors.New("User not Found")
	ErrBadCredentials  = errors.New("Credentials are Incorrect")
	ErrNoDepartment    = errors.New("No department was specified")
	ErrNoCreateData    = errors.New("No data passed in the request body")
	ErrNoUpdateData    = errors.New("No data to update the doctor with")
	ErrNothingToDelete = errors.New("No doctor was found to delete")
	ErrEmailRequired   = errors.New("email is required")
	ErrNameRequired    = errors.New("fname and lname are required when no password is given")
	ErrDuplicateEmail  = errors.New("A doctor with this email already exists")
	ErrImageUpload     = errors.New("failed to upload image")

	ErrPatientRequired = errors.New("A patient reference is required")
	ErrNoPatient       = errors.New("No patient was specified")
	ErrRecordNotFound  = errors.New("No medical record was found")
	ErrNoComment       = errors.New("No comment was passed in the request body")
)

// Kind classifies service errors for transport mapping.
type Kind int

const (
	KindStoreFailure Kind = iota
	KindNotFound
	KindUnauthorized
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindUnauthorized:
		return "Unauthorized"
	case KindInvalidInput:
		return "InvalidInput"
	default:
		return "StoreFailure"
	}
}

// KindOf returns the taxonomy bucket of err. Anything unrecognised is a store failure.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrDoctorNotFound), errors.Is(err, ErrNoDepartment),
		errors.Is(err, ErrNoPatient), errors.Is(err, ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, ErrBadCredentials):
		return KindUnauthorized
	case errors.Is(err, ErrNoCreateData), errors.Is(err, ErrNoUpdateData),
		errors.Is(err, ErrNothingToDelete), errors.Is(err, ErrEmailRequired),
		errors.Is(err, ErrNameRequired), errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrPatientRequired), errors.Is(err, ErrNoComment):
		return KindInvalidInput
	default:
		return KindStoreFailure
	}
}
