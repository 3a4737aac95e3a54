package types

// ProfileRequest is the body of register, create and replace calls.
type ProfileRequest struct {
	UserID            string   `json:"user_id" validate:"required,max=128"`
	Age               *int     `json:"age" validate:"required,gte=0,lte=150"`
	Gender            string   `json:"gender" validate:"required,max=32"`
	Weight            *float64 `json:"weight" validate:"omitempty,gt=0"`
	Height            *float64 `json:"height" validate:"omitempty,gt=0"`
	Allergies         []string `json:"allergies" validate:"dive,required"`
	MedicalConditions []string `json:"medical_conditions" validate:"dive,required"`
	// Password is optional; profiles registered without one log in by
	// identifier alone.
	Password string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// LoginRequest is the JSON form of a login call. The identifier may also be
// passed as the user_id query parameter.
type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}
