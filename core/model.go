package core

import "time"

type Event struct {
	Id          string    `json:"id,omitempty"`
	Title       string    `json:"title,omitempty"       validate:"required,max=200"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time,omitempty"  validate:"required"`
	EndTime     time.Time `json:"end_time,omitempty"    validate:"required"`
	OwnerId     string    `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// IsMultiDay reports whether the event starts and ends on different calendar dates in loc.
func (e Event) IsMultiDay(loc *time.Location) bool {
	return !DateOf(e.StartTime, loc).Equal(DateOf(e.EndTime, loc))
}

// DurationDays is the inclusive number of calendar dates the event touches.
func (e Event) DurationDays(loc *time.Location) int {
	return daysBetween(DateOf(e.StartTime, loc), DateOf(e.EndTime, loc)) + 1
}

// OccursOn takes date as a calendar date; its clock part is ignored.
func (e Event) OccursOn(date time.Time, loc *time.Location) bool {
	day := civilDate(date)

	return !DateOf(e.StartTime, loc).After(day) && !DateOf(e.EndTime, loc).Before(day)
}

type User struct {
	Id           string    `json:"id,omitempty"`
	Rut          string    `json:"rut,omitempty"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// Identity is the caller of an operation. The zero value is the anonymous caller.
type Identity struct {
	UserId    string `json:"user_id,omitempty"`
	Rut       string `json:"rut,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
	SessionId string `json:"-"`
}

func (i Identity) IsAuthenticated() bool {
	return i.UserId != ""
}

type RegistrationForm struct {
	Rut       string `json:"rut"       form:"rut"       validate:"required,max=12"`
	Password1 string `json:"password1" form:"password1" validate:"required,min=8"`
	Password2 string `json:"password2" form:"password2" validate:"required,eqfield=Password1"`
}

type LoginForm struct {
	Rut      string `json:"rut"      form:"rut"      validate:"required,max=12"`
	Password string `json:"password" form:"password" validate:"required"`
	Next     string `json:"next"     form:"next"`
}
