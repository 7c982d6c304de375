package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// Role is the permanent role of an account, derived from which profile row exists.
type Role string

const (
	RoleCaregiver Role = "caregiver"
	RoleMember    Role = "member"
)

// Valid reports whether r is one of the two supported roles.
func (r Role) Valid() bool {
	return r == RoleCaregiver || r == RoleMember
}

func (r Role) String() string {
	return string(r)
}

// DefaultAppointmentStatus is assigned when an appointment is created without a status.
const DefaultAppointmentStatus = "pending"

type Account struct {
	ID                 int64   `json:"user_id" db:"id"`
	Email              string  `json:"email" db:"email"`
	GivenName          string  `json:"given_name" db:"given_name"`
	Surname            string  `json:"surname" db:"surname"`
	City               *string `json:"city" db:"city"`
	PhoneNumber        *string `json:"phone_number" db:"phone_number"`
	ProfileDescription *string `json:"profile_description" db:"profile_description"`
	PasswordHash       string  `json:"-" db:"password_hash"`
	Updated            int64   `json:"-" db:"updated"`
}

type Caregiver struct {
	AccountID      int64    `json:"caregiver_user_id" db:"account_id"`
	Photo          *string  `json:"photo" db:"photo"`
	Gender         *string  `json:"gender" db:"gender"`
	CaregivingType *string  `json:"caregiving_type" db:"caregiving_type"`
	HourlyRate     *float64 `json:"hourly_rate" db:"hourly_rate"`

	// Account is attached by lookups that join the owning account.
	Account *Account `json:"-"`
}

type Member struct {
	AccountID            int64   `json:"member_user_id" db:"account_id"`
	HouseRules           *string `json:"house_rules" db:"house_rules"`
	DependentDescription *string `json:"dependent_description" db:"dependent_description"`

	Account *Account `json:"-"`
}

type Address struct {
	MemberID    int64   `json:"member_user_id" db:"member_id"`
	HouseNumber *string `json:"house_number" db:"house_number"`
	Street      *string `json:"street" db:"street"`
	Town        *string `json:"town" db:"town"`
}

type Job struct {
	ID                     int64   `json:"job_id" db:"id"`
	MemberID               int64   `json:"member_user_id" db:"member_id"`
	RequiredCaregivingType *string `json:"required_caregiving_type" db:"required_caregiving_type"`
	OtherRequirements      *string `json:"other_requirements" db:"other_requirements"`
	DatePosted             string  `json:"date_posted" db:"date_posted"`
}

type JobApplication struct {
	CaregiverID int64  `json:"caregiver_user_id" db:"caregiver_id"`
	JobID       int64  `json:"job_id" db:"job_id"`
	DateApplied string `json:"date_applied" db:"date_applied"`
}

type Appointment struct {
	ID              int64   `json:"appointment_id" db:"id"`
	CaregiverID     int64   `json:"caregiver_user_id" db:"caregiver_id"`
	MemberID        int64   `json:"member_user_id" db:"member_id"`
	AppointmentDate *string `json:"appointment_date" db:"appointment_date"`
	AppointmentTime *string `json:"appointment_time" db:"appointment_time"`
	WorkHours       *int    `json:"work_hours" db:"work_hours"`
	Status          string  `json:"status" db:"status"`
}

// Profile is the role-tagged account summary returned by registration and /users/me.
// It never carries the password hash.
type Profile struct {
	UserID             int64   `json:"user_id"`
	Email              string  `json:"email"`
	GivenName          string  `json:"given_name"`
	Surname            string  `json:"surname"`
	City               *string `json:"city"`
	PhoneNumber        *string `json:"phone_number"`
	ProfileDescription *string `json:"profile_description"`
	Role               Role    `json:"user_type"`
}

// NewProfile builds the public summary of an account with the given role.
func NewProfile(a *Account, role Role) *Profile {
	return &Profile{
		UserID:             a.ID,
		Email:              a.Email,
		GivenName:          a.GivenName,
		Surname:            a.Surname,
		City:               a.City,
		PhoneNumber:        a.PhoneNumber,
		ProfileDescription: a.ProfileDescription,
		Role:               role,
	}
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        Role   `json:"user_type"`
	UserID      int64  `json:"user_id"`
}

// CaregiverListing is a caregiver profile with its public account summary.
type CaregiverListing struct {
	Caregiver
	User *Profile `json:"user"`
}

// MemberListing is a member profile with its public account summary.
type MemberListing struct {
	Member
	User *Profile `json:"user"`
}

// ApplicationForJob is an application to one of a member's jobs joined with the
// applying caregiver's profile.
type ApplicationForJob struct {
	Job                Job      `json:"job"`
	CaregiverID        int64    `json:"caregiver_user_id"`
	DateApplied        string   `json:"date_applied"`
	Email              string   `json:"email"`
	GivenName          string   `json:"given_name"`
	Surname            string   `json:"surname"`
	City               *string  `json:"city"`
	PhoneNumber        *string  `json:"phone_number"`
	ProfileDescription *string  `json:"profile_description"`
	Photo              *string  `json:"photo"`
	Gender             *string  `json:"gender"`
	CaregivingType     *string  `json:"caregiving_type"`
	HourlyRate         *float64 `json:"hourly_rate"`
}

// Contact is the part of an account shown to the other party of an appointment.
type Contact struct {
	GivenName   string `json:"name"`
	Surname     string `json:"surname"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

// AddressView renders a member address with missing values as empty strings.
type AddressView struct {
	HouseNumber string `json:"house_number"`
	Street      string `json:"street"`
	Town        string `json:"town"`
}

// AppointmentView is an appointment joined with both parties and the member address.
type AppointmentView struct {
	Appointment
	Caregiver     Contact     `json:"caregiver"`
	Member        Contact     `json:"member"`
	MemberAddress AddressView `json:"member_address"`
}
