package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Gender is stored lowercased; the empty value normalizes to GenderOthers.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOthers Gender = "others"
)

// NormalizeGender lowercases raw and reports whether it is a known value.
// Blank input yields the default, GenderOthers.
func NormalizeGender(raw string) (Gender, bool) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(raw))); g {
	case "":
		return GenderOthers, true
	case GenderMale, GenderFemale, GenderOthers:
		return g, true
	default:
		return g, false
	}
}

// NormalizeEmail trims and lowercases an address before it is stored or
// looked up, so the unique index sees one spelling per mailbox.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// User is a document in the users collection.
//
// ResetPasswordToken holds the SHA-256 digest of an outstanding reset token
// and ResetPasswordExpire its deadline.  They are written and removed
// together; neither is ever serialized to clients, and neither is the
// password hash.
type User struct {
	ID                  bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName           string        `bson:"firstName" json:"firstName"`
	LastName            string        `bson:"lastName" json:"lastName"`
	Email               string        `bson:"email" json:"email"`
	Password            string        `bson:"password" json:"-"`
	Gender              Gender        `bson:"gender" json:"gender"`
	Phone               string        `bson:"phone,omitempty" json:"phone,omitempty"`
	AboutMe             string        `bson:"aboutMe,omitempty" json:"aboutMe,omitempty"`
	Avatar              Media         `bson:"avatar" json:"avatar"`
	Resume              Media         `bson:"resume" json:"resume"`
	Portfolio           string        `bson:"portfolio,omitempty" json:"portfolio,omitempty"`
	GithubURL           string        `bson:"githubUrl" json:"githubUrl"`
	LinkedInURL         string        `bson:"linkedInUrl" json:"linkedInUrl"`
	ResetPasswordToken  string        `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire *time.Time    `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt           time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// ProfileUpdate lists the profile fields a user may change.  Nil pointers
// leave the stored value untouched.
type ProfileUpdate struct {
	FirstName   *string
	LastName    *string
	Gender      *Gender
	Phone       *string
	AboutMe     *string
	Portfolio   *string
	GithubURL   *string
	LinkedInURL *string
	Avatar      *Media
	Resume      *Media
}

// Apply copies the set fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.AboutMe != nil {
		u.AboutMe = *p.AboutMe
	}
	if p.Portfolio != nil {
		u.Portfolio = *p.Portfolio
	}
	if p.GithubURL != nil {
		u.GithubURL = *p.GithubURL
	}
	if p.LinkedInURL != nil {
		u.LinkedInURL = *p.LinkedInURL
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Resume != nil {
		u.Resume = *p.Resume
	}
}
