package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/iliyamo/portfolio-backend/internal/model"
)

type signup struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50" label:"First name"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50" label:"Last name"`
	Email     string `json:"email" validate:"required,email" label:"Email"`
	Password  string `json:"password" validate:"required,strongpw" label:"Password"`
}

type profile struct {
	Gender    string `json:"gender" validate:"omitempty,gender" label:"Gender"`
	Phone     string `json:"phone" validate:"omitempty,phone" label:"Phone number"`
	AboutMe   string `json:"aboutMe" validate:"omitempty,min=5" label:"About Me"`
	Portfolio string `json:"portfolio" validate:"omitempty,weburl" label:"Portfolio"`
	LinkedIn  string `json:"linkedInUrl" validate:"omitempty,weburl" label:"LinkedIn"`
}

type passwords struct {
	NewPassword string `json:"newPassword" validate:"required,strongpw" label:"New password"`
	Confirm     string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword" label:"Password confirmation"`
}

func fieldOf(t *testing.T, err error) *Error {
	t.Helper()
	var ve *Error
	if !errors.As(err, &ve) {
		t.Fatalf("expected *validator.Error, got %v", err)
	}
	return ve
}

func TestSignup(t *testing.T) {
	v := New()
	if err := v.Validate(&signup{"Ana", "Lopez", "ana@example.com", "Str0ng!pass"}); err != nil {
		t.Fatalf("valid signup rejected: %v", err)
	}
	cases := []struct {
		name  string
		in    signup
		field string
	}{
		{"missing first", signup{"", "Lopez", "ana@example.com", "Str0ng!pass"}, "firstName"},
		{"short last", signup{"Ana", "L", "ana@example.com", "Str0ng!pass"}, "lastName"},
		{"bad email", signup{"Ana", "Lopez", "ana@", "Str0ng!pass"}, "email"},
		{"display name email", signup{"Ana", "Lopez", "Ana <ana@example.com>", "Str0ng!pass"}, "email"},
		{"weak password", signup{"Ana", "Lopez", "ana@example.com", "password"}, "password"},
		{"no symbol", signup{"Ana", "Lopez", "ana@example.com", "Passw0rdd"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := fieldOf(t, v.Validate(&tc.in)).Field; got != tc.field {
				t.Fatalf("field = %q, want %q", got, tc.field)
			}
		})
	}
}

func TestFirstViolationOnly(t *testing.T) {
	err := New().Validate(&signup{"", "", "bad", "weak"})
	ve := fieldOf(t, err)
	if ve.Field != "firstName" || ve.Message != "First name is required" {
		t.Fatalf("got %q: %q", ve.Field, ve.Message)
	}
	if strings.Contains(err.Error(), "Email") {
		t.Fatalf("violations were aggregated: %q", err)
	}
}

func TestMessages(t *testing.T) {
	v := New()
	cases := []struct {
		in   any
		want string
	}{
		{&signup{"Ana", "L", "ana@example.com", "Str0ng!pass"}, "Last name should be at least 2 characters long"},
		{&signup{"Ana", "Lopez", "ana@", "Str0ng!pass"}, "Email is not valid"},
		{&signup{"Ana", "Lopez", "ana@example.com", "password"}, "Password should be strong (min 8 characters, 1 uppercase, 1 lowercase, 1 number, 1 symbol)"},
		{&profile{Gender: "robot"}, "Gender must be 'male', 'female', or 'others'"},
		{&profile{Phone: "12345"}, "Phone number is not valid"},
		{&profile{LinkedIn: "not a url"}, "LinkedIn URL is not valid"},
		{&passwords{"N3w!password", "N3w!passw0rd"}, "Password confirmation does not match"},
		{&model.Skill{Title: "Go", Proficiency: "guru"}, "Proficiency must be one of Beginner, Intermediate, Advanced, Expert"},
	}
	for _, tc := range cases {
		if got := fieldOf(t, v.Validate(tc.in)).Message; got != tc.want {
			t.Errorf("message = %q, want %q", got, tc.want)
		}
	}
}

func TestProfile(t *testing.T) {
	v := New()
	ok := profile{Phone: "+1 555-123-4567", Portfolio: "ana.dev", LinkedIn: "https://linkedin.com/in/ana", Gender: "Female"}
	if err := v.Validate(&ok); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}
	if err := v.Validate(&profile{}); err != nil {
		t.Fatalf("empty profile edit rejected: %v", err)
	}
	cases := map[string]profile{
		"gender":      {Gender: "robot"},
		"phone":       {Phone: "12345"},
		"aboutMe":     {AboutMe: "hey"},
		"linkedInUrl": {LinkedIn: "not a url"},
		"portfolio":   {Portfolio: "ftp://ana.dev"},
	}
	for want, in := range cases {
		if got := fieldOf(t, v.Validate(&in)).Field; got != want {
			t.Errorf("field = %q, want %q", got, want)
		}
	}
}

func TestPasswords(t *testing.T) {
	v := New()
	if err := v.Validate(&passwords{"N3w!password", "N3w!password"}); err != nil {
		t.Fatalf("valid change rejected: %v", err)
	}
	if got := fieldOf(t, v.Validate(&passwords{"N3w!password", ""})).Field; got != "confirmNewPassword" {
		t.Fatalf("field = %q", got)
	}
	long := "Aa1!" + strings.Repeat("x", 69)
	if got := fieldOf(t, v.Validate(&passwords{long, long})).Field; got != "newPassword" {
		t.Fatalf("73-byte password accepted, field = %q", got)
	}
}

func TestModels(t *testing.T) {
	v := New()
	if err := v.Validate(&model.Project{Title: "Site", Description: "Portfolio", LiveLink: "localhost:3000"}); err != nil {
		t.Fatalf("valid project rejected: %v", err)
	}
	if got := fieldOf(t, v.Validate(&model.Project{Title: strings.Repeat("t", 121), Description: "d"})).Field; got != "title" {
		t.Fatalf("field = %q, want title", got)
	}
	if got := fieldOf(t, v.Validate(&model.Project{Title: "Site", Description: "d", GitLink: "git hub"})).Field; got != "gitLink" {
		t.Fatalf("field = %q, want gitLink", got)
	}
	tl := &model.TimeLine{Title: "Job", Description: "Backend", TimeLine: model.Period{From: "2020"}}
	ve := fieldOf(t, v.Validate(tl))
	if ve.Field != "to" || ve.Message != "To is required" {
		t.Fatalf("got %q: %q", ve.Field, ve.Message)
	}
	if got := fieldOf(t, v.Validate(&model.Message{SenderName: "G", Subject: "Hi", Message: "hello"})).Field; got != "senderName" {
		t.Fatalf("field = %q, want senderName", got)
	}
	if got := fieldOf(t, v.Validate(&model.SoftwareApplication{})).Field; got != "name" {
		t.Fatalf("field = %q, want name", got)
	}
}

func TestUnicodeLengthCountsRunes(t *testing.T) {
	if err := New().Validate(&signup{"Zoë", "Ñu", "zoe@example.com", "Str0ng!pass"}); err != nil {
		t.Fatalf("two-rune name rejected: %v", err)
	}
}

func TestStructSharesRules(t *testing.T) {
	if got := fieldOf(t, Struct(&profile{Phone: "+1 (555) 123"})).Field; got != "phone" {
		t.Fatalf("field = %q", got)
	}
}

func TestNonStructIsNotFieldError(t *testing.T) {
	err := New().Validate("plain string")
	var ve *Error
	if err == nil || errors.As(err, &ve) {
		t.Fatalf("want a plain error, got %v", err)
	}
}
