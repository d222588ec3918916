package screens

import (
	"context"
	"strings"
	"unicode/utf8"

	"ptask/internal/nav"
	"ptask/internal/service"
	"ptask/internal/session"
)

// Mode selects between the login and register forms.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// AuthOutcome is the result kind of a submitted auth form.
type AuthOutcome int

const (
	AuthFailed AuthOutcome = iota
	LoggedIn
	Registered
)

// AuthResult is what Submit produced.
type AuthResult struct {
	Outcome AuthOutcome
	Err     error
}

// AuthForm is the login/register screen.
type AuthForm struct {
	svc   service.Auth
	store session.Store
	nav   *nav.Controller

	Mode     Mode
	Email    string
	Password string
	Name     string // register only, optional

	// Err is the inline error banner; Notice is an informational line.
	Err    string
	Notice string
}

// NewAuthForm creates an auth form in login mode.
func NewAuthForm(svc service.Auth, store session.Store, ctrl *nav.Controller) AuthForm {
	return AuthForm{svc: svc, store: store, nav: ctrl}
}

// ToggleMode switches between login and register and clears the banner.
func (f *AuthForm) ToggleMode() {
	if f.Mode == ModeLogin {
		f.Mode = ModeRegister
	} else {
		f.Mode = ModeLogin
	}
	f.Err = ""
	f.Notice = ""
}

// Validate checks the fields before anything is sent.
func (f *AuthForm) Validate() error {
	return ValidateCredentials(f.Email, f.Password)
}

// ValidateCredentials applies the local rules in order: both fields
// present, an "@" in the email, a password of MinPasswordLength or more.
func ValidateCredentials(email, password string) error {
	if email == "" || password == "" {
		return &ValidationError{Msg: MsgFillAllFields}
	}
	if !strings.Contains(email, "@") {
		return &ValidationError{Msg: MsgInvalidEmail}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &ValidationError{Msg: MsgShortPassword}
	}
	return nil
}

// Submit validates and then logs in or registers.
//
// A successful login stores the credential and tells the controller.
// Submit does not modify f, so it can run on a copy off the UI goroutine;
// merge the result with Apply.
func (f *AuthForm) Submit(ctx context.Context) AuthResult {
	if err := f.Validate(); err != nil {
		return AuthResult{Outcome: AuthFailed, Err: err}
	}
	creds := service.Credentials{Email: f.Email, Password: f.Password}

	if f.Mode == ModeRegister {
		creds.Name = strings.TrimSpace(f.Name)
		if _, err := f.svc.Register(ctx, creds); err != nil {
			return AuthResult{Outcome: AuthFailed, Err: requestError(err, MsgAuthFailed)}
		}
		return AuthResult{Outcome: Registered}
	}

	res, err := f.svc.Login(ctx, creds)
	if err != nil {
		return AuthResult{Outcome: AuthFailed, Err: requestError(err, MsgAuthFailed)}
	}
	if err := f.store.Set(res.AccessToken); err != nil {
		return AuthResult{Outcome: AuthFailed, Err: &RequestError{Msg: MsgAuthFailed, Err: err}}
	}
	f.nav.LoginSucceeded()
	return AuthResult{Outcome: LoggedIn}
}

// Apply merges a Submit result into the form.
// Registration switches back to login mode and clears the password.
func (f *AuthForm) Apply(res AuthResult) {
	f.Err = ""
	f.Notice = ""
	switch res.Outcome {
	case AuthFailed:
		if res.Err != nil {
			f.Err = res.Err.Error()
		}
	case LoggedIn:
		f.Password = ""
	case Registered:
		f.Mode = ModeLogin
		f.Password = ""
		f.Notice = MsgRegistered
	}
}
