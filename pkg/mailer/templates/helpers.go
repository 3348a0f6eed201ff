package templates

import (
	"time"

	"github.com/clinic-suite/clinic-backend/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithDepartment(dep string) Option { return func(d *EmailData) { d.Department = dep } }

// WithDefaultPassword flags that the account still uses the name-derived password.
func WithDefaultPassword(used bool) Option { return func(d *EmailData) { d.DefaultPassword = used } }

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,
	}
	if cfg != nil {
		d.ClinicName = cfg.ClinicName
		d.ClinicAddress = cfg.ClinicAddress
		d.AppName = cfg.AppName
		d.LogoURL = cfg.LogoURL
		d.SupportURL = cfg.SupportURL
		d.LoginURL = cfg.LoginURL
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewDoctorWelcomeData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, DoctorWelcome, name, email, email, opts...)
	return ToMap(d)
}
