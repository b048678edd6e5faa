// Package mail delivers exported carousels by SMTP.
package mail

import (
	"strconv"
	"strings"

	"github.com/guichet-numerique/carrousel/internal/apiserver/database"
)

const DefaultPort = 587

// Source tells where the settings came from.
type Source string

const (
	SourceDatabase    Source = "database"
	SourceEnvironment Source = "environment"
)

// Settings is a resolved SMTP configuration.
type Settings struct {
	Host             string
	Port             int
	Secure           bool
	User             string
	Pass             string
	From             string
	DestinationEmail string
	Source           Source
}

// Usable reports whether a message can be sent with these settings.
func (s *Settings) Usable() bool {
	return s != nil && s.Host != "" && s.User != "" && s.Pass != ""
}

// Resolve picks the stored configuration when it is complete, otherwise
// the SMTP_* environment variables. It returns nil when neither is usable.
// The stored destination address is kept in both cases.
func Resolve(stored *database.SmtpConfig, getenv func(string) string) *Settings {
	var dest string
	if stored != nil {
		dest = stored.DestinationEmail
		s := &Settings{
			Host:             stored.Host,
			Port:             stored.Port,
			Secure:           stored.Secure,
			User:             stored.User,
			Pass:             stored.Pass,
			From:             stored.From,
			DestinationEmail: dest,
			Source:           SourceDatabase,
		}
		if s.Usable() {
			s.normalize()
			return s
		}
	}

	s := &Settings{
		Host:             getenv("SMTP_HOST"),
		Secure:           strings.EqualFold(getenv("SMTP_SECURE"), "true"),
		User:             getenv("SMTP_USER"),
		Pass:             getenv("SMTP_PASS"),
		From:             getenv("SMTP_FROM"),
		DestinationEmail: dest,
		Source:           SourceEnvironment,
	}
	if p, err := strconv.Atoi(getenv("SMTP_PORT")); err == nil {
		s.Port = p
	}
	if !s.Usable() {
		return nil
	}
	s.normalize()
	return s
}

func (s *Settings) normalize() {
	if s.Port <= 0 {
		s.Port = DefaultPort
	}
	if s.From == "" {
		s.From = s.User
	}
}
