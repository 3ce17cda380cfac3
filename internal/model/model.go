package model

import "fmt"

// Account represents one identity on the hosting service (e.g. a work or a
// personal account). Each account gets its own key pair and host alias.
type Account struct {
	Name  string `yaml:"name" mapstructure:"name"`
	Email string `yaml:"email" mapstructure:"email"`
}

// Validate reports whether the account carries the fields required for
// provisioning. Records failing validation are skipped, not fatal.
func (a Account) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("account is missing required field 'name'")
	}
	if a.Email == "" {
		return fmt.Errorf("account %q is missing required field 'email'", a.Name)
	}
	return nil
}

// String returns the name <email> representation.
func (a Account) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}
