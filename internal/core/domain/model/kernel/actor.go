package kernel

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Role is the kind of party requesting a transition. It gates cancellation
// capabilities and is written into the audit note.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleSystem   Role = "system"
	RoleCarrier  Role = "carrier"
)

// ParseRole accepts a role name in any case, surrounded by any whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleStaff, RoleSystem, RoleCarrier:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is whoever asked for a transition: a customer, a staff member, a
// scheduled job or the carrier integration.
type Actor struct {
	role Role
	name string
}

// NewActor validates role and the trimmed name. Both errors are reported
// together.
//
// Example:
//
//	staff, err := kernel.NewActor(kernel.RoleStaff, "alice")
//	fmt.Println(staff) // "staff:alice"
func NewActor(role Role, name string) (Actor, error) {
	name = strings.TrimSpace(name)
	if err := errors.Join(
		role.Validate(),
		requireNonEmpty("actor name", name),
	); err != nil {
		return Actor{}, err
	}
	return Actor{role: role, name: name}, nil
}

// SystemActor builds the actor used by scheduled jobs.
func SystemActor(name string) Actor {
	return Actor{role: RoleSystem, name: name}
}

// CarrierActor builds the actor used by carrier status reconciliation.
func CarrierActor(carrierName string) Actor {
	if carrierName == "" {
		carrierName = "carrier"
	}
	return Actor{role: RoleCarrier, name: carrierName}
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) Name() string {
	return a.name
}

func (a Actor) Validate() error {
	return errors.Join(a.role.Validate(), requireNonEmpty("actor name", a.name))
}

// String renders "role:name", the form used in audit notes.
func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.role, a.name)
}

func requireNonEmpty(param, v string) error {
	if v == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}
