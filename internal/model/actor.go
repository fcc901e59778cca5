package model

import "time"

// Role classifies an actor for the points workflow. Members receive points
// and request them; staff give points and authorize spending.
type Role string

const (
	RoleMember Role = "member"
	RoleStaff  Role = "staff"
)

// Unit is an actor's affiliation. Nullable on the actor record.
type Unit string

const (
	UnitHeadquarters Unit = "headquarters"
	UnitSecurity     Unit = "security"
	UnitAmmunition   Unit = "ammunition"
	UnitStaff        Unit = "staff"
)

// Capability is an atomic grant checked by permission-gated operations.
type Capability string

const (
	CapAdmin     Capability = "Admin"
	CapCommander Capability = "Commander"
	CapUserAdmin Capability = "UserAdmin"
	CapStaffRole Capability = "StaffRole"
	CapApprover  Capability = "Approver"
)

// Actor is a registered account identified by its service number.
// VerifiedAt, RejectedAt and DeletedAt are lifecycle markers set by
// administrative workflows upstream of the points core.
type Actor struct {
	SN           string       `json:"sn"`
	Name         string       `json:"name"`
	Role         Role         `json:"role"`
	Unit         *Unit        `json:"unit"`
	Capabilities []Capability `json:"capabilities"`
	VerifiedAt   *time.Time   `json:"verified_at"`
	RejectedAt   *time.Time   `json:"rejected_at"`
	DeletedAt    *time.Time   `json:"deleted_at"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ActorRef is the short form used in directories (approver selection).
type ActorRef struct {
	SN   string `json:"sn"`
	Name string `json:"name"`
	Unit *Unit  `json:"unit"`
}
