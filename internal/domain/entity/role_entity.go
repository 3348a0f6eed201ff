package entity

// Role is the fixed role claim carried in session tokens.
type Role string

const RoleDoctor Role = "doctor"
