package models

// User is the identity returned by the remote auth endpoint. The entry form
// fetches it for logging only; authorization stays on the remote side.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Active    bool   `json:"isActive"`
}
