package domain

// Role is the access class of an account
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid reports whether the role is one the server can issue
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User is an authenticated identity or a managed account
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Book is one catalog entry. Available counts copies not currently out on
// an active loan; it is only ever updated from server responses, never
// adjusted locally ahead of confirmation.
type Book struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Year      int    `json:"year,omitempty"`
	ISBN      string `json:"isbn,omitempty"`
	Copies    int    `json:"copies"`
	Available int    `json:"available"`
}

// CountersValid reports the availability invariant 0 <= available <= copies
func (b Book) CountersValid() bool {
	return b.Available >= 0 && b.Available <= b.Copies
}

// Page is one page of a server-paginated listing
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}
