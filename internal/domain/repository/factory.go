package repository

// Factory describes access to the domain repositories of one backend.
type Factory interface {
	Customers() CustomerRepository
	Users() UserRepository
}
