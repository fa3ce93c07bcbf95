package model

// PasswordHasher abstracts the password hashing primitive.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}
