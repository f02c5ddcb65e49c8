package core

// User is the public view of an account. It has no password field.
type User struct {
	Username string `json:"username" yaml:"username"`
	Currency string `json:"currency" yaml:"currency"`
}

// Credentials is the stored form of an account.
type Credentials struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Currency string `json:"currency" yaml:"currency"`
}

// Public strips the password.
func (c Credentials) Public() User {
	return User{Username: c.Username, Currency: c.Currency}
}
