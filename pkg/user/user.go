package user

// User is an account created on first Google login. Email is the identity
// Google reports; Uid is the stable identifier exposed over the API.
type User struct {
	Id          int
	Uid         string
	Email       string
	DisplayName string
	PhotoUrl    string
}
