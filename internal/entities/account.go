package entities

// Account is a locally registered user record.
//
// Password is stored and compared as plain text: the account system only
// namespaces data on a single machine and offers no real security. Anything
// beyond that use case must hash credentials before storing them.
type Account struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CreatedAt int64  `json:"createdAt"`
}

// PublicAccount is the session-marker projection of an Account, without the
// password field.
type PublicAccount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a Account) Public() PublicAccount {
	return PublicAccount{ID: a.ID, Name: a.Name, Email: a.Email}
}
