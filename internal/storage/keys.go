package storage

const keyPrefix = "librismundis_"

// GuestNamespace is the storage scope used before anyone logs in.
const GuestNamespace = "guest"

// Directory and session-marker keys, shared across namespaces.
const (
	UsersKey       = keyPrefix + "users"
	CurrentUserKey = keyPrefix + "currentUser"
	ThemeKey       = keyPrefix + "theme"
)

// UserNamespace derives the storage scope for an account id.
func UserNamespace(accountID string) string {
	return "user_" + accountID
}

// BooksKey returns the key holding a namespace's book collection.
func BooksKey(namespace string) string {
	return keyPrefix + namespace + "_books"
}

// VocabularyKey returns the key holding a namespace's vocabulary collection.
func VocabularyKey(namespace string) string {
	return keyPrefix + namespace + "_vocabulary"
}

// StatsKey returns the key holding a namespace's gamification stats.
func StatsKey(namespace string) string {
	return keyPrefix + namespace + "_stats"
}
