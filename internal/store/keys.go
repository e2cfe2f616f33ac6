package store

// keyPrefix namespaces every key the application owns.
const keyPrefix = "@grocerylistapp:"

// Persisted keys.
const (
	keySession           = keyPrefix + "jwt"
	keyDocument          = keyPrefix + "data"
	keyBaseURL           = keyPrefix + "baseurl"
	keyDeletedItems      = keyPrefix + "deleteditems"
	keyDeletedCategories = keyPrefix + "deletedcategories"
	keyUser              = keyPrefix + "user"
	keyUserPrefs         = keyPrefix + "userprefs"
)
