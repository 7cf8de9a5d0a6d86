package seedmodels

// SeedDocument defines a document in the JSON seed file.
type SeedDocument struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// SeedUser defines an account and its documents in the JSON seed file.
type SeedUser struct {
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	Documents []SeedDocument `json:"documents"`
}
