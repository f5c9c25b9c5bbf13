package user

const (
	SelectUserByEmail = `
		SELECT id, uuid, email, password_hash, role, name, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	SelectIdByUUID = `SELECT id FROM users WHERE uuid = $1::uuid`
)
