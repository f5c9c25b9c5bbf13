package photo

const (
	SelectPhotoByUUID = `
		SELECT id, uuid, user_id, url, remote_public_id, is_main, created_at
		FROM photos
		WHERE uuid = $1
	`
	SelectUserPhotos = `
		SELECT id, uuid, user_id, url, remote_public_id, is_main, created_at
		FROM photos
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	LockUserByID = `SELECT id FROM users WHERE id = $1 FOR UPDATE`
	InsertPhoto  = `
		INSERT INTO photos (user_id, url, remote_public_id, is_main)
		VALUES ($1, $2, $3, $4)
		RETURNING
		  id, uuid, user_id, url, remote_public_id, is_main, created_at
	`
	UpdatePhotoIsMain = `UPDATE photos SET is_main = $1 WHERE id = $2`
	DeletePhotoByID   = `DELETE FROM photos WHERE id = $1`
)
