package entity

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt hash
}

// Friend is a one-way edge; the reverse edge is not implied.
type Friend struct {
	ID       int `json:"id"`
	UserID   int `json:"user_id"`
	FriendID int `json:"friend_id"`
}

type Interest struct {
	ID       int    `json:"id"`
	UserID   int    `json:"user_id"`
	Interest string `json:"interest"`
}

/*
Schema lives in user-service/migrations (mysql and sqlite variants):

users     (id, username UNIQUE, password)
friends   (id, user_id -> users.id, friend_id)
interests (id, user_id -> users.id, interest)
*/
