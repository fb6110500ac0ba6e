package entity

type Wishlist struct {
	ID     int `json:"id"`
	UserID int `json:"user_id"`
}

type Gift struct {
	ID         int    `json:"id"`
	WishlistID int    `json:"wishlist_id"`
	Name       string `json:"name"`
}

// WishlistDetail is a wishlist together with its gifts.
type WishlistDetail struct {
	Wishlist
	Gifts []Gift `json:"gifts"`
}

// User is the subset of the user service's response the wishlist service reads.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

/*
Schema lives in wishlist-service/migrations (mysql and sqlite variants):

wishlists (id, user_id)
gifts     (id, wishlist_id -> wishlists.id, name)
*/
